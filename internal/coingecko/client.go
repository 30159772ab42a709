// Package coingecko fetches onchain pool candles from the CoinGecko API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"yieldScope/internal/metrics"
	"yieldScope/internal/model"
)

const (
	apiKeyHeader = "x-cg-demo-api-key"
	ohlcvLimit   = "1000"
	maxCached    = 1024
)

// Options configure a Client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL  string
	Network  string
	APIKey   string
	CacheTTL time.Duration
	// RateLimit is requests per second against the upstream; zero means 0.5,
	// the public demo tier allowance.
	RateLimit float64

	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

type Client struct {
	http    *http.Client
	baseURL string
	network string
	apiKey  string
	ttl     time.Duration

	cache   *ristretto.Cache
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("coingecko base url is required")
	}
	if opts.Network == "" {
		return nil, fmt.Errorf("coingecko network is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 0.5
	}

	var cache *ristretto.Cache
	if opts.CacheTTL > 0 {
		c, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 10 * maxCached,
			MaxCost:     maxCached,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("create ohlcv cache failed: %w", err)
		}
		cache = c
	}

	return &Client{
		http:    opts.HTTPClient,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		network: opts.Network,
		apiKey:  opts.APIKey,
		ttl:     opts.CacheTTL,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// PoolOHLCV returns daily candles for a pool, serving repeated requests from
// the cache until the TTL expires.
func (c *Client) PoolOHLCV(ctx context.Context, pool model.PoolAddress) (model.OHLCVResponse, error) {
	key := c.network + ":" + pool.String()
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if res, ok := v.(model.OHLCVResponse); ok {
				c.metrics.OHLCVLookup("cache")
				return res, nil
			}
		}
	}

	res, err := c.fetch(ctx, pool)
	if err != nil {
		c.metrics.OHLCVLookup("error")
		return model.OHLCVResponse{}, err
	}
	c.metrics.OHLCVLookup("upstream")

	if c.cache != nil {
		c.cache.SetWithTTL(key, res, 1, c.ttl)
		c.cache.Wait()
	}
	c.logger.Info("coingecko ohlcv fetched",
		zap.String("pool", pool.String()),
		zap.Int("candles", len(res.Data.Attributes.OHLCVList)),
	)
	return res, nil
}

func (c *Client) fetch(ctx context.Context, pool model.PoolAddress) (model.OHLCVResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return model.OHLCVResponse{}, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") +
		"/onchain/networks/" + url.PathEscape(c.network) +
		"/pools/" + url.PathEscape(pool.String()) +
		"/ohlcv/day"
	q := u.Query()
	q.Set("token", "base")
	q.Set("currency", "token")
	q.Set("limit", ohlcvLimit)
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return model.OHLCVResponse{}, fmt.Errorf("rate limit wait for pool %q: %w", pool, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.OHLCVResponse{}, fmt.Errorf("failed to create request for pool %q: %w", pool, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.OHLCVResponse{}, fmt.Errorf("failed to execute request for pool %q: %w", pool, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.OHLCVResponse{}, fmt.Errorf("unexpected status code %d for pool %q: %s", resp.StatusCode, pool, resp.Status)
	}

	var body model.OHLCVResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.OHLCVResponse{}, fmt.Errorf("failed to decode response for pool %q: %w", pool, err)
	}
	return body, nil
}

func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
