package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"yieldScope/internal/api"
	"yieldScope/internal/chain"
	"yieldScope/internal/coingecko"
	"yieldScope/internal/config"
	"yieldScope/internal/dex"
	"yieldScope/internal/metrics"
	"yieldScope/internal/pool"
	"yieldScope/internal/telemetry"
)

const serviceName = "yieldscope"

// Loaded is the result of a successful startup load.
type Loaded struct {
	Client   *chain.Client
	Registry *pool.Registry
	ChainID  uint64
}

// LoadPools dials the RPC endpoint and loads every configured pool. Any
// failure aborts the load; the caller owns Loaded.Client on success.
func LoadPools(ctx context.Context, cfg config.Config, logger *zap.Logger, m *metrics.Metrics) (*Loaded, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	entries, err := pool.ParseEntries(cfg.Pools)
	if err != nil {
		return nil, fmt.Errorf("parse pools: %w", err)
	}
	if len(entries) == 0 {
		logger.Warn("no pools configured")
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL, chain.Options{
		RateLimit:    cfg.RPCRateLimit,
		Burst:        cfg.RPCBurst,
		Timeout:      cfg.RPCTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
		Metrics:      m,
	})
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	if cfg.ChainID != 0 && chainID.Uint64() != cfg.ChainID {
		client.Close()
		return nil, fmt.Errorf("chain id mismatch: rpc reports %s, config expects %d", chainID, cfg.ChainID)
	}
	logger.Info("rpc connected", zap.String("chain_id", chainID.String()))

	reader := dex.NewReader(client, common.HexToAddress(cfg.ContractAddress), logger)
	registry, err := pool.NewInitializer(reader, cfg.MaxConcurrency, logger, m).Run(ctx, entries)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Loaded{Client: client, Registry: registry, ChainID: chainID.Uint64()}, nil
}

// Run loads the pools and serves the HTTP API until ctx is cancelled.
// Requests are only served once every pool has loaded.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	shutdownTracing, err := telemetry.Setup(cfg.Trace, os.Stderr, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("trace shutdown failed", zap.Error(err))
		}
	}()

	m := metrics.New()
	state := NewState()

	startupCtx, cancel := context.WithTimeout(ctx, cfg.StartupTimeout)
	defer cancel()

	loaded, err := LoadPools(startupCtx, cfg, logger, m)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer loaded.Client.Close()

	if err := state.Install(loaded.Registry); err != nil {
		return err
	}

	prices, err := coingecko.NewClient(coingecko.Options{
		BaseURL:  cfg.CoinGeckoURL,
		Network:  cfg.CoinGeckoNetwork,
		APIKey:   cfg.CoinGeckoAPIKey,
		CacheTTL: cfg.CoinGeckoCacheTTL,
		Logger:   logger,
		Metrics:  m,
	})
	if err != nil {
		return fmt.Errorf("coingecko client: %w", err)
	}
	defer prices.Close()

	handler := api.NewHandler(state, prices, state.Ready, logger)
	router := api.NewRouter(handler, m, logger)

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	logger.Info("http server listening", zap.String("addr", listener.Addr().String()))
	return serve(ctx, listener, router)
}

// serve runs the HTTP server and shuts it down gracefully on ctx cancellation.
func serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
