package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"yieldScope/internal/metrics"
	"yieldScope/internal/model"
)

const knownPool = model.PoolAddress("0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640")

type stubPools map[model.PoolAddress]model.Pool

func (s stubPools) Get(address model.PoolAddress) (model.Pool, bool) {
	p, ok := s[address]
	return p, ok
}

func (s stubPools) List() []model.Pool {
	out := make([]model.Pool, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	return out
}

type stubOHLCV struct {
	res   model.OHLCVResponse
	err   error
	calls []model.PoolAddress
}

func (s *stubOHLCV) PoolOHLCV(_ context.Context, pool model.PoolAddress) (model.OHLCVResponse, error) {
	s.calls = append(s.calls, pool)
	return s.res, s.err
}

func samplePool() model.Pool {
	return model.Pool{
		Address:     knownPool,
		DexType:     model.DexUniswapV3,
		Token0:      model.Token{Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Symbol: "USDC", Decimals: 6},
		Token1:      model.Token{Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", Symbol: "WETH", Decimals: 18},
		Fee:         0.05,
		TickSpacing: 10,
		CurrentTick: 200000,
		Price0:      2e-9,
		Price1:      5e8,
	}
}

func newTestServer(t *testing.T, ohlcv OHLCVSource, ready func() error) *httptest.Server {
	t.Helper()
	h := NewHandler(stubPools{knownPool: samplePool()}, ohlcv, ready, nil)
	srv := httptest.NewServer(NewRouter(h, metrics.New(), nil))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return resp, sb.String()
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, body := get(t, srv, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "UP", body)

	resp, body = get(t, srv, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)
}

func TestReady(t *testing.T) {
	srv := newTestServer(t, nil, func() error { return errors.New("pools not loaded") })
	resp, body := get(t, srv, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Contains(t, body, "pools not loaded")

	srv = newTestServer(t, nil, nil)
	resp, _ = get(t, srv, "/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListPools(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	resp, body := get(t, srv, "/pools")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var pools []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &pools))
	require.Len(t, pools, 1)
	require.Equal(t, knownPool.String(), pools[0]["address"])
	require.Equal(t, "UniswapV3", pools[0]["dex_type"])
	require.InDelta(t, 0.05, pools[0]["fee"], 1e-12)
	require.EqualValues(t, 10, pools[0]["tick_spacing"])
	require.EqualValues(t, 200000, pools[0]["current_tick"])
	token0 := pools[0]["token0"].(map[string]interface{})
	require.Equal(t, "USDC", token0["symbol"])
}

func TestGetPool(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, body := get(t, srv, "/pool/0x88E6A0c2dDD26FEEb64F039a2c41296FcB3f5640")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p model.Pool
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	require.Equal(t, samplePool(), p)

	resp, body = get(t, srv, "/pool/not-an-address")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, "invalid address")

	resp, _ = get(t, srv, "/pool/0x0000000000000000000000000000000000000001")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPoolOHLCV(t *testing.T) {
	source := &stubOHLCV{res: model.OHLCVResponse{Data: model.OHLCVData{
		ID: "eth_" + knownPool.String(),
		Attributes: model.OHLCVAttributes{OHLCVList: []model.OHLCVEntry{
			{Timestamp: 1712534400, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		}},
	}}}
	srv := newTestServer(t, source, nil)

	resp, body := get(t, srv, "/pool/"+knownPool.String()+"/coingecko/ohlcv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"ohlcv_list":[[1712534400,1,2,0.5,1.5,100]]`)
	require.Equal(t, []model.PoolAddress{knownPool}, source.calls)

	resp, _ = get(t, srv, "/pool/0x0000000000000000000000000000000000000001/coingecko/ohlcv")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Len(t, source.calls, 1)
}

func TestGetPoolOHLCVUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, &stubOHLCV{err: errors.New("unexpected status code 429")}, nil)

	resp, body := get(t, srv, "/pool/"+knownPool.String()+"/coingecko/ohlcv")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Contains(t, body, "error fetching OHLCV data")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	get(t, srv, "/pools")

	resp, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `yieldscope_http_requests_total{method="GET",route="/pools",status="200"} 1`)
}

func TestSwaggerDoc(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	resp, body := get(t, srv, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "/pool/{address}/coingecko/ohlcv")
}
