package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"yieldScope/internal/model"
	"yieldScope/internal/pool"
)

// PoolReader is the read-only view of the pool registry.
type PoolReader interface {
	Get(address model.PoolAddress) (model.Pool, bool)
	List() []model.Pool
}

// OHLCVSource serves price history for a pool.
type OHLCVSource interface {
	PoolOHLCV(ctx context.Context, pool model.PoolAddress) (model.OHLCVResponse, error)
}

type Handler struct {
	pools  PoolReader
	ohlcv  OHLCVSource
	ready  func() error
	logger *zap.Logger
}

func NewHandler(pools PoolReader, ohlcv OHLCVSource, ready func() error, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ready == nil {
		ready = func() error { return nil }
	}
	return &Handler{pools: pools, ohlcv: ohlcv, ready: ready, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// Index godoc
// @Summary      Service banner
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "UP"
// @Router       / [get]
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "UP")
}

// Health godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "ok")
}

// Ready godoc
// @Summary      Readiness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorResponse
// @Router       /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if err := h.ready(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ListPools godoc
// @Summary      List pools
// @Description  All pools loaded at startup, ordered by address.
// @Tags         pools
// @Produce      json
// @Success      200  {array}   model.Pool
// @Router       /pools [get]
func (h *Handler) ListPools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.pools.List())
}

// GetPool godoc
// @Summary      Get pool
// @Tags         pools
// @Produce      json
// @Param        address  path      string  true  "Pool address (0x-prefixed)"
// @Success      200      {object}  model.Pool
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /pool/{address} [get]
func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetPoolOHLCV godoc
// @Summary      Pool price history
// @Description  Daily OHLCV candles for a configured pool, proxied from CoinGecko.
// @Tags         pools
// @Produce      json
// @Param        address  path      string  true  "Pool address (0x-prefixed)"
// @Success      200      {object}  model.OHLCVResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      502      {object}  errorResponse
// @Router       /pool/{address}/coingecko/ohlcv [get]
func (h *Handler) GetPoolOHLCV(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if h.ohlcv == nil {
		writeError(w, http.StatusServiceUnavailable, "price history is not configured")
		return
	}

	res, err := h.ohlcv.PoolOHLCV(r.Context(), p.Address)
	if err != nil {
		h.logger.Error("ohlcv fetch failed", zap.String("pool", p.Address.String()), zap.Error(err))
		writeError(w, http.StatusBadGateway, "error fetching OHLCV data")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (model.Pool, bool) {
	address, err := pool.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return model.Pool{}, false
	}
	p, ok := h.pools.Get(address)
	if !ok {
		writeError(w, http.StatusNotFound, "pool not found")
		return model.Pool{}, false
	}
	return p, true
}
