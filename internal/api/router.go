package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "yieldScope/docs"
	"yieldScope/internal/metrics"
)

func NewRouter(h *Handler, m *metrics.Metrics, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger, m))
	router.Use(middleware.Recoverer)

	router.Get("/", h.Index)
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
	router.Get("/pools", h.ListPools)
	router.Get("/pool/{address}", h.GetPool)
	router.Get("/pool/{address}/coingecko/ohlcv", h.GetPoolOHLCV)

	router.Method(http.MethodGet, "/metrics", m.Handler())
	router.Get("/swagger/*", swagger.WrapHandler)
	return router
}

// requestLogger logs each request and records it by route pattern.
func requestLogger(logger *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			elapsed := time.Since(start)
			m.ObserveHTTP(route, r.Method, status, elapsed)
			logger.Debug("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", elapsed),
			)
		})
	}
}
