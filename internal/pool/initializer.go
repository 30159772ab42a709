package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"yieldScope/internal/metrics"
	"yieldScope/internal/model"
)

// DetailsFetcher reads the raw on-chain state of one pool.
type DetailsFetcher interface {
	FetchPoolDetails(ctx context.Context, pool model.PoolAddress) (model.PoolDetails, error)
}

// Initialize loads every entry through fetcher with at most maxConcurrency
// fetches in flight. It is all or nothing: on the first failure it cancels the
// remaining work and returns that error without waiting for fetches already in
// flight; their results are dropped and no registry is returned.
func Initialize(ctx context.Context, entries []model.PoolEntry, fetcher DetailsFetcher, maxConcurrency int) (*Registry, error) {
	if maxConcurrency < 1 {
		return nil, newError(KindConcurrencyLimit, "", fmt.Errorf("max concurrency must be positive, got %d", maxConcurrency))
	}
	if fetcher == nil {
		return nil, fmt.Errorf("details fetcher is nil")
	}
	if len(entries) == 0 {
		return NewRegistry(), nil
	}
	if err := checkUnique(entries); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	staging := NewRegistry()
	sem := semaphore.NewWeighted(int64(maxConcurrency))
	first := newFirstError(cancel)

	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(entry model.PoolEntry) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				if parentErr := parent.Err(); parentErr != nil {
					first.fail(parentErr)
					return
				}
				first.fail(newError(KindConcurrencyLimit, entry.Address.String(), err))
				return
			}
			defer sem.Release(1)

			if first.failed() {
				return
			}

			record, err := loadPool(ctx, fetcher, entry)
			if err != nil {
				first.fail(err)
				return
			}
			if first.failed() {
				return
			}
			if err := staging.insert(record); err != nil {
				first.fail(err)
			}
		}(entry)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-first.done:
	case <-parent.Done():
	}

	if err := first.result(); err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return staging, nil
}

func loadPool(ctx context.Context, fetcher DetailsFetcher, entry model.PoolEntry) (model.Pool, error) {
	raw, err := fetcher.FetchPoolDetails(ctx, entry.Address)
	if err != nil {
		if KindOf(err) != KindUnknown {
			return model.Pool{}, err
		}
		return model.Pool{}, newError(KindRPCFailure, entry.Address.String(), err)
	}
	return BuildRecord(raw, entry.Address, entry.DexType)
}

func checkUnique(entries []model.PoolEntry) error {
	seen := make(map[model.PoolAddress]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Address]; ok {
			return newError(KindInvalidAddress, entry.Address.String(), fmt.Errorf("duplicate pool entry"))
		}
		seen[entry.Address] = struct{}{}
	}
	return nil
}

// firstError keeps the first reported failure and cancels the shared context.
type firstError struct {
	once   sync.Once
	err    error
	done   chan struct{}
	cancel context.CancelFunc
}

func newFirstError(cancel context.CancelFunc) *firstError {
	return &firstError{done: make(chan struct{}), cancel: cancel}
}

func (f *firstError) fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
		f.cancel()
	})
}

func (f *firstError) failed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// result is safe to call while tasks are still running.
func (f *firstError) result() error {
	if f.failed() {
		return f.err
	}
	return nil
}

// Initializer runs Initialize for the process startup sequence, adding logs
// and metrics around it.
type Initializer struct {
	fetcher        DetailsFetcher
	maxConcurrency int
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

func NewInitializer(fetcher DetailsFetcher, maxConcurrency int, logger *zap.Logger, m *metrics.Metrics) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{
		fetcher:        fetcher,
		maxConcurrency: maxConcurrency,
		logger:         logger,
		metrics:        m,
	}
}

// Run loads all entries and returns the finished registry.
func (i *Initializer) Run(ctx context.Context, entries []model.PoolEntry) (*Registry, error) {
	runID := uuid.NewString()
	logger := i.logger.With(zap.String("run_id", runID))
	logger.Info("pool initialization start",
		zap.Int("pools", len(entries)),
		zap.Int("max_concurrency", i.maxConcurrency),
	)

	start := time.Now()
	registry, err := Initialize(ctx, entries, i.fetcher, i.maxConcurrency)
	elapsed := time.Since(start)
	if err != nil {
		i.metrics.ObserveInit(elapsed, 0, err)
		logger.Error("pool initialization failed",
			zap.String("kind", KindOf(err).String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	i.metrics.ObserveInit(elapsed, registry.Len(), nil)
	logger.Info("pool initialization complete",
		zap.Int("pools", registry.Len()),
		zap.Duration("elapsed", elapsed),
	)
	return registry, nil
}
