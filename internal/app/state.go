package app

import (
	"errors"
	"sync/atomic"

	"yieldScope/internal/model"
	"yieldScope/internal/pool"
)

var errNotReady = errors.New("pool registry not loaded")

// State is the process-wide application state. The registry is installed
// once, after initialization succeeds, and only read afterwards.
type State struct {
	pools atomic.Pointer[pool.Registry]
}

func NewState() *State {
	return &State{}
}

// Install publishes a fully loaded registry. It can only happen once.
func (s *State) Install(r *pool.Registry) error {
	if r == nil {
		return errors.New("install nil registry")
	}
	if !s.pools.CompareAndSwap(nil, r) {
		return errors.New("pool registry already installed")
	}
	return nil
}

func (s *State) Pools() *pool.Registry {
	return s.pools.Load()
}

func (s *State) Ready() error {
	if s.pools.Load() == nil {
		return errNotReady
	}
	return nil
}

func (s *State) Get(address model.PoolAddress) (model.Pool, bool) {
	r := s.pools.Load()
	if r == nil {
		return model.Pool{}, false
	}
	return r.Get(address)
}

func (s *State) List() []model.Pool {
	r := s.pools.Load()
	if r == nil {
		return []model.Pool{}
	}
	return r.List()
}
