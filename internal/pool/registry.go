package pool

import (
	"fmt"
	"sort"
	"sync"

	"yieldScope/internal/model"
)

// Registry holds the pool records loaded at startup. It is written only by
// Initialize and is read-only once handed out.
type Registry struct {
	mu   sync.RWMutex
	data map[model.PoolAddress]model.Pool
}

func NewRegistry() *Registry {
	return &Registry{data: make(map[model.PoolAddress]model.Pool)}
}

func (r *Registry) Get(address model.PoolAddress) (model.Pool, bool) {
	r.mu.RLock()
	p, ok := r.data[address]
	r.mu.RUnlock()
	return p, ok
}

// List returns all records ordered by address.
func (r *Registry) List() []model.Pool {
	r.mu.RLock()
	pools := make([]model.Pool, 0, len(r.data))
	for _, p := range r.data {
		pools = append(pools, p)
	}
	r.mu.RUnlock()

	sort.Slice(pools, func(i, j int) bool { return pools[i].Address < pools[j].Address })
	return pools
}

func (r *Registry) Addresses() []model.PoolAddress {
	r.mu.RLock()
	addrs := make([]model.PoolAddress, 0, len(r.data))
	for addr := range r.data {
		addrs = append(addrs, addr)
	}
	r.mu.RUnlock()

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// insert adds a record; each address may be written once.
func (r *Registry) insert(p model.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[p.Address]; ok {
		return fmt.Errorf("pool %s already registered", p.Address)
	}
	r.data[p.Address] = p
	return nil
}
