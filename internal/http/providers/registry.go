package providers

import (
	"sort"
	"sync"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

// Registry guarda los providers habilitados, indexados por tipo.
type Registry struct {
	mu        sync.RWMutex
	providers map[types.Provider]Provider
}

// NewRegistry crea un registry con los providers dados.
func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{providers: make(map[types.Provider]Provider, len(ps))}
	for _, p := range ps {
		r.Register(p)
	}
	return r
}

// Register agrega (o reemplaza) un provider.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retorna el provider si está habilitado.
func (r *Registry) Get(name types.Provider) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Enabled lista los providers habilitados, ordenados.
func (r *Registry) Enabled() []types.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Provider, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
