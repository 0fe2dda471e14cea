package collector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/newthinker/fxscout/internal/core"
)

// Registry manages collector plugins
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
}

// NewRegistry creates a new collector registry
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector to the registry
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[c.Name()] = c
}

// Get retrieves a collector by name
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collectors[name]
	return c, ok
}

// Resolve is Get with a CONFIG_MISSING error for unknown names.
func (r *Registry) Resolve(name string) (Collector, error) {
	c, ok := r.Get(name)
	if !ok {
		return nil, core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("collector %q not registered (have %v)", name, r.Names()))
	}
	return c, nil
}

// Names returns registered collector names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
