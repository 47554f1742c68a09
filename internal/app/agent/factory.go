package agent

import (
	"sync"
	"time"

	"github.com/lgrimaldi/plume-agent/internal/domain"
)

// Factory builds agents and caches them per role id for the lifetime of the
// process. The cache is keyed strictly by id: a hit returns the cached
// handle even if the rest of the role's definition has changed since.
// Ids are assumed to denote the same role for the process lifetime; see
// DESIGN.md for the staleness trade-off.
type Factory struct {
	gen     domain.TextGenerator
	timeout time.Duration
	caching bool

	mu    sync.RWMutex
	cache map[domain.RoleID]*Agent
}

// NewFactory creates a factory. timeout <= 0 means DefaultTimeout. Caching
// can be disabled so tests get a fresh agent per call.
func NewFactory(gen domain.TextGenerator, timeout time.Duration, caching bool) *Factory {
	return &Factory{
		gen:     gen,
		timeout: timeout,
		caching: caching,
		cache:   make(map[domain.RoleID]*Agent),
	}
}

// CreateAgent returns the agent for a role, reusing a cached handle when
// caching is on. Construction never fails; problems surface at Generate time.
func (f *Factory) CreateAgent(role domain.RoleDefinition) *Agent {
	if !f.caching {
		return newAgent(role, f.gen, f.timeout)
	}

	f.mu.RLock()
	ag, ok := f.cache[role.ID]
	f.mu.RUnlock()
	if ok {
		return ag
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if ag, ok := f.cache[role.ID]; ok {
		return ag
	}
	ag = newAgent(role, f.gen, f.timeout)
	f.cache[role.ID] = ag
	return ag
}

// Clear empties the cache. There is no TTL or eviction beyond this.
func (f *Factory) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[domain.RoleID]*Agent)
}

// Size reports how many handles are cached.
func (f *Factory) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}
