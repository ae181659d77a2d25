package registry

import (
	"fmt"
	"sync"

	"github.com/tinyland-lab/reclaim/model"
)

// Registry holds registered ecosystem plugins and resolves the winning
// plugin for a directory's entry list. Registration is idempotent by name
// (re-registering the same name replaces the prior plugin rather than
// duplicating it) and the read path (Resolve, All) takes only a read lock,
// since lookups vastly outnumber registrations.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Plugin
	order   []string // preserves registration order for All()
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register adds p to the registry. Calling Register twice with a plugin of
// the same Name replaces the earlier registration in place, so callers can
// safely re-register during tests or config-driven plugin reloads without
// growing the registry unbounded.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := p.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = p
}

// All returns every registered plugin in registration order.
func (r *Registry) All() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Get returns the plugin registered under name, if any.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// Resolve returns the single best-matching plugin for a directory's entry
// list: the plugin whose Detect reports the highest priority. Ties are
// broken by registration order (first registered wins). Returns false if
// no plugin matches.
func (r *Registry) Resolve(entries []string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Plugin
	bestPriority := -1
	for _, name := range r.order {
		p := r.byName[name]
		matched, priority := p.Detect(entries)
		if !matched {
			continue
		}
		if priority > bestPriority {
			best = p
			bestPriority = priority
		}
	}
	if bestPriority < 0 {
		return nil, false
	}
	return best, true
}

// ResolveAll returns every plugin that matches entries, sorted by
// descending priority, for directories legitimately belonging to more than
// one ecosystem at once (e.g. a Go module vendored inside an npm
// monorepo's tooling directory).
func (r *Registry) ResolveAll(entries []string) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		p        Plugin
		priority int
	}
	var hits []scored
	for _, name := range r.order {
		p := r.byName[name]
		if matched, priority := p.Detect(entries); matched {
			hits = append(hits, scored{p, priority})
		}
	}
	for i := 1; i < len(hits); i++ {
		j := i
		for j > 0 && hits[j-1].priority < hits[j].priority {
			hits[j-1], hits[j] = hits[j], hits[j-1]
			j--
		}
	}
	out := make([]Plugin, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return out
}

// MustGet returns the registered plugin for name or panics. Intended for
// wiring in cmd/reclaim where a missing well-known plugin indicates a
// programmer error, not a runtime condition.
func (r *Registry) MustGet(name string) Plugin {
	p, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("registry: no plugin registered under %q", name))
	}
	return p
}

// KindOf returns the ProjectKind a plugin name resolves to, or
// model.KindUnknown if the name isn't registered.
func (r *Registry) KindOf(name string) model.ProjectKind {
	p, ok := r.Get(name)
	if !ok {
		return model.KindUnknown
	}
	return p.Kind()
}
