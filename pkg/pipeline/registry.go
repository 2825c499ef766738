package pipeline

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

// Registry maps kind names to kinds so processors can be picked by name, e.g. from configuration.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// NewRegistry creates a registry holding the function, sequential and parallel kinds.
func NewRegistry() *Registry {
	reg := &Registry{
		kinds: make(map[string]*Kind),
	}
	for _, k := range []*Kind{FunctionKind, SequentialKind, ParallelKind} {
		reg.kinds[k.name] = k
	}

	return reg
}

func (r *Registry) Register(kinds ...*Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range kinds {
		if k == nil {
			return ErrKindMustBeSet
		}
		if curr, ok := r.kinds[k.name]; ok && curr != k {
			return errors.Wrap(ErrKindAlreadyRegistered, k.name)
		}
		r.kinds[k.name] = k
	}

	return nil
}

func (r *Registry) Lookup(name string) (*Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	if !ok {
		return nil, errors.Wrap(ErrKindNotFound, name)
	}

	return k, nil
}

// Names returns the registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.kinds))
}
