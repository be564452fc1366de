package strategy

import (
	"fmt"
	"sort"
)

// Registry maps strategy names to their implementations. It is assembled
// once at startup and read only afterwards.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a registry from the given strategies. Registering two
// strategies under the same name is rejected.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	reg := &Registry{
		strategies: make(map[string]Strategy, len(strategies)),
	}
	for _, strat := range strategies {
		if _, exists := reg.strategies[strat.Name()]; exists {
			return nil, fmt.Errorf("%q, %w", strat.Name(), ErrDuplicateStrategy)
		}
		reg.strategies[strat.Name()] = strat
	}
	return reg, nil
}

// NewDefaultRegistry returns a registry holding the seasonal and baseline
// strategies under their default options.
func NewDefaultRegistry() *Registry {
	reg, err := NewRegistry(NewSeasonal(nil), NewBaseline(nil))
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *Registry) Get(name string) (Strategy, error) {
	strat, exists := r.strategies[name]
	if !exists {
		return nil, fmt.Errorf("%q not one of %v, %w", name, r.Names(), ErrUnknownStrategy)
	}
	return strat, nil
}

// Names returns the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
