package driver

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownService = errors.New("unknown service")

// Registry is an immutable service key -> driver table built once at startup.
type Registry struct {
	drivers map[string]Driver
	keys    []string
}

// NewRegistry panics on duplicate service keys; registration is static.
func NewRegistry(drivers ...Driver) *Registry {
	r := &Registry{drivers: make(map[string]Driver, len(drivers))}
	for _, d := range drivers {
		key := d.ServiceKey()
		if _, dup := r.drivers[key]; dup {
			panic(fmt.Sprintf("driver: duplicate service key %q", key))
		}
		r.drivers[key] = d
		r.keys = append(r.keys, key)
	}
	slices.Sort(r.keys)
	return r
}

func (r *Registry) Has(key string) bool {
	_, ok := r.drivers[key]
	return ok
}

func (r *Registry) Driver(key string) (Driver, error) {
	d, ok := r.drivers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, key)
	}
	return d, nil
}

// Services lists registered keys in sorted order.
func (r *Registry) Services() []string {
	return slices.Clone(r.keys)
}
