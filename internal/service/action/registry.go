package action

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateAction is returned when a second descriptor is registered
	// under an existing name. This is a configuration error and fatal at boot.
	ErrDuplicateAction = errors.New("action is already registered")

	// ErrUnknownAction is returned when resolving a name that was never registered.
	ErrUnknownAction = errors.New("action not found")
)

// Registry is the process-wide mapping from action name to descriptor.
// It is populated once at startup from the controller binding tables and is
// read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Descriptor)}
}

// Register adds a descriptor to the registry. Registering the same name twice
// fails with ErrDuplicateAction regardless of whether the descriptors match.
func (r *Registry) Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, d.Name)
	}
	r.actions[d.Name] = d
	return nil
}

// Resolve returns the descriptor registered under the given name.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return d, nil
}

// List returns all registered descriptors sorted by name, for the catalog
// endpoint.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.actions))
	for _, d := range r.actions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
