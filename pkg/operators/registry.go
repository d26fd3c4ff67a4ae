package operators

import (
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered wraps lookups of operation names with no registry entry
type ErrNotRegistered struct {
	Name string
}

func (e *ErrNotRegistered) Error() string {
	return fmt.Sprintf("operation '%s' is not registered", e.Name)
}

// Registry stores the operation catalog
type Registry struct {
	operators map[string]Operator
	mu        sync.RWMutex
}

// globalRegistry is the global operation registry, populated by the
// builtin package's init functions
var globalRegistry = &Registry{
	operators: make(map[string]Operator),
}

// GlobalRegistry returns the global operation registry
func GlobalRegistry() *Registry {
	return globalRegistry
}

// Register registers an operation globally
func Register(op Operator) {
	globalRegistry.Register(op)
}

// Register registers an operation in this registry. Re-registration
// replaces the existing entry (useful for testing).
func (r *Registry) Register(op Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[op.Name()] = op
}

// Get retrieves an operation by name
func (r *Registry) Get(name string) (Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.operators[name]
	if !ok {
		return nil, &ErrNotRegistered{Name: name}
	}

	return op, nil
}

// List returns all registered operations sorted by name
func (r *Registry) List() []Operator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Operator, 0, len(r.operators))
	for _, op := range r.operators {
		result = append(result, op)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})

	return result
}

// ListByCategory returns operations in a specific category
func (r *Registry) ListByCategory(category Category) []Operator {
	all := r.List()
	result := []Operator{}

	for _, op := range all {
		if op.Category() == category {
			result = append(result, op)
		}
	}

	return result
}
