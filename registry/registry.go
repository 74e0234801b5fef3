package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry maps service types to instances. The zero value is not usable;
// use New. Safe for concurrent use by multiple goroutines.
type Registry struct {
	// mu protects entries.
	mu      sync.RWMutex
	entries map[reflect.Type]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[reflect.Type]any),
	}
}

// Register binds svc as the service for type T. Returns ErrAlreadyRegistered
// if T already has a binding; the existing binding is kept.
func Register[T any](r *Registry, svc T) error {
	key := typeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	r.entries[key] = svc
	return nil
}

// Replace swaps the existing binding for type T. Returns ErrNotRegistered
// when T has no binding yet; use Register for first-time bindings.
func Replace[T any](r *Registry, svc T) error {
	key := typeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	r.entries[key] = svc
	return nil
}

// Resolve returns the service bound for type T, or ErrNotRegistered.
func Resolve[T any](r *Registry) (T, error) {
	key := typeOf[T]()

	r.mu.RLock()
	svc, exists := r.entries[key]
	r.mu.RUnlock()

	if !exists {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	return svc.(T), nil
}

// MustResolve is like Resolve but panics when T has no binding. Intended for
// wiring done once at startup, where a missing service is a programmer
// error.
func MustResolve[T any](r *Registry) T {
	svc, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("gamecore: %v", err))
	}
	return svc
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// typeOf returns the reflect.Type for T, including interface types, which
// reflect.TypeOf on a value cannot produce.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
