package launcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// DefaultTarget is the application object served when none is named.
const DefaultTarget = "main:app"

var (
	ErrInvalidTarget = errors.New("invalid application target")
	ErrAppNotFound   = errors.New("application not found")
)

// Target names an application object as module:attribute.
type Target struct {
	Module    string
	Attribute string
}

func (t Target) String() string {
	return t.Module + ":" + t.Attribute
}

// ParseTarget parses "module:attribute". Both parts are required.
func ParseTarget(s string) (Target, error) {
	module, attr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || module == "" || attr == "" || strings.Contains(attr, ":") {
		return Target{}, fmt.Errorf("%w: %q, expected module:attribute", ErrInvalidTarget, s)
	}
	return Target{Module: module, Attribute: attr}, nil
}

// Factory initializes an application object. It runs before any port is bound.
type Factory func(ctx context.Context) (http.Handler, error)

// Registry maps targets to application factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Target]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[Target]Factory)}
}

// Register adds a factory under name. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	t, err := ParseTarget(name)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("nil factory for %s", t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[t]; exists {
		return fmt.Errorf("application %s already registered", t)
	}
	r.factories[t] = f
	return nil
}

// Lookup returns the factory registered for t.
func (r *Registry) Lookup(t Target) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s (registered: %s)", ErrAppNotFound, t, strings.Join(r.namesLocked(), ", "))
	}
	return f, nil
}

// Names lists registered targets in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for t := range r.factories {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}
