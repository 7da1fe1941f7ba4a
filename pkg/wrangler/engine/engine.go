package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler/interval"
)

// Default is the engine used when a request names none.
const Default = "sequential"

var (
	// ErrUnknownEngine is returned when a request names an engine that is
	// not registered.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrOrderColumnsRequired is returned by engines that cannot rely on
	// the incoming row order.
	ErrOrderColumnsRequired = errors.New("order columns are required: partitioned frames have no implicit row order")
)

// Engine executes an interval identifier over a frame.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string

	// Transform assigns interval ids and returns the frame extended with
	// the identifier's target column.
	Transform(ctx context.Context, ident *interval.Identifier, f *frame.Frame) (*frame.Frame, error)
}

// Registry holds the available engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry returns an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{engines: map[string]Engine{}}
}

// Register adds an engine under its own name, replacing any previous
// engine with that name.
func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Name()] = e
}

// Get returns the named engine.
func (r *Registry) Get(name string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[name]
	return e, ok
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named engine, or the default engine when name is
// empty.
func (r *Registry) Resolve(name string) (Engine, error) {
	if name == "" {
		name = Default
	}
	e, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return e, nil
}

// DefaultRegistry holds the built-in engines.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(Sequential{})
	DefaultRegistry.Register(Vectorized{})
	DefaultRegistry.Register(Parallel{})
}
