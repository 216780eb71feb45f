package container

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrNotBound is returned when nothing is registered for an abstract.
	ErrNotBound = errors.New("container: no binding registered")

	// ErrCircular is returned when a factory depends on itself, directly or
	// through other bindings.
	ErrCircular = errors.New("container: circular dependency")

	// ErrType is returned by Resolve when the instance has another type.
	ErrType = errors.New("container: unexpected instance type")
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// state is shared between a container and the views handed to factories.
type state struct {
	mu sync.RWMutex

	// build serialises factory runs started from the root container.
	build sync.Mutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// tag → []abstract
	tags map[string][]string
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container.
//
// It supports:
//   - Bind / Singleton / Instance
//   - Make / Resolve (generic)
//   - Tags (group multiple abstractions under one tag)
//
// It is safe for concurrent use. Factories run one at a time; the container
// a factory receives resolves its dependencies on the same build path, which
// is how cycles are detected.
type Container struct {
	s *state

	// abstracts currently being built on this path; nil at the root
	stack []string
}

// New creates an empty container.
func New() *Container {
	c := &Container{s: &state{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		tags:      make(map[string][]string),
	}}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Make builds a new value.
//
//	c.Bind("forms.session", func(c *container.Container) (any, error) {
//	    return forms.NewSession(form), nil
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("logger", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return logging.New(logging.Options{Level: cfg.Log.Level})
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	delete(c.s.bindings, abstract)
	c.s.instances[abstract] = instance
}

func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	// Drop an existing instance so it's rebuilt with the new factory.
	delete(c.s.instances, abstract)
	c.s.bindings[abstract] = &binding{factory: factory, singleton: singleton}
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates abstracts with a named group.
//
//	c.Tag("http.routes", "forms.handler", "preferences.handler")
func (c *Container) Tag(tag string, abstracts ...string) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.tags[tag] = append(c.s.tags[tag], abstracts...)
}

// Tagged resolves every abstract registered under tag, in tagging order.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.s.mu.RLock()
	abstracts := slices.Clone(c.s.tags[tag])
	c.s.mu.RUnlock()

	out := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		inst, err := c.Make(abs)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
//
//	router, err := c.Make("router")
func (c *Container) Make(abstract string) (any, error) {
	if inst, ok := c.instance(abstract); ok {
		return inst, nil
	}

	if c.stack == nil {
		c.s.build.Lock()
		defer c.s.build.Unlock()
		// Another goroutine may have built it while we waited.
		if inst, ok := c.instance(abstract); ok {
			return inst, nil
		}
	}

	if slices.Contains(c.stack, abstract) {
		path := append(slices.Clone(c.stack), abstract)
		return nil, fmt.Errorf("%w: %s", ErrCircular, strings.Join(path, " → "))
	}

	c.s.mu.RLock()
	b, ok := c.s.bindings[abstract]
	c.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for [%s]", ErrNotBound, abstract)
	}

	path := &Container{s: c.s, stack: append(slices.Clip(c.stack), abstract)}
	inst, err := b.factory(path)
	if err != nil {
		return nil, fmt.Errorf("container: build [%s]: %w", abstract, err)
	}

	if b.singleton {
		c.s.mu.Lock()
		c.s.instances[abstract] = inst
		c.s.mu.Unlock()
	}
	return inst, nil
}

func (c *Container) instance(abstract string) (any, bool) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	inst, ok := c.s.instances[abstract]
	return inst, ok
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	_, hasBinding := c.s.bindings[abstract]
	_, hasInstance := c.s.instances[abstract]
	return hasBinding || hasInstance
}

// Resolved returns true if the abstract has a cached instance.
func (c *Container) Resolved(abstract string) bool {
	_, ok := c.instance(abstract)
	return ok
}

// Bindings returns every registered abstract key, sorted.
func (c *Container) Bindings() []string {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := make([]string, 0, len(c.s.bindings)+len(c.s.instances))
	for k := range c.s.bindings {
		out = append(out, k)
	}
	for k := range c.s.instances {
		if _, already := c.s.bindings[k]; !already {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	cfg, err := container.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	inst, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] is %T, want %v", ErrType, abstract, inst, reflect.TypeFor[T]())
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Use it only for bindings
// that were already resolved successfully, e.g. after the providers booted.
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
