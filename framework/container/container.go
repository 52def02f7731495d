package container

import (
	"bytes"
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// ── Definitions ───────────────────────────────────────────────────────────────

// Definition is a registered service: what to construct and with which
// arguments.
type Definition struct {
	Target    Target
	Arguments []Argument
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service container.
//
// It owns three maps:
//   - registered definitions (name → Definition)
//   - loaded services (name → instance), filled lazily and never invalidated
//   - parameters (name → value), interpolated into arguments at load time
//
// A Container is safe for concurrent use. Concurrent first loads of the same
// service share one instantiation: the first caller runs the target and the
// others wait for its result.
type Container struct {
	mu sync.RWMutex

	services   map[string]Definition
	loaded     map[string]any
	parameters map[string]any

	types    *TypeRegistry
	resolver TargetResolver
	logger   *zap.Logger

	calls   map[string]*loadCall // first loads in progress
	stacks  map[int64][]string   // services each goroutine is constructing, outermost first
	waiting map[int64]string     // service each goroutine is blocked on
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for debug events. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTypes uses types both as the class registry and as the resolver.
func WithTypes(types *TypeRegistry) Option {
	return func(c *Container) {
		if types != nil {
			c.types = types
			c.resolver = types
		}
	}
}

// WithResolver replaces the TargetResolver. Types() still returns the
// container's own registry, which the custom resolver may or may not consult.
func WithResolver(r TargetResolver) Option {
	return func(c *Container) {
		if r != nil {
			c.resolver = r
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	types := NewTypeRegistry()
	c := &Container{
		services:   make(map[string]Definition),
		loaded:     make(map[string]any),
		parameters: make(map[string]any),
		calls:      make(map[string]*loadCall),
		stacks:     make(map[int64][]string),
		waiting:    make(map[int64]string),
		types:      types,
		resolver:   types,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Types returns the class registry consulted for Class targets.
func (c *Container) Types() *TypeRegistry { return c.types }

// ── Registration ──────────────────────────────────────────────────────────────

// RegisterService adds a definition. args are converted with Arg. The target
// is not validated until the service is loaded.
//
//	c.RegisterService("message", container.NewFactory(hello, container.Required("dep")), "@a_dependency")
func (c *Container) RegisterService(name string, target Target, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.services[name]; exists {
		return &DuplicateServiceError{Name: name}
	}
	c.services[name] = Definition{Target: target, Arguments: Args(args...)}
	c.logger.Debug("service registered",
		zap.String("service", name),
		zap.String("target", targetName(target)),
		zap.Int("arguments", len(args)))
	return nil
}

// UnregisterService removes a definition that has not been loaded yet.
func (c *Container) UnregisterService(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.services[name]; !exists {
		return &ServiceNotFoundError{Name: name}
	}
	if _, loaded := c.loaded[name]; loaded {
		return &AlreadyLoadedError{Name: name}
	}
	delete(c.services, name)
	c.logger.Debug("service unregistered", zap.String("service", name))
	return nil
}

// RegisteredServices returns a snapshot of the registered definitions.
func (c *Container) RegisteredServices() map[string]Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.services)
}

// LoadedServices returns a snapshot of the loaded instances. The instances
// themselves are shared, not copied.
func (c *Container) LoadedServices() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.loaded)
}

// HasService reports whether name is registered.
func (c *Container) HasService(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[name]
	return ok
}

// IsLoaded reports whether name has been instantiated.
func (c *Container) IsLoaded(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.loaded[name]
	return ok
}

// ── Resolution ────────────────────────────────────────────────────────────────

// loadCall is a first load in progress. Other callers wait on done.
type loadCall struct {
	done  chan struct{}
	owner int64 // goroutine running the target
	val   any
	err   error
}

// LoadService returns the instance for name, constructing it and its @-referenced
// dependencies on first use. Later calls return the stored instance without
// invoking the target again. A failed load stores nothing and can be retried.
//
// A load that would wait, directly or through other goroutines, on a service
// its own goroutine is still constructing fails with CircularDependencyError.
func (c *Container) LoadService(name string) (any, error) {
	c.mu.RLock()
	_, registered := c.services[name]
	instance, loaded := c.loaded[name]
	c.mu.RUnlock()

	if !registered {
		return nil, &ServiceNotFoundError{Name: name}
	}
	if loaded {
		c.logger.Debug("service loaded from cache", zap.String("service", name))
		return instance, nil
	}

	gid := goroutineID()

	c.mu.Lock()
	def, registered := c.services[name]
	if !registered {
		c.mu.Unlock()
		return nil, &ServiceNotFoundError{Name: name}
	}
	if instance, loaded := c.loaded[name]; loaded {
		c.mu.Unlock()
		return instance, nil
	}
	if call, running := c.calls[name]; running {
		if path := c.cycle(gid, name); path != nil {
			c.mu.Unlock()
			return nil, &CircularDependencyError{Path: path}
		}
		c.waiting[gid] = name
		c.mu.Unlock()

		<-call.done

		c.mu.Lock()
		delete(c.waiting, gid)
		c.mu.Unlock()
		return call.val, call.err
	}
	call := &loadCall{done: make(chan struct{}), owner: gid}
	c.calls[name] = call
	c.stacks[gid] = append(c.stacks[gid], name)
	c.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			c.finish(name, def, call, nil, fmt.Errorf("container: loading service [%s] panicked", name))
		}
	}()
	instance, err := c.instantiate(name, def)
	finished = true
	return c.finish(name, def, call, instance, err)
}

// finish records the outcome of call and releases its waiters.
func (c *Container) finish(name string, def Definition, call *loadCall, instance any, err error) (any, error) {
	c.mu.Lock()
	delete(c.calls, name)
	if stack := c.stacks[call.owner]; len(stack) > 1 {
		c.stacks[call.owner] = stack[:len(stack)-1]
	} else {
		delete(c.stacks, call.owner)
	}
	if err == nil {
		if _, still := c.services[name]; still {
			c.loaded[name] = instance
		} else {
			instance, err = nil, &ServiceNotFoundError{Name: name}
		}
	}
	c.mu.Unlock()

	if err != nil {
		instance = nil
		c.logger.Debug("service load failed", zap.String("service", name), zap.Error(err))
	} else {
		c.logger.Debug("service loaded",
			zap.String("service", name),
			zap.String("target", targetName(def.Target)))
	}
	call.val, call.err = instance, err
	close(call.done)
	return instance, err
}

// cycle follows the waits-for chain starting at goroutine gid wanting name. It
// returns the dependency path when the chain leads back to gid, nil otherwise.
// c.mu must be held.
func (c *Container) cycle(gid int64, name string) []string {
	path := slices.Clone(c.stacks[gid])
	for hops := 0; hops <= len(c.calls); hops++ {
		call, running := c.calls[name]
		if !running {
			return nil
		}
		path = append(path, name)
		if call.owner == gid {
			return path[slices.Index(path, name):]
		}
		stack := c.stacks[call.owner]
		if i := slices.Index(stack, name); i >= 0 {
			path = append(path, stack[i+1:]...)
		}
		next, blocked := c.waiting[call.owner]
		if !blocked {
			return nil
		}
		name = next
	}
	return nil
}

// goroutineID parses the id from the "goroutine N [running]:" stack header.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(bytes.TrimPrefix(buf[:n], []byte("goroutine ")))
	if len(fields) == 0 {
		return 0
	}
	id, _ := strconv.ParseInt(string(fields[0]), 10, 64)
	return id
}

// instantiate runs the arity check, resolves the arguments left to right and
// invokes the target.
func (c *Container) instantiate(name string, def Definition) (any, error) {
	inv, err := c.resolver.Resolve(def.Target)
	if err != nil {
		return nil, err
	}

	min, max := inv.Signature().Arity()
	given := len(def.Arguments)
	if given < min || given > max {
		return nil, &ArityMismatchError{Service: name, Min: min, Max: max, Given: given}
	}

	args := make([]any, 0, given)
	for _, arg := range def.Arguments {
		v, err := c.resolveArgument(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return inv.Invoke(args)
}

func (c *Container) resolveArgument(arg Argument) (any, error) {
	switch a := arg.(type) {
	case nil:
		return nil, nil
	case Literal:
		return a.Value, nil
	case Ref:
		return c.LoadService(string(a))
	case Template:
		return c.interpolate(string(a))
	case Sequence, Mapping:
		return c.interpolateNested(a)
	default:
		return nil, fmt.Errorf("container: unsupported argument %T", arg)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve loads name and type-asserts the instance.
//
//	mailer, err := container.Resolve[*Mailer](c, "mailer")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.LoadService(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: [%s] resolved to %T", reflect.TypeFor[T](), name, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, name string) T {
	typed, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return typed
}
