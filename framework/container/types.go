package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// TypeRegistry is the default TargetResolver. It maps class names to
// constructors so that Class targets (and definition files) can refer to Go
// types by name.
//
//	types := container.NewTypeRegistry()
//	types.Register("app.Car", container.NewFactory(newCar,
//	    container.Required("maxSpeed"), container.Required("color")))
//	_ = types.RegisterFunc("app.Mailer", NewMailer, 25)
//	_ = types.RegisterType("app.Options", &Options{})
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]Invocable
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]Invocable)}
}

// Register binds a class name to a constructor, replacing any previous one.
func (r *TypeRegistry) Register(name string, ctor Invocable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = ctor
}

// RegisterFunc binds a class name to a Go constructor function via Func.
func (r *TypeRegistry) RegisterFunc(name string, fn any, defaults ...any) error {
	f, err := Func(fn, defaults...)
	if err != nil {
		return fmt.Errorf("container: register class [%s]: %w", name, err)
	}
	r.Register(name, f)
	return nil
}

// RegisterType binds a class name to a type without an explicit constructor.
// Each instantiation returns a fresh zero value shaped like prototype (a new
// pointer when prototype is a pointer). Its arity is exactly zero.
func (r *TypeRegistry) RegisterType(name string, prototype any) error {
	if prototype == nil {
		return fmt.Errorf("container: register class [%s]: %w", name, &InvalidTargetError{Reason: "prototype is nil"})
	}
	t := reflect.TypeOf(prototype)
	r.Register(name, NewFactory(func(_ ...any) (any, error) {
		if t.Kind() == reflect.Ptr {
			return reflect.New(t.Elem()).Interface(), nil
		}
		return reflect.Zero(t).Interface(), nil
	}))
	return nil
}

// Has reports whether a class name is known.
func (r *TypeRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// Names returns the registered class names, sorted.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve implements TargetResolver.
func (r *TypeRegistry) Resolve(t Target) (Invocable, error) {
	switch t := t.(type) {
	case nil:
		return nil, &InvalidTargetError{Reason: "target is nil"}
	case Class:
		r.mu.RLock()
		ctor, ok := r.types[string(t)]
		r.mu.RUnlock()
		if !ok {
			return nil, &TargetNotFoundError{Class: string(t)}
		}
		return ctor, nil
	case Factory:
		if t.Fn == nil {
			return nil, &InvalidTargetError{Reason: "factory has no function"}
		}
		return t, nil
	case *Factory:
		if t == nil || t.Fn == nil {
			return nil, &InvalidTargetError{Reason: "factory has no function"}
		}
		return *t, nil
	default:
		return nil, &InvalidTargetError{
			Reason: fmt.Sprintf("the service must be a class name or a factory, %T given", t),
		}
	}
}
