package container

import "strings"

// ── Signatures ────────────────────────────────────────────────────────────────

// Param describes one declared parameter of a constructor or factory.
type Param struct {
	Name     string
	Optional bool
}

// Required declares a mandatory parameter.
func Required(name string) Param { return Param{Name: name} }

// Optional declares a parameter that may be omitted from the argument list.
// The callee is responsible for its default.
func Optional(name string) Param { return Param{Name: name, Optional: true} }

// Signature is the ordered parameter list used for the arity check.
type Signature []Param

// Arity returns the minimum (required) and maximum (declared) argument counts.
func (s Signature) Arity() (min, max int) {
	for _, p := range s {
		if !p.Optional {
			min++
		}
	}
	return min, len(s)
}

// String renders the signature as "(host, port?)".
func (s Signature) String() string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
		if p.Optional {
			names[i] += "?"
		}
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// ── Targets ───────────────────────────────────────────────────────────────────

// Target is what a service definition constructs: a Class or a Factory.
type Target interface {
	String() string
	isTarget()
}

// Class names a constructible type registered with the TargetResolver.
//
//	c.RegisterService("app.my_car", container.Class("app.Car"), 244, "red")
type Class string

func (c Class) String() string { return string(c) }
func (Class) isTarget()        {}

// FactoryFunc builds a service from its resolved arguments. len(args) is
// always within the bounds of the factory's Signature.
type FactoryFunc func(args ...any) (any, error)

// Factory is a callable target carrying its own Signature.
//
//	c.RegisterService("db.ctx", container.NewFactory(func(args ...any) (any, error) {
//	    return "Connecting to " + args[0].(string), nil
//	}, container.Required("host")), "%database.host%")
type Factory struct {
	Fn     FactoryFunc
	Params Signature
}

// NewFactory builds a Factory from fn and its declared parameters.
func NewFactory(fn FactoryFunc, params ...Param) Factory {
	return Factory{Fn: fn, Params: Signature(params)}
}

func (f Factory) String() string { return "factory" + f.Params.String() }
func (Factory) isTarget()        {}

// Signature implements Invocable.
func (f Factory) Signature() Signature { return f.Params }

// Invoke implements Invocable. Errors from Fn are returned unmodified.
func (f Factory) Invoke(args []any) (any, error) { return f.Fn(args...) }

func targetName(t Target) string {
	if f, ok := t.(*Factory); t == nil || (ok && f == nil) {
		return "<nil>"
	}
	return t.String()
}

// ── External collaborators ────────────────────────────────────────────────────

// Invocable is a resolved target: it reports its Signature and produces a value
// from an argument list.
type Invocable interface {
	Signature() Signature
	Invoke(args []any) (any, error)
}

// TargetResolver turns a Target into an Invocable. It returns a
// *TargetNotFoundError for unknown classes and an *InvalidTargetError for
// targets it cannot call.
type TargetResolver interface {
	Resolve(t Target) (Invocable, error)
}
