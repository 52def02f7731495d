package container

import (
	"errors"
	"fmt"
	"strings"
)

// ── Error kinds ───────────────────────────────────────────────────────────────

// Sentinels for errors.Is. Every concrete error below matches exactly one.
var (
	ErrDuplicateService    = errors.New("container: duplicate service")
	ErrServiceNotFound     = errors.New("container: service not found")
	ErrAlreadyLoaded       = errors.New("container: service already loaded")
	ErrTargetNotFound      = errors.New("container: target not found")
	ErrInvalidTarget       = errors.New("container: invalid target")
	ErrArityMismatch       = errors.New("container: arity mismatch")
	ErrParameterNotDefined = errors.New("container: parameter not defined")
	ErrInvalidName         = errors.New("container: invalid parameter name")
	ErrDuplicateParameter  = errors.New("container: duplicate parameter")
	ErrCircularDependency  = errors.New("container: circular dependency")
	ErrArgumentType        = errors.New("container: argument type mismatch")
)

// DuplicateServiceError is returned when a name is registered twice.
type DuplicateServiceError struct{ Name string }

func (e *DuplicateServiceError) Error() string {
	return fmt.Sprintf("container: a service with the name [%s] already exists", e.Name)
}

func (e *DuplicateServiceError) Is(target error) bool { return target == ErrDuplicateService }

// ServiceNotFoundError is returned when loading or unregistering an unknown name.
type ServiceNotFoundError struct{ Name string }

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("container: a service with the name [%s] does not exist", e.Name)
}

func (e *ServiceNotFoundError) Is(target error) bool { return target == ErrServiceNotFound }

// AlreadyLoadedError is returned when unregistering a service that has been
// instantiated.
type AlreadyLoadedError struct{ Name string }

func (e *AlreadyLoadedError) Error() string {
	return fmt.Sprintf("container: the service [%s] can not be unregistered because it is already loaded", e.Name)
}

func (e *AlreadyLoadedError) Is(target error) bool { return target == ErrAlreadyLoaded }

// TargetNotFoundError is returned when a Class target is unknown to the resolver.
type TargetNotFoundError struct{ Class string }

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("container: class [%s] not found", e.Class)
}

func (e *TargetNotFoundError) Is(target error) bool { return target == ErrTargetNotFound }

// InvalidTargetError is returned when a target is neither a class name nor a
// callable factory.
type InvalidTargetError struct{ Reason string }

func (e *InvalidTargetError) Error() string {
	return "container: invalid target: " + e.Reason
}

func (e *InvalidTargetError) Is(target error) bool { return target == ErrInvalidTarget }

// ArityMismatchError is returned when the number of registered arguments is
// outside the target's [Min, Max] bounds.
type ArityMismatchError struct {
	Service string
	Min     int
	Max     int
	Given   int
}

func (e *ArityMismatchError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("container: the service [%s] expects exact %d arguments, %d given",
			e.Service, e.Max, e.Given)
	}
	return fmt.Sprintf("container: the service [%s] expects min. %d and max. %d arguments, %d given",
		e.Service, e.Min, e.Max, e.Given)
}

func (e *ArityMismatchError) Is(target error) bool { return target == ErrArityMismatch }

// ParameterNotDefinedError is returned when a parameter lookup misses, either
// directly or through a %name% marker.
type ParameterNotDefinedError struct{ Name string }

func (e *ParameterNotDefinedError) Error() string {
	return fmt.Sprintf("container: a parameter with the name [%s] is not defined", e.Name)
}

func (e *ParameterNotDefinedError) Is(target error) bool { return target == ErrParameterNotDefined }

// InvalidNameError is returned for parameter names that can never be referenced.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("container: invalid parameter name %q: %s", e.Name, e.Reason)
}

func (e *InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

// DuplicateParameterError is returned by AddParameter, or SetParameter with
// WithoutOverride, on an existing name.
type DuplicateParameterError struct{ Name string }

func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("container: the parameter [%s] is already defined", e.Name)
}

func (e *DuplicateParameterError) Is(target error) bool { return target == ErrDuplicateParameter }

// CircularDependencyError is returned when an @reference chain leads back to a
// service that is still being loaded. Path ends with the repeated name.
type CircularDependencyError struct{ Path []string }

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency detected: " + strings.Join(e.Path, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ArgumentTypeError is returned by reflection-backed factories when a resolved
// argument cannot be coerced into the declared Go parameter type.
type ArgumentTypeError struct {
	Index int
	Want  string
	Got   string
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("container: argument %d: cannot use %s as %s", e.Index, e.Got, e.Want)
}

func (e *ArgumentTypeError) Is(target error) bool { return target == ErrArgumentType }
