package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Func adapts an ordinary Go function into a Factory. The signature is read
// from the function type: every parameter is required except the trailing
// len(defaults) ones, which receive the matching default when omitted.
//
// Supported shapes:
//   - func(A, B, ...) T
//   - func(A, B, ...) (T, error)
//
// Resolved arguments are coerced into the declared parameter types: []any
// into typed slices, map[string]any into typed maps and scalars through
// spf13/cast, so "%db.port%" loaded from a .env file can feed an int.
//
//	f, err := container.Func(NewMailer, 25) // port defaults to 25
func Func(fn any, defaults ...any) (Factory, error) {
	if fn == nil {
		return Factory{}, &InvalidTargetError{Reason: "function is nil"}
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return Factory{}, &InvalidTargetError{Reason: fmt.Sprintf("%T given, function expected", fn)}
	}
	if ft.IsVariadic() {
		return Factory{}, &InvalidTargetError{Reason: fmt.Sprintf("variadic function %s is not supported", ft)}
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return Factory{}, &InvalidTargetError{Reason: fmt.Sprintf("function %s must return (T) or (T, error)", ft)}
	}

	numIn := ft.NumIn()
	if len(defaults) > numIn {
		return Factory{}, &InvalidTargetError{
			Reason: fmt.Sprintf("%d defaults given for function with %d parameters", len(defaults), numIn),
		}
	}
	firstOptional := numIn - len(defaults)

	params := make(Signature, numIn)
	defaultValues := make([]reflect.Value, numIn)
	for i := 0; i < numIn; i++ {
		params[i] = Param{Name: fmt.Sprintf("arg%d", i), Optional: i >= firstOptional}
		if i >= firstOptional {
			dv, err := coerce(defaults[i-firstOptional], ft.In(i))
			if err != nil {
				return Factory{}, &InvalidTargetError{Reason: fmt.Sprintf("default for parameter %d: %v", i, err)}
			}
			defaultValues[i] = dv
		}
	}

	call := func(args ...any) (any, error) {
		in := make([]reflect.Value, numIn)
		for i := 0; i < numIn; i++ {
			if i >= len(args) {
				in[i] = defaultValues[i]
				continue
			}
			v, err := coerce(args[i], ft.In(i))
			if err != nil {
				return nil, &ArgumentTypeError{Index: i, Want: ft.In(i).String(), Got: fmt.Sprintf("%T", args[i])}
			}
			in[i] = v
		}

		out := fv.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}

	return Factory{Fn: call, Params: params}, nil
}

// MustFunc is like Func but panics on an unsupported function.
func MustFunc(fn any, defaults ...any) Factory {
	f, err := Func(fn, defaults...)
	if err != nil {
		panic(err)
	}
	return f
}

// coerce converts v into a value assignable to t.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch t.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(decimal(v))
		if err != nil {
			return reflect.Value{}, err
		}
		if reflect.Zero(t).OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", v, t)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(decimal(v))
		if err != nil {
			return reflect.Value{}, err
		}
		if reflect.Zero(t).OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", v, t)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if reflect.Zero(t).OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", v, t)
		}
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.Slice:
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			break
		}
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := coerce(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case reflect.Map:
		if rv.Kind() != reflect.Map {
			break
		}
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			kv, err := coerce(iter.Key().Interface(), t.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			vv, err := coerce(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(kv, vv)
		}
		return out, nil
	}

	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%T is not assignable to %s", v, t)
}

// decimal strips the leading zeros of a decimal string so that cast does not
// read "010" as octal.
func decimal(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" || strings.Trim(digits, "0123456789") != "" {
		return v
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return s[:len(s)-len(digits)] + trimmed
}
