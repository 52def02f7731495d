package container

import (
	"strings"

	"github.com/spf13/cast"
)

// ── Arguments ─────────────────────────────────────────────────────────────────

// Argument is one entry of a service definition's argument list:
// Literal | Ref | Template | Sequence | Mapping.
type Argument interface {
	isArgument()
}

// Literal is passed to the target unchanged.
type Literal struct{ Value any }

// Ref ("@name") is replaced by the loaded service of that name.
type Ref string

// Template is a string containing %name% markers, substituted from parameters.
// "%%" stands for a literal percent sign.
type Template string

// Sequence is an ordered nested structure; it resolves to []any.
type Sequence []Argument

// Mapping is a keyed nested structure; it resolves to map[string]any.
type Mapping map[string]Argument

func (Literal) isArgument()  {}
func (Ref) isArgument()      {}
func (Template) isArgument() {}
func (Sequence) isArgument() {}
func (Mapping) isArgument()  {}

// Arg converts a raw value into an Argument:
//
//	"@mailer"                         → Ref("mailer")
//	"@@handle"                        → Literal{"@handle"}
//	"%db.host%:%db.port%"             → Template
//	[]any, []string                   → Sequence
//	map[string]any, map[string]string → Mapping
//	map[any]any                       → Mapping, keys via cast.ToString
//	anything else                     → Literal
//
// Inside nested structures strings only ever become Template or Literal.
// Values that already are Arguments are returned as they are.
func Arg(v any) Argument {
	if s, ok := v.(string); ok && strings.HasPrefix(s, "@") {
		if strings.HasPrefix(s, "@@") {
			return Literal{Value: s[1:]}
		}
		return Ref(s[1:])
	}
	return nestedArg(v)
}

// Args converts each value with Arg.
func Args(vs ...any) []Argument {
	out := make([]Argument, len(vs))
	for i, v := range vs {
		out[i] = Arg(v)
	}
	return out
}

func nestedArg(v any) Argument {
	switch v := v.(type) {
	case Argument:
		return v
	case string:
		if hasMarkers(v) {
			return Template(v)
		}
		return Literal{Value: v}
	case []any:
		seq := make(Sequence, len(v))
		for i, e := range v {
			seq[i] = nestedArg(e)
		}
		return seq
	case []string:
		seq := make(Sequence, len(v))
		for i, e := range v {
			seq[i] = nestedArg(e)
		}
		return seq
	case map[string]any:
		m := make(Mapping, len(v))
		for k, e := range v {
			m[k] = nestedArg(e)
		}
		return m
	case map[string]string:
		m := make(Mapping, len(v))
		for k, e := range v {
			m[k] = nestedArg(e)
		}
		return m
	case map[any]any:
		// YAML mappings with non-string keys, e.g. {1: a, true: b}.
		m := make(Mapping, len(v))
		for k, e := range v {
			m[cast.ToString(k)] = nestedArg(e)
		}
		return m
	default:
		return Literal{Value: v}
	}
}
