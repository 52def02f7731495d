package container

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/spf13/cast"
)

// markerPattern matches "%%" (escaped percent) or a %name% marker. Names cannot
// contain whitespace, so "50% off, 20% more" holds no marker.
var markerPattern = regexp.MustCompile(`%%|%([^%\s]+)%`)

func hasMarkers(s string) bool {
	return markerPattern.MatchString(s)
}

// interpolate resolves a top-level Template. A string that is exactly one
// marker keeps the parameter's native value; anything else is substituted
// textually.
func (c *Container) interpolate(s string) (any, error) {
	if loc := markerPattern.FindStringSubmatchIndex(s); loc != nil &&
		loc[0] == 0 && loc[1] == len(s) && loc[2] >= 0 {
		return c.GetParameter(s[loc[2]:loc[3]])
	}
	return c.interpolateString(s)
}

// interpolateString replaces every marker in s with the string form of its
// parameter. The first undefined parameter aborts the substitution.
func (c *Container) interpolateString(s string) (string, error) {
	var firstErr error
	out := markerPattern.ReplaceAllStringFunc(s, func(token string) string {
		if firstErr != nil {
			return token
		}
		if token == "%%" {
			return "%"
		}
		v, err := c.GetParameter(token[1 : len(token)-1])
		if err != nil {
			firstErr = err
			return token
		}
		return stringify(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// interpolateNested rebuilds a Sequence or Mapping with every Template leaf
// interpolated to a string. Explicit Ref leaves are loaded; other leaves pass
// through. Mapping entries are resolved in key order.
func (c *Container) interpolateNested(arg Argument) (any, error) {
	switch a := arg.(type) {
	case Sequence:
		out := make([]any, len(a))
		for i, e := range a {
			v, err := c.interpolateNested(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Mapping:
		out := make(map[string]any, len(a))
		for _, k := range slices.Sorted(maps.Keys(a)) {
			v, err := c.interpolateNested(a[k])
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case Template:
		return c.interpolateString(string(a))
	case Literal:
		return a.Value, nil
	case Ref:
		return c.LoadService(string(a))
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("container: unsupported argument %T", arg)
	}
}

func stringify(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
