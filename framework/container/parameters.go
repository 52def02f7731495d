package container

import (
	"maps"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// ── Parameters ────────────────────────────────────────────────────────────────

// SetOption tunes SetParameter.
type SetOption func(*setOptions)

type setOptions struct {
	override bool
}

// WithoutOverride makes SetParameter fail with a *DuplicateParameterError
// instead of replacing an existing value.
func WithoutOverride() SetOption {
	return func(o *setOptions) { o.override = false }
}

// AddParameter defines a new parameter. It never overwrites.
//
//	c.AddParameter("database.host", "my.server.tld")
func (c *Container) AddParameter(name string, value any) error {
	return c.SetParameter(name, value, WithoutOverride())
}

// SetParameter defines or replaces a parameter.
func (c *Container) SetParameter(name string, value any, opts ...SetOption) error {
	o := setOptions{override: true}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateName(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.parameters[name]; exists && !o.override {
		return &DuplicateParameterError{Name: name}
	}
	c.parameters[name] = value
	c.logger.Debug("parameter set", zap.String("parameter", name))
	return nil
}

// UnsetParameter removes a parameter.
func (c *Container) UnsetParameter(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.parameters[name]; !exists {
		return &ParameterNotDefinedError{Name: name}
	}
	delete(c.parameters, name)
	c.logger.Debug("parameter unset", zap.String("parameter", name))
	return nil
}

// GetParameter returns the stored value. Mutable values are not copied.
func (c *Container) GetParameter(name string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.parameters[name]
	if !ok {
		return nil, &ParameterNotDefinedError{Name: name}
	}
	return v, nil
}

// HasParameter reports whether name is defined.
func (c *Container) HasParameter(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.parameters[name]
	return ok
}

// Parameters returns a snapshot of all parameters.
func (c *Container) Parameters() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.parameters)
}

// validateName rejects names no %marker% could ever reference.
func validateName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	case strings.Contains(name, "%"):
		return &InvalidNameError{Name: name, Reason: "must not contain '%'"}
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return &InvalidNameError{Name: name, Reason: "must not contain whitespace"}
	}
	return nil
}
