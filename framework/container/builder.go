package container

// DefinitionBuilder implements the fluent registration API.
//
//	err := c.Define("mailer").
//	    Func(NewMailer, 25).
//	    Arguments("%mail.host%").
//	    Register()
type DefinitionBuilder struct {
	container *Container
	name      string
	target    Target
	args      []any
	err       error
}

// Define starts a definition for name. Nothing is registered until Register.
func (c *Container) Define(name string) *DefinitionBuilder {
	return &DefinitionBuilder{container: c, name: name}
}

// Class targets a class registered in the TypeRegistry.
func (b *DefinitionBuilder) Class(name string) *DefinitionBuilder {
	b.target = Class(name)
	return b
}

// Factory targets f.
func (b *DefinitionBuilder) Factory(f Factory) *DefinitionBuilder {
	b.target = f
	return b
}

// Func targets a Go function through Func. An unsupported function is
// reported by Register.
func (b *DefinitionBuilder) Func(fn any, defaults ...any) *DefinitionBuilder {
	f, err := Func(fn, defaults...)
	if err != nil {
		b.err = err
		return b
	}
	b.target = f
	return b
}

// Arguments appends arguments, converted with Arg at registration.
func (b *DefinitionBuilder) Arguments(args ...any) *DefinitionBuilder {
	b.args = append(b.args, args...)
	return b
}

// Register adds the definition to the container.
func (b *DefinitionBuilder) Register() error {
	if b.err != nil {
		return b.err
	}
	if b.target == nil {
		return &InvalidTargetError{Reason: "no target for service [" + b.name + "]"}
	}
	return b.container.RegisterService(b.name, b.target, b.args...)
}
