// Package container provides a small service container for Go.
//
// # Overview
//
// A Container maps names to service definitions (a target plus an argument
// list) and keeps a flat namespace of parameters. Services are constructed
// lazily on the first LoadService and memoized for the lifetime of the
// container: every later load returns the same instance.
//
// Go has no runtime constructor reflection, so every target carries its
// Signature explicitly: a Factory declares its parameters, a Class is looked
// up in a TypeRegistry. Func derives a Signature from an ordinary Go function.
//
// # Registering services
//
//	c := container.New()
//
//	// Factory with an explicit signature
//	c.RegisterService("a_dependency", container.NewFactory(func(...any) (any, error) {
//	    return "dependency", nil
//	}))
//
//	// Class name resolved through the TypeRegistry
//	c.Types().Register("app.Car", container.MustFunc(NewCar))
//	c.RegisterService("app.my_car", container.Class("app.Car"), 244, "red")
//
//	// Fluent form
//	c.Define("mailer").Func(NewMailer, 25).Arguments("%mail.host%").Register()
//
// # Arguments
//
//	"@name"        the loaded service "name"
//	"@@text"       the literal string "@text"
//	"%name%"       the parameter "name", with its native type
//	"tcp://%h%:%p%" textual substitution of every marker
//	"100%%"        a literal percent sign
//	[]any / map[string]any
//	               rebuilt with every %marker% leaf substituted as a string
//
// Arguments are resolved when the service is loaded, not when it is
// registered, so parameters may be defined in any order before the load.
//
// # Parameters
//
//	c.AddParameter("database.host", "my.server.tld")          // never overwrites
//	c.SetParameter("database.host", "other.tld")              // overwrites
//	c.SetParameter("database.host", "x", container.WithoutOverride())
//	host, err := c.GetParameter("database.host")
//
// # Loading
//
//	v, err := c.LoadService("mailer")
//	mailer, err := container.Resolve[*Mailer](c, "mailer")
//
// Failures are typed; match them with errors.Is against the Err* sentinels or
// errors.As against the concrete *…Error types.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    return c.RegisterService("mailer", container.Class("app.Mailer"), "%mail.host%")
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(&AppServiceProvider{})
//	_ = registry.Boot()
package container
