package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register is called as soon as the provider is added and should only
// register services and parameters. Boot runs after every provider has been
// registered, so it is safe to load services there.
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(c *container.Container) error {
//	    if err := c.AddParameter("mail.port", 25); err != nil {
//	        return err
//	    }
//	    return c.RegisterService("mailer", container.Class("app.Mailer"), "%mail.host%", "%mail.port%")
//	}
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot. Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one Container.
type ProviderRegistry struct {
	c          *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method. Adding the same
// provider twice is a no-op. Providers added after Boot are booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	if err := provider.Register(r.c); err != nil {
		return fmt.Errorf("container: register provider %T: %w", provider, err)
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)

	if r.booted {
		if err := provider.Boot(r.c); err != nil {
			return fmt.Errorf("container: boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot on every registered provider, in registration order.
// It stops at the first error. Subsequent calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.providers {
		if err := provider.Boot(r.c); err != nil {
			return fmt.Errorf("container: boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }

// Container returns the container the providers register into.
func (r *ProviderRegistry) Container() *Container { return r.c }
