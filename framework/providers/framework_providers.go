package providers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/definitions"
	"github.com/km-arc/go-injector/framework/inspect"
	"github.com/km-arc/go-injector/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider exposes the application configuration.
//
// Services:
//   - "config" → *config.Config
//
// Parameters: app.name, app.env, app.debug, app.url, app.port. The app key is
// deliberately not a parameter since parameters are readable over HTTP.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	cfg := p.Config
	params := map[string]any{
		"app.name":  cfg.App.Name,
		"app.env":   cfg.App.Env,
		"app.debug": cfg.App.Debug,
		"app.url":   cfg.App.URL,
		"app.port":  cfg.App.Port,
	}
	for name, value := range params {
		if err := c.SetParameter(name, value); err != nil {
			return err
		}
	}
	return c.RegisterService("config", container.NewFactory(func(...any) (any, error) {
		return cfg, nil
	}))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger.
//
// Services:
//   - "logger" → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(c *container.Container) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return c.RegisterService("logger", container.NewFactory(func(...any) (any, error) {
		return logger, nil
	}))
}

// ── DefinitionsServiceProvider ────────────────────────────────────────────────

// DefinitionsServiceProvider loads YAML definition files, in order.
type DefinitionsServiceProvider struct {
	container.BaseProvider
	Files []string
}

func (p *DefinitionsServiceProvider) Register(c *container.Container) error {
	for _, path := range p.Files {
		if err := definitions.LoadFile(c, path); err != nil {
			return err
		}
	}
	return nil
}

// ── ParametersServiceProvider ─────────────────────────────────────────────────

// ParametersServiceProvider applies parameter sources (dotenv, files, env).
// Register it after DefinitionsServiceProvider so that the sources override
// the defaults of definition files.
type ParametersServiceProvider struct {
	container.BaseProvider
	Sources []config.ParameterSource
}

func (p *ParametersServiceProvider) Register(c *container.Container) error {
	return config.Apply(c, p.Sources...)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Services:
//   - "router" → *routing.Router, built with "@logger"
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	return c.RegisterService("router", container.NewFactory(func(args ...any) (any, error) {
		logger, ok := args[0].(*zap.Logger)
		if !ok {
			return nil, &container.ArgumentTypeError{Index: 0, Want: "*zap.Logger", Got: fmt.Sprintf("%T", args[0])}
		}
		return routing.New(logger), nil
	}, container.Required("logger")), "@logger")
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider mounts the container inspector on the router.
//
// Services:
//   - "inspector" → *inspect.Inspector
//
// Boot loads "router" and "inspector" and mounts the routes under Prefix.
type InspectorServiceProvider struct {
	Key    string
	Prefix string // default: "/_container"
}

func (p *InspectorServiceProvider) Register(c *container.Container) error {
	key := p.Key
	return c.RegisterService("inspector", container.NewFactory(func(args ...any) (any, error) {
		logger, _ := args[0].(*zap.Logger)
		return inspect.New(c, key, logger), nil
	}, container.Required("logger")), "@logger")
}

func (p *InspectorServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c, "router")
	if err != nil {
		return err
	}
	inspector, err := container.Resolve[*inspect.Inspector](c, "inspector")
	if err != nil {
		return err
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/_container"
	}
	router.Prefix(prefix, inspector.Mount)
	return nil
}
