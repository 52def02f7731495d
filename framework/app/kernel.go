package app

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/framework/routing"
)

// Version of the application.
const Version = "0.1.0"

// ShutdownTimeout bounds graceful shutdown in Serve.
var ShutdownTimeout = 10 * time.Second

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.RegisterService(), app.AddParameter(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Config    *config.Config
	Logger    *zap.Logger

	closer io.Closer
}

// Option configures New.
type Option func(*Application)

// WithLogger uses l instead of building a logger from cfg.Log.
func WithLogger(l *zap.Logger) Option {
	return func(a *Application) { a.Logger = l }
}

// New creates the application and registers the framework providers:
// config, logger, definition files, parameter sources, router, inspector.
// Types used by definition files must be registered on Types() before Boot.
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	a := &Application{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger, a.closer = logging.New(cfg.Log)
	}

	c := container.New(container.WithLogger(a.Logger))
	a.Container = c
	a.Providers = container.NewProviderRegistry(c)

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: a.Logger},
		&providers.DefinitionsServiceProvider{Files: cfg.Container.DefinitionFiles},
		&providers.ParametersServiceProvider{Sources: cfg.Container.ParameterSources()},
		&providers.RoutingServiceProvider{},
		&providers.InspectorServiceProvider{Key: cfg.App.Key},
	}
	for _, p := range core {
		if err := a.Providers.Register(p); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

// Load reads .env files and environment variables, then calls New.
func Load(envFiles ...string) (*Application, error) {
	return New(config.Load(envFiles...))
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.App.Port)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve boots the application (if needed) and serves HTTP on ln. When ctx is
// cancelled the server shuts down gracefully and Serve returns nil.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.Boot(); err != nil {
		_ = ln.Close()
		return err
	}
	router, err := a.Router()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("http server started",
			zap.String("app", a.Config.App.Name),
			zap.String("env", a.Config.App.Env),
			zap.String("addr", ln.Addr().String()),
		)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close flushes the logger and closes the log file, if New opened one.
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
