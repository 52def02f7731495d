package app_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
)

type greeter struct{ Greeting string }

func newApp(t *testing.T, defs string) *app.Application {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "Test", Env: "testing", Port: "0", Key: "k"},
	}
	if defs != "" {
		path := filepath.Join(t.TempDir(), "services.yaml")
		require.NoError(t, os.WriteFile(path, []byte(defs), 0o600))
		cfg.Container.DefinitionFiles = []string{path}
	}

	a, err := app.New(cfg, app.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_RegistersFrameworkServices(t *testing.T) {
	a := newApp(t, "")

	for _, name := range []string{"config", "logger", "router", "inspector"} {
		assert.True(t, a.HasService(name), name)
	}
	assert.True(t, a.HasParameter("app.name"))
	assert.Same(t, a.Config, container.MustResolve[*config.Config](a.Container, "config"))
}

func TestNew_DefinitionFiles(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Port: "0"}}
	cfg.Container.DefinitionFiles = []string{filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := app.New(cfg, app.WithLogger(zap.NewNop()))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBoot_LoadsDefinedServices(t *testing.T) {
	a := newApp(t, `
parameters:
  greeting: hi
services:
  greeter:
    class: app.Greeter
    arguments: ["%greeting%"]
`)
	require.NoError(t, a.Types().RegisterFunc("app.Greeter", func(g string) *greeter {
		return &greeter{Greeting: g}
	}))
	require.NoError(t, a.Boot())

	g, err := container.Resolve[*greeter](a.Container, "greeter")
	require.NoError(t, err)
	assert.Equal(t, "hi", g.Greeting)
}

func TestServe_GracefulShutdown(t *testing.T) {
	a := newApp(t, "")
	require.NoError(t, a.AddParameter("db.host", "localhost"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/_container/parameters/db.host")
	require.NoError(t, err)
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "localhost", body.Data["value"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	a := newApp(t, "")

	assert.True(t, a.IsTesting())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsDebug())
	assert.Equal(t, "testing", a.Environment())
}
