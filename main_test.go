package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
)

const testDefinitions = `
parameters:
  mail.host: smtp.local
  mail.from: news@example.com
services:
  mailer:
    class: app.Mailer
    arguments: ["%mail.host%"]
  newsletter:
    class: app.Newsletter
    arguments: ["@mailer", ["%mail.from%"]]
`

func testBoot(t *testing.T) bootstrapFunc {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDefinitions), 0o600))

	return func(_ []string) (*app.Application, error) {
		cfg := &config.Config{App: config.AppConfig{Name: "Test", Env: "testing", Port: "0"}}
		cfg.Container.DefinitionFiles = []string{path}

		a, err := app.New(cfg, app.WithLogger(zap.NewNop()))
		if err != nil {
			return nil, err
		}
		if err := registerTypes(a.Types()); err != nil {
			return nil, err
		}
		return a, a.Boot()
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testBoot(t))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadCommand(t *testing.T) {
	out, err := run(t, "load", "mailer")

	require.NoError(t, err)
	assert.Equal(t, "*main.Mailer &{Host:smtp.local Port:25}\n", out)
}

func TestLoadCommand_Dependencies(t *testing.T) {
	out, err := run(t, "load", "newsletter")

	require.NoError(t, err)
	assert.Contains(t, out, "*main.Newsletter")
	assert.Contains(t, out, "Recipients:[news@example.com]")
}

func TestLoadCommand_NotFound(t *testing.T) {
	_, err := run(t, "load", "nope")

	assert.ErrorIs(t, err, container.ErrServiceNotFound)
}

func TestLoadCommand_RequiresName(t *testing.T) {
	_, err := run(t, "load")

	assert.Error(t, err)
}

func TestParamsCommand(t *testing.T) {
	out, err := run(t, "params")

	require.NoError(t, err)
	assert.Contains(t, out, "parameters:")
	assert.Contains(t, out, "mail.host: smtp.local")
	assert.Contains(t, out, "app.env: testing")
}

func TestServicesCommand(t *testing.T) {
	out, err := run(t, "services")

	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `mailer\s+app\.Mailer\s+%mail\.host%\s+false`, out)
	assert.Regexp(t, `router\s+factory\(logger\)\s+@logger\s+true`, out)
}

func TestServicesCommand_YAML(t *testing.T) {
	out, err := run(t, "services", "--yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "services:")
	assert.Contains(t, out, "class: app.Newsletter")
	assert.Contains(t, out, "@mailer")
	assert.NotContains(t, out, "parameters:")
}

func TestRegisterTypes(t *testing.T) {
	types := container.NewTypeRegistry()

	require.NoError(t, registerTypes(types))

	assert.Equal(t, []string{"app.Mailer", "app.Newsletter"}, types.Names())
}
