package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
)

func TestFileSource_YAML(t *testing.T) {
	params, err := config.NewFileSource("testdata/parameters.yaml").Load()

	require.NoError(t, err)
	assert.Equal(t, "my.server.tld", params["database.host"])
	assert.Equal(t, 5432, params["database.port"])
	assert.Equal(t, true, params["debug"])
	assert.Equal(t, []any{"smtp1.example.com", "smtp2.example.com"}, params["mail.hosts"])
	assert.NotContains(t, params, "database")
}

func TestFileSource_JSON(t *testing.T) {
	params, err := config.NewFileSource("testdata/parameters.json").Load()

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"database.host": "json.server.tld",
		"database.name": "app",
	}, params)
}

func TestFileSource_MissingFileIsEmpty(t *testing.T) {
	params, err := config.NewFileSource("testdata/nope.yaml").Load()

	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestFileSource_Broken(t *testing.T) {
	_, err := config.NewFileSource("testdata/broken.yaml").Load()

	assert.ErrorContains(t, err, "testdata/broken.yaml")
}

func TestEnvSource(t *testing.T) {
	t.Setenv("TESTPARAM_DATABASE_HOST", "env.server.tld")
	t.Setenv("TESTPARAM_PORT", "5433")
	t.Setenv("OTHER_DATABASE_HOST", "ignored")

	params, err := config.NewEnvSource("TESTPARAM").Load()

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"database.host": "env.server.tld",
		"port":          "5433",
	}, params)
}

func TestEnvSource_EmptyPrefix(t *testing.T) {
	params, err := config.NewEnvSource("").Load()

	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestDotenvSource(t *testing.T) {
	params, err := config.NewDotenvSource("testdata/parameters.env").Load()

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"database.host": "dotenv.server.tld",
		"database.user": "root",
	}, params)
}

func TestDotenvSource_Missing(t *testing.T) {
	_, err := config.NewDotenvSource("testdata/nope.env").Load()

	assert.Error(t, err)
}

func TestApply_LaterSourcesOverride(t *testing.T) {
	t.Setenv("TESTAPPLY_DATABASE_HOST", "env.server.tld")
	c := container.New()

	err := config.Apply(c,
		config.NewDotenvSource("testdata/parameters.env"),
		config.NewFileSource("testdata/parameters.yaml"),
		config.NewEnvSource("TESTAPPLY"),
	)

	require.NoError(t, err)
	host, _ := c.GetParameter("database.host")
	assert.Equal(t, "env.server.tld", host)
	user, _ := c.GetParameter("database.user")
	assert.Equal(t, "root", user)
	port, _ := c.GetParameter("database.port")
	assert.Equal(t, 5432, port)
}

func TestApply_FeedsServiceArguments(t *testing.T) {
	c := container.New()
	require.NoError(t, config.Apply(c, config.NewFileSource("testdata/parameters.yaml")))
	dsn := container.NewFactory(func(args ...any) (any, error) {
		return args[0], nil
	}, container.Required("dsn"))
	require.NoError(t, c.RegisterService("dsn", dsn, "postgres://%database.host%:%database.port%"))

	got, err := c.LoadService("dsn")

	require.NoError(t, err)
	assert.Equal(t, "postgres://my.server.tld:5432", got)
}

func TestApply_InvalidName(t *testing.T) {
	t.Setenv("TESTBAD_A%B", "x")
	c := container.New()

	err := config.Apply(c, config.NewEnvSource("TESTBAD"))

	assert.ErrorIs(t, err, container.ErrInvalidName)
	assert.ErrorContains(t, err, "env:TESTBAD")
}

func TestContainerConfig_ParameterSources(t *testing.T) {
	cc := config.ContainerConfig{
		DotenvFiles:    []string{"a.env"},
		ParameterFiles: []string{"a.yaml", "b.json"},
		EnvPrefix:      "PARAM",
	}

	var names []string
	for _, s := range cc.ParameterSources() {
		names = append(names, s.Name())
	}

	assert.Equal(t, []string{"dotenv:a.env", "file:a.yaml", "file:b.json", "env:PARAM"}, names)
	assert.Empty(t, config.ContainerConfig{}.ParameterSources())
}
