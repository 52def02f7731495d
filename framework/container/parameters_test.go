package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/container"
)

func TestAddParameter(t *testing.T) {
	c := container.New()
	require.NoError(t, c.AddParameter("database.host", "my.server.tld"))

	got, err := c.GetParameter("database.host")

	require.NoError(t, err)
	assert.Equal(t, "my.server.tld", got)
	assert.True(t, c.HasParameter("database.host"))
}

func TestAddParameter_Duplicate(t *testing.T) {
	c := container.New()
	require.NoError(t, c.AddParameter("foo", "bar"))

	err := c.AddParameter("foo", "baz")

	var dup *container.DuplicateParameterError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "foo", dup.Name)
	assert.EqualError(t, err, "container: the parameter [foo] is already defined")

	got, _ := c.GetParameter("foo")
	assert.Equal(t, "bar", got, "AddParameter must never overwrite")
}

func TestSetParameter_Overrides(t *testing.T) {
	c := container.New()
	require.NoError(t, c.SetParameter("foo", "bar"))
	require.NoError(t, c.SetParameter("foo", "baz"))

	got, err := c.GetParameter("foo")

	require.NoError(t, err)
	assert.Equal(t, "baz", got)
}

func TestSetParameter_WithoutOverride(t *testing.T) {
	c := container.New()
	require.NoError(t, c.SetParameter("foo", "bar", container.WithoutOverride()))

	err := c.SetParameter("foo", "baz", container.WithoutOverride())

	assert.ErrorIs(t, err, container.ErrDuplicateParameter)
}

func TestSetParameter_InvalidName(t *testing.T) {
	tests := []struct {
		name   string
		param  string
		reason string
	}{
		{"empty", "", "must not be empty"},
		{"percent", "a%b", "must not contain '%'"},
		{"space", "a b", "must not contain whitespace"},
		{"tab", "a\tb", "must not contain whitespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := container.New()

			err := c.SetParameter(tt.param, 1)

			var invalid *container.InvalidNameError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.reason, invalid.Reason)
			assert.ErrorIs(t, c.AddParameter(tt.param, 1), container.ErrInvalidName)
			assert.ErrorIs(t, c.UnsetParameter(tt.param), container.ErrInvalidName)
			assert.Empty(t, c.Parameters())
		})
	}
}

func TestGetParameter_Undefined(t *testing.T) {
	c := container.New()

	_, err := c.GetParameter("nope")

	assert.ErrorIs(t, err, container.ErrParameterNotDefined)
	assert.EqualError(t, err, "container: a parameter with the name [nope] is not defined")
}

func TestUnsetParameter(t *testing.T) {
	c := container.New()
	require.NoError(t, c.AddParameter("foo", "bar"))

	require.NoError(t, c.UnsetParameter("foo"))

	assert.False(t, c.HasParameter("foo"))
	assert.ErrorIs(t, c.UnsetParameter("foo"), container.ErrParameterNotDefined)
	require.NoError(t, c.AddParameter("foo", "again"), "an unset name can be added again")
}

func TestGetParameter_SharesMutableValues(t *testing.T) {
	c := container.New()
	hosts := []string{"a", "b"}
	require.NoError(t, c.AddParameter("hosts", hosts))

	got, err := c.GetParameter("hosts")
	require.NoError(t, err)
	got.([]string)[0] = "changed"

	again, _ := c.GetParameter("hosts")
	assert.Equal(t, []string{"changed", "b"}, again)
}

func TestParameters_IsSnapshot(t *testing.T) {
	c := container.New()
	require.NoError(t, c.AddParameter("a", 1))
	require.NoError(t, c.AddParameter("b", "two"))

	params := c.Parameters()
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, params)

	params["c"] = 3
	assert.False(t, c.HasParameter("c"))
}

func TestParameter_ChangeAfterLoadDoesNotAffectInstance(t *testing.T) {
	c := container.New()
	require.NoError(t, c.AddParameter("host", "first"))
	require.NoError(t, c.RegisterService("svc", echo(1), "%host%"))

	first, err := c.LoadService("svc")
	require.NoError(t, err)
	require.NoError(t, c.SetParameter("host", "second"))
	again, err := c.LoadService("svc")
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "first", again)
}
