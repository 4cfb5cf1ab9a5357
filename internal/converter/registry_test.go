package converter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testConverter struct {
	MethodSet
	name string
}

func (c *testConverter) Name() string { return c.name }
func (c *testConverter) Kind() string { return "test" }

func newTestConverter(name string, methods ...string) *testConverter {
	set := MethodSet{}
	for _, m := range methods {
		url := "https://" + name + ".example.com/" + m
		set[m] = func(Data) (OutboundCall, error) {
			return OutboundCall{URL: url}, nil
		}
	}
	return &testConverter{MethodSet: set, name: name}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		r, err := NewRegistry(newTestConverter("weather", "get"), newTestConverter("lastFM", "a", "b"))
		require.NoError(t, err)
		require.Equal(t, 2, r.Len())
		require.Equal(t, []string{"lastFM", "weather"}, r.Names())

		list := r.List()
		require.Len(t, list, 2)
		require.Equal(t, "lastFM", list[0].Name())
		require.Equal(t, []string{"a", "b"}, list[0].Methods())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		r, err := NewRegistry()
		require.NoError(t, err)
		require.Zero(t, r.Len())
		require.Empty(t, r.List())
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(newTestConverter("a"), newTestConverter("a"))
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("nil converter", func(t *testing.T) {
		t.Parallel()

		var c *testConverter
		_, err := NewRegistry(c)
		require.EqualError(t, err, "converter cannot be nil")
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(newTestConverter(" "))
		require.EqualError(t, err, "converter name cannot be empty")
	})
}

func TestRegistry_Converter(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(newTestConverter("lastFM", "user.getInfo"))
	require.NoError(t, err)

	c, ok := r.Converter("lastFM")
	require.True(t, ok)

	m, ok := c.Method("user.getInfo")
	require.True(t, ok)
	call, err := m(Data{})
	require.NoError(t, err)
	require.Equal(t, "https://lastFM.example.com/user.getInfo", call.URL)

	_, ok = c.Method("user.getinfo")
	require.False(t, ok)

	_, ok = r.Converter("lastfm")
	require.False(t, ok)
}

func TestOutboundCall_Verb(t *testing.T) {
	t.Parallel()

	require.Equal(t, "GET", OutboundCall{}.Verb())
	require.Equal(t, "GET", OutboundCall{Options: &CallOptions{}}.Verb())
	require.Equal(t, "DELETE", OutboundCall{Options: &CallOptions{Method: " delete "}}.Verb())
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	err := Invalid("'%s' is required", "user")
	require.ErrorIs(t, err, ErrInvalidData)
	require.EqualError(t, err, "invalid api data: 'user' is required")
}
