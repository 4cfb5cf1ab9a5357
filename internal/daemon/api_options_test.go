package daemon

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemon_NewAPIOptions(t *testing.T) {
	t.Parallel()

	t.Run("default options", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions()
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIShutdownTimeout(), opts.ShutdownTimeout)
		assert.Equal(t, "/", opts.GatewayPath)
		assert.Empty(t, opts.AdminAddr)
		assert.False(t, opts.CORS.Enabled)
	})

	t.Run("with CORS option", func(t *testing.T) {
		t.Parallel()

		origins := []string{"http://localhost:3000", "https://example.com"}
		opts, err := NewAPIOptions(WithCORSAllowOrigins(origins))

		require.NoError(t, err)
		assert.False(t, opts.CORS.Enabled)
		assert.Equal(t, origins, opts.CORS.AllowOrigins)
		assert.Contains(t, opts.CORS.AllowMethods, http.MethodGet)
		assert.Contains(t, opts.CORS.AllowMethods, http.MethodPost)
		require.Len(t, opts.CORS.AllowedHeaders, 5)
		assert.Contains(t, opts.CORS.AllowedHeaders, "Content-Type")
		assert.Equal(t, 5*time.Minute, opts.CORS.MaxAge)
	})

	t.Run("all CORS options", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions(
			WithCORSEnabled(true),
			WithCORSAllowMethods([]string{http.MethodGet}),
			WithCORSAllowHeaders([]string{"X-Token"}),
			WithCORSExposeHeaders([]string{"X-Request-Id"}),
			WithCORSAllowCredentials(true),
			WithCORSMaxAge(time.Minute),
		)
		require.NoError(t, err)
		assert.Equal(t, CORSConfig{
			Enabled:          true,
			AllowCredentials: true,
			AllowedHeaders:   []string{"X-Token"},
			AllowMethods:     []string{http.MethodGet},
			ExposedHeaders:   []string{"X-Request-Id"},
			MaxAge:           time.Minute,
		}, opts.CORS)
	})

	t.Run("options override in order", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions(
			WithShutdownTimeout(5*time.Second),
			nil,
			WithShutdownTimeout(10*time.Second),
		)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, opts.ShutdownTimeout)
	})

	t.Run("invalid shutdown timeout", func(t *testing.T) {
		t.Parallel()

		_, err := NewAPIOptions(WithShutdownTimeout(0))
		require.EqualError(t, err, "shutdown timeout must be positive, got 0s")
	})
}

func TestDaemon_WithGatewayPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{name: "root", path: "/", want: "/"},
		{name: "nested", path: " /gateway/ ", want: "/gateway"},
		{name: "relative", path: "gateway", wantErr: "gateway path must start with '/', got 'gateway'"},
		{name: "empty", path: "", wantErr: "gateway path must start with '/', got ''"},
		{name: "admin prefix", path: "/api", wantErr: "gateway path '/api' conflicts with the admin API"},
		{name: "below admin prefix", path: "/api/call", wantErr: "gateway path '/api/call' conflicts with the admin API"},
		{name: "similar to admin prefix", path: "/apis", want: "/apis"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts, err := NewAPIOptions(WithGatewayPath(tc.path))
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, opts.GatewayPath)
		})
	}
}

func TestDaemon_WithAdminAddr(t *testing.T) {
	t.Parallel()

	opts, err := NewAPIOptions(WithAdminAddr(" localhost:8091 "))
	require.NoError(t, err)
	require.Equal(t, "localhost:8091", opts.AdminAddr)

	opts, err = NewAPIOptions(WithAdminAddr(""))
	require.NoError(t, err)
	require.Empty(t, opts.AdminAddr)

	_, err = NewAPIOptions(WithAdminAddr("localhost"))
	require.ErrorContains(t, err, "invalid admin address 'localhost'")
}
