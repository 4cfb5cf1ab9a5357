package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisseltassel/tisseltassel/internal/perms"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".tisseltassel.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), perms.RegularFile))

	return path
}

func TestDefaultLoader_Init(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}
	path := filepath.Join(t.TempDir(), "nested", ".tisseltassel.toml")

	require.NoError(t, loader.Init(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, perms.SecureFile, info.Mode().Perm())

	// The skeleton must itself be a loadable configuration.
	cfg, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8090", cfg.AddrOrDefault(""))
	require.Equal(t, "*", cfg.CORS().OriginOrDefault(""))
	require.Empty(t, cfg.Converters)

	err = loader.Init(path)
	require.ErrorContains(t, err, "already exists")

	require.EqualError(t, loader.Init(" "), "path cannot be empty")
}

func TestDefaultLoader_Load(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[api]
addr = "127.0.0.1:9000"
path = "/gateway"
admin_addr = "127.0.0.1:9001"
max_body_bytes = 2048

[api.timeout]
shutdown = "10s"

[api.cors]
enable = true
origin = "https://app.example.com"
methods = "POST, OPTIONS"
max_age = "1m"

[transport]
timeout = "5s"
retries = 2
user_agent = "tests"

[[converters]]
name = "lastFM"
kind = "lastfm"
api_key = "abc"

[[converters]]
name = "weather"
kind = "rest"
base_url = "https://api.example.com/v1"

[converters.headers]
Accept-Language = "en"

[converters.methods."forecast.get"]
verb = "GET"
path = "/forecast/{city}"
required = ["city"]
optional = ["days"]
`)

	cfg, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "127.0.0.1:9000", cfg.AddrOrDefault("x"))
	assert.Equal(t, "/gateway", cfg.PathOrDefault("/"))
	assert.Equal(t, "127.0.0.1:9001", cfg.AdminAddr())
	assert.Equal(t, int64(2048), cfg.MaxBodyBytesOrDefault(1))
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeoutOrDefault(time.Second))

	cors := cfg.CORS()
	assert.True(t, cors.EnableOrDefault(false))
	assert.Equal(t, "https://app.example.com", cors.OriginOrDefault("*"))
	assert.Equal(t, "POST, OPTIONS", cors.MethodsOrDefault("GET"))
	assert.Equal(t, "Content-Type", cors.HeadersOrDefault("Content-Type"))
	assert.False(t, cors.CredentialsOrDefault(false))
	assert.Equal(t, time.Minute, cors.MaxAgeOrDefault(time.Hour))

	assert.Equal(t, 5*time.Second, cfg.Transport.TimeoutOrDefault(time.Second))
	assert.Equal(t, 2, cfg.Transport.RetriesOrDefault(0))
	assert.Equal(t, "tests", cfg.Transport.UserAgentOrDefault("x"))

	converters := cfg.ListConverters()
	require.Len(t, converters, 2)
	assert.Equal(t, "lastFM", converters[0].Name)
	assert.Equal(t, "abc", converters[0].APIKey)
	assert.Equal(t, "en", converters[1].Headers["Accept-Language"])
	assert.Equal(t, []string{"city"}, converters[1].Methods["forecast.get"].Required)
}

func TestDefaultLoader_Load_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := (&DefaultLoader{}).Load(writeConfig(t, `
[[converters]]
name = "lastFM"
kind = "lastfm"
api_key = "abc"
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8090", cfg.AddrOrDefault("0.0.0.0:8090"))
	assert.Equal(t, "/", cfg.PathOrDefault("/"))
	assert.Empty(t, cfg.AdminAddr())
	assert.Nil(t, cfg.CORS())
	assert.False(t, cfg.CORS().EnableOrDefault(false))
	assert.Equal(t, "*", cfg.CORS().OriginOrDefault("*"))
	assert.Equal(t, 30*time.Second, cfg.Transport.TimeoutOrDefault(30*time.Second))
}

func TestDefaultLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "invalid toml",
			content:     `[api`,
			errContains: "failed to decode config",
		},
		{
			name:        "invalid address",
			content:     "[api]\naddr = \"nope\"",
			errContains: "hostname_port",
		},
		{
			name:        "relative path",
			content:     "[api]\npath = \"gateway\"",
			errContains: "startswith",
		},
		{
			name:        "missing kind",
			content:     "[[converters]]\nname = \"a\"",
			errContains: "Kind",
		},
		{
			name:        "duplicate converter names",
			content:     "[[converters]]\nname = \"a\"\nkind = \"lastfm\"\n[[converters]]\nname = \"a\"\nkind = \"rest\"",
			errContains: "duplicate converter name 'a'",
		},
		{
			name:        "invalid verb",
			content:     "[[converters]]\nname = \"a\"\nkind = \"rest\"\n[converters.methods.m]\nverb = \"FETCH\"",
			errContains: "FETCH is not a valid HTTP request method",
		},
		{
			name:        "body on default get",
			content:     "[[converters]]\nname = \"a\"\nkind = \"rest\"\n[converters.methods.m]\nbody = true",
			errContains: "converter 'a' method 'm': body cannot be sent with GET",
		},
		{
			name:        "body on explicit get",
			content:     "[[converters]]\nname = \"a\"\nkind = \"rest\"\n[converters.methods.m]\nverb = \"get\"\nbody = true",
			errContains: "converter 'a' method 'm': body cannot be sent with GET",
		},
		{
			name:        "invalid cors method",
			content:     "[api.cors]\nmethods = \"GET,SEND\"",
			errContains: "CORS method SEND is not a valid HTTP request method",
		},
		{
			name:        "empty cors origin",
			content:     "[api.cors]\norigin = \" \"",
			errContains: "CORS origin cannot be empty",
		},
		{
			name:        "negative transport timeout",
			content:     "[transport]\ntimeout = \"-1s\"",
			errContains: "transport timeout must be positive",
		},
		{
			name:        "too many retries",
			content:     "[transport]\nretries = 11",
			errContains: "Retries",
		},
		{
			name:        "zero shutdown timeout",
			content:     "[api.timeout]\nshutdown = \"0s\"",
			errContains: "API shutdown timeout must be positive",
		},
		{
			name:        "unset environment variable",
			content:     "[[converters]]\nname = \"a\"\nkind = \"lastfm\"\napi_key = \"${TISSELTASSEL_TEST_UNSET_KEY}\"",
			errContains: "TISSELTASSEL_TEST_UNSET_KEY not set",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := (&DefaultLoader{}).Load(writeConfig(t, tc.content))
			require.ErrorIs(t, err, ErrConfigLoadFailed)
			require.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestDefaultLoader_Load_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := (&DefaultLoader{}).Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrConfigLoadFailed)
	require.ErrorContains(t, err, "run: 'tisseltassel init'")

	_, err = (&DefaultLoader{}).Load("")
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestConfig_ExpandEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"LASTFM_API_KEY": "k3y",
		"HOST":           "api.example.com",
		"TOKEN":          "t0ken",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	cfg := &Config{
		Converters: []ConverterEntry{
			{Name: "lastFM", Kind: "lastfm", APIKey: "${LASTFM_API_KEY}"},
			{
				Name:    "weather",
				Kind:    "rest",
				BaseURL: "https://${HOST}/v1",
				Headers: map[string]string{"Authorization": "Bearer ${TOKEN}"},
			},
		},
	}

	require.NoError(t, cfg.expandEnv(lookup))
	require.Equal(t, "k3y", cfg.Converters[0].APIKey)
	require.Equal(t, "https://api.example.com/v1", cfg.Converters[1].BaseURL)
	require.Equal(t, "Bearer t0ken", cfg.Converters[1].Headers["Authorization"])

	cfg = &Config{
		Converters: []ConverterEntry{
			{
				Name:    "literal",
				APIKey:  "pa$$word$1",
				BaseURL: "https://$HOST/v1",
				Headers: map[string]string{"X-Sig": "$TOKEN-${TOKEN}", "X-Open": "${TOKEN"},
			},
		},
	}
	require.NoError(t, cfg.expandEnv(lookup))
	require.Equal(t, "pa$$word$1", cfg.Converters[0].APIKey)
	require.Equal(t, "https://$HOST/v1", cfg.Converters[0].BaseURL)
	require.Equal(t, "$TOKEN-t0ken", cfg.Converters[0].Headers["X-Sig"])
	require.Equal(t, "${TOKEN", cfg.Converters[0].Headers["X-Open"])

	cfg = &Config{
		Converters: []ConverterEntry{
			{Name: "a", APIKey: "${B}", BaseURL: "${A}", Headers: map[string]string{"X": "${B}"}},
		},
	}
	err := cfg.expandEnv(lookup)
	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorContains(t, err, "A, B not set")
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"GET", "POST", "OPTIONS"}, SplitList(" GET, POST,,OPTIONS "))
	require.Nil(t, SplitList(""))
}

func TestNewErrInvalidValue(t *testing.T) {
	t.Parallel()

	err := NewErrInvalidValue("api.addr", "x")
	require.ErrorIs(t, err, ErrInvalidValue)
	require.EqualError(t, err, "config value invalid: 'api.addr' (value: 'x')")
}
