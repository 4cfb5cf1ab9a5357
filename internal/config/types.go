package config

import (
	"time"
)

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Loader   = (*validatingLoader)(nil)
)

// Loader loads a configuration file from disk.
type Loader interface {
	Load(path string) (*Config, error)
}

// Initializer creates a new configuration file.
type Initializer interface {
	Init(path string) error
}

// Provider can both initialize and load configuration files.
type Provider interface {
	Initializer
	Loader
}

// DefaultLoader loads and initializes TOML configuration files.
type DefaultLoader struct{}

// Config represents the .tisseltassel.toml file structure.
//
// NOTE: if you add/remove fields you must review the associated validation in config.go.
type Config struct {
	// API configuration (address, gateway path, timeouts and CORS).
	API *APIConfigSection `json:"api,omitempty" toml:"api,omitempty" yaml:"api,omitempty"`

	// Transport configuration for outbound calls to upstream APIs.
	Transport *TransportConfigSection `json:"transport,omitempty" toml:"transport,omitempty" yaml:"transport,omitempty"`

	// Converters lists the API converters made available by the gateway.
	Converters []ConverterEntry `json:"converters" toml:"converters" validate:"dive" yaml:"converters"`

	configFilePath string `toml:"-"`
}

// APIConfigSection contains API server configuration settings.
type APIConfigSection struct {
	// Address to bind the API server (e.g., "0.0.0.0:8090")
	// Maps to CLI flag --addr
	Addr *string `json:"addr,omitempty" toml:"addr,omitempty" validate:"omitempty,hostname_port" yaml:"addr,omitempty"`

	// Path the gateway endpoint is mounted on (e.g., "/")
	Path *string `json:"path,omitempty" toml:"path,omitempty" validate:"omitempty,startswith=/" yaml:"path,omitempty"`

	// Address to bind the admin API on a separate listener, when set.
	AdminAddr *string `json:"adminAddr,omitempty" toml:"admin_addr,omitempty" validate:"omitempty,hostname_port" yaml:"admin_addr,omitempty"`

	// Maximum accepted request body size in bytes.
	MaxBodyBytes *int64 `json:"maxBodyBytes,omitempty" toml:"max_body_bytes,omitempty" validate:"omitempty,gt=0" yaml:"max_body_bytes,omitempty"`

	// Nested timeout configuration for API operations
	Timeout *APITimeoutConfigSection `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Nested CORS configuration for cross-origin requests
	CORS *CORSConfigSection `json:"cors,omitempty" toml:"cors,omitempty" yaml:"cors,omitempty"`
}

// APITimeoutConfigSection contains timeout settings for API operations.
type APITimeoutConfigSection struct {
	// Shutdown timeout for graceful API server shutdown
	Shutdown *Duration `json:"shutdown,omitempty" toml:"shutdown,omitempty" yaml:"shutdown,omitempty"`
}

// CORSConfigSection contains Cross-Origin Resource Sharing (CORS) configuration.
// Origin, Methods and Headers are sent verbatim on every gateway response.
// Enable additionally turns on CORS negotiation for the admin API.
type CORSConfigSection struct {
	// Enable CORS support on the admin API
	Enable *bool `json:"enable,omitempty" toml:"enable,omitempty" yaml:"enable,omitempty"`

	// Allowed origin
	Origin *string `json:"origin,omitempty" toml:"origin,omitempty" yaml:"origin,omitempty"`

	// Allowed HTTP methods, comma separated (e.g. "GET,POST,OPTIONS")
	Methods *string `json:"methods,omitempty" toml:"methods,omitempty" yaml:"methods,omitempty"`

	// Allowed request headers, comma separated (e.g. "Content-Type")
	Headers *string `json:"headers,omitempty" toml:"headers,omitempty" yaml:"headers,omitempty"`

	// Allow credentials in admin API CORS requests
	Credentials *bool `json:"allowCredentials,omitempty" toml:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`

	// Maximum age for admin API CORS preflight cache
	MaxAge *Duration `json:"maxAge,omitempty" toml:"max_age,omitempty" yaml:"max_age,omitempty"`
}

// TransportConfigSection contains settings for the outbound HTTP transport.
type TransportConfigSection struct {
	// Timeout for a single outbound request
	Timeout *Duration `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Retries performed by the transport on connection errors and 5xx responses
	Retries *int `json:"retries,omitempty" toml:"retries,omitempty" validate:"omitempty,min=0,max=10" yaml:"retries,omitempty"`

	// User-Agent header sent when a converter does not set one
	UserAgent *string `json:"userAgent,omitempty" toml:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// ConverterEntry represents the configuration of a single converter in the registry.
type ConverterEntry struct {
	// Name is the API type callers send as 'apiType', e.g. 'lastFM'.
	Name string `json:"name" toml:"name" validate:"required" yaml:"name"`

	// Kind selects the converter implementation, e.g. 'lastfm' or 'rest'.
	Kind string `json:"kind" toml:"kind" validate:"required" yaml:"kind"`

	// APIKey is a credential passed to the converter, supports ${ENV_VAR} expansion.
	APIKey string `json:"-" toml:"api_key,omitempty" yaml:"-"`

	// BaseURL overrides the upstream base URL, supports ${ENV_VAR} expansion.
	BaseURL string `json:"baseURL,omitempty" toml:"base_url,omitempty" validate:"omitempty,url" yaml:"base_url,omitempty"`

	// Headers are sent on every outbound call, values support ${ENV_VAR} expansion.
	Headers map[string]string `json:"-" toml:"headers,omitempty" yaml:"-"`

	// Methods declares the method set of configuration-defined converters.
	Methods map[string]MethodEntry `json:"methods,omitempty" toml:"methods,omitempty" validate:"dive" yaml:"methods,omitempty"`
}

// MethodEntry describes one method of a configuration-defined converter.
type MethodEntry struct {
	// Verb is the HTTP method used for the outbound call, defaults to GET.
	Verb string `json:"verb,omitempty" toml:"verb,omitempty" yaml:"verb,omitempty"`

	// Path is appended to the converter base URL and may contain {field} placeholders.
	Path string `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`

	// Required lists the apiData fields that must be present.
	Required []string `json:"required,omitempty" toml:"required,omitempty" yaml:"required,omitempty"`

	// Optional lists the apiData fields forwarded when present.
	Optional []string `json:"optional,omitempty" toml:"optional,omitempty" yaml:"optional,omitempty"`

	// Query holds static query parameters added to every call.
	Query map[string]string `json:"query,omitempty" toml:"query,omitempty" yaml:"query,omitempty"`

	// Body sends the forwarded fields as a JSON object body instead of query parameters.
	Body bool `json:"body,omitempty" toml:"body,omitempty" yaml:"body,omitempty"`

	// Schema is an optional JSON Schema document apiData must satisfy.
	Schema string `json:"schema,omitempty" toml:"schema,omitempty" yaml:"schema,omitempty"`
}

// Duration is a custom time.Duration type that provides improved marshaling.
type Duration time.Duration
