package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/tisseltassel/tisseltassel/internal/files"
	"github.com/tisseltassel/tisseltassel/internal/perms"
)

// envReference matches ${NAME} references; a bare $ is kept literally.
var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// structValidator is shared since validator caches struct metadata.
var structValidator = validator.New(validator.WithRequiredStructEnabled())

// skeleton is written by Init.
const skeleton = `# tisseltassel gateway configuration

[api]
addr = "0.0.0.0:8090"
path = "/"

[api.cors]
origin = "*"
methods = "GET,POST,OPTIONS"
headers = "Content-Type"

[transport]
timeout = "30s"

# [[converters]]
# name = "lastFM"
# kind = "lastfm"
# api_key = "${LASTFM_API_KEY}"
`

// Init creates the base skeleton configuration file.
func (d *DefaultLoader) Init(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	// Only directories created here are held to the secure mode.
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := files.EnsureAtLeastSecureDir(dir); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	// Config files may carry API keys.
	if err := os.WriteFile(path, []byte(skeleton), perms.SecureFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load decodes, expands and validates the configuration file at path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'tisseltassel init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	if err := cfg.expandEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg.configFilePath = path

	return cfg, nil
}

// Path returns the file this configuration was loaded from.
func (c *Config) Path() string {
	return c.configFilePath
}

// ListConverters returns a copy of the configured converter entries.
func (c *Config) ListConverters() []ConverterEntry {
	return slices.Clone(c.Converters)
}

// CORS returns the CORS section, which may be nil.
func (c *Config) CORS() *CORSConfigSection {
	if c == nil || c.API == nil {
		return nil
	}
	return c.API.CORS
}

// AddrOrDefault returns the configured API address, falling back to def.
func (c *Config) AddrOrDefault(def string) string {
	if c == nil || c.API == nil || c.API.Addr == nil {
		return def
	}
	return *c.API.Addr
}

// PathOrDefault returns the configured gateway path, falling back to def.
func (c *Config) PathOrDefault(def string) string {
	if c == nil || c.API == nil || c.API.Path == nil {
		return def
	}
	return *c.API.Path
}

// AdminAddr returns the separate admin API address, or an empty string when admin routes share the gateway listener.
func (c *Config) AdminAddr() string {
	if c == nil || c.API == nil || c.API.AdminAddr == nil {
		return ""
	}
	return *c.API.AdminAddr
}

// MaxBodyBytesOrDefault returns the configured request body limit, falling back to def.
func (c *Config) MaxBodyBytesOrDefault(def int64) int64 {
	if c == nil || c.API == nil || c.API.MaxBodyBytes == nil {
		return def
	}
	return *c.API.MaxBodyBytes
}

// ShutdownTimeoutOrDefault returns the API shutdown timeout, falling back to def.
func (c *Config) ShutdownTimeoutOrDefault(def time.Duration) time.Duration {
	if c == nil || c.API == nil || c.API.Timeout == nil || c.API.Timeout.Shutdown == nil {
		return def
	}
	return time.Duration(*c.API.Timeout.Shutdown)
}

// EnableOrDefault returns the CORS enable setting, falling back to defaultEnable if not set.
func (c *CORSConfigSection) EnableOrDefault(defaultEnable bool) bool {
	if c == nil || c.Enable == nil {
		return defaultEnable
	}
	return *c.Enable
}

// OriginOrDefault returns the configured allowed origin, falling back to def.
func (c *CORSConfigSection) OriginOrDefault(def string) string {
	if c == nil || c.Origin == nil {
		return def
	}
	return *c.Origin
}

// MethodsOrDefault returns the configured allowed methods, falling back to def.
func (c *CORSConfigSection) MethodsOrDefault(def string) string {
	if c == nil || c.Methods == nil || strings.TrimSpace(*c.Methods) == "" {
		return def
	}
	return *c.Methods
}

// HeadersOrDefault returns the configured allowed headers, falling back to def.
func (c *CORSConfigSection) HeadersOrDefault(def string) string {
	if c == nil || c.Headers == nil || strings.TrimSpace(*c.Headers) == "" {
		return def
	}
	return *c.Headers
}

// CredentialsOrDefault returns the configured allow credentials setting, falling back to def.
func (c *CORSConfigSection) CredentialsOrDefault(def bool) bool {
	if c == nil || c.Credentials == nil {
		return def
	}
	return *c.Credentials
}

// MaxAgeOrDefault returns the configured preflight cache max age, falling back to def.
func (c *CORSConfigSection) MaxAgeOrDefault(def time.Duration) time.Duration {
	if c == nil || c.MaxAge == nil {
		return def
	}
	return time.Duration(*c.MaxAge)
}

// TimeoutOrDefault returns the outbound request timeout, falling back to def.
func (t *TransportConfigSection) TimeoutOrDefault(def time.Duration) time.Duration {
	if t == nil || t.Timeout == nil {
		return def
	}
	return time.Duration(*t.Timeout)
}

// RetriesOrDefault returns the number of transport retries, falling back to def.
func (t *TransportConfigSection) RetriesOrDefault(def int) int {
	if t == nil || t.Retries == nil {
		return def
	}
	return *t.Retries
}

// UserAgentOrDefault returns the outbound User-Agent, falling back to def.
func (t *TransportConfigSection) UserAgentOrDefault(def string) string {
	if t == nil || t.UserAgent == nil || strings.TrimSpace(*t.UserAgent) == "" {
		return def
	}
	return *t.UserAgent
}

// expandEnv resolves ${VAR} references in converter credentials, base URLs and headers.
// Other uses of $ are left untouched.
// References to unset variables are reported as errors rather than silently expanding to an empty string.
func (c *Config) expandEnv(lookup func(string) (string, bool)) error {
	var missing []string
	expand := func(s string) string {
		return envReference.ReplaceAllStringFunc(s, func(ref string) string {
			name := envReference.FindStringSubmatch(ref)[1]
			v, ok := lookup(name)
			if !ok {
				missing = append(missing, name)
			}
			return v
		})
	}

	for i := range c.Converters {
		e := &c.Converters[i]
		e.APIKey = expand(e.APIKey)
		e.BaseURL = expand(e.BaseURL)
		for k, v := range e.Headers {
			e.Headers[k] = expand(v)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return NewErrInvalidValue("environment", strings.Join(slices.Compact(missing), ", ")+" not set")
	}

	return nil
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	if err := structValidator.Struct(c); err != nil {
		return err
	}

	var validationErrors []error

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("api configuration error: %w", err))
		}
	}

	if c.Transport != nil {
		if err := c.Transport.Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("transport configuration error: %w", err))
		}
	}

	if err := c.validateConverters(); err != nil {
		validationErrors = append(validationErrors, err)
	}

	return errors.Join(validationErrors...)
}

// Validate checks API section values that struct tags cannot express.
func (a *APIConfigSection) Validate() error {
	var validationErrors []error

	if a.Timeout != nil && a.Timeout.Shutdown != nil && *a.Timeout.Shutdown <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("API shutdown timeout must be positive"))
	}

	if a.CORS != nil {
		if err := a.CORS.Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("CORS configuration error: %w", err))
		}
	}

	return errors.Join(validationErrors...)
}

// Validate checks CORS configuration values.
func (c *CORSConfigSection) Validate() error {
	var validationErrors []error

	if c.Origin != nil && strings.TrimSpace(*c.Origin) == "" {
		validationErrors = append(validationErrors, fmt.Errorf("CORS origin cannot be empty"))
	}

	if c.Methods != nil {
		valid := ValidHTTPRequestMethods()
		for _, method := range SplitList(*c.Methods) {
			if _, ok := valid[strings.ToUpper(method)]; !ok {
				validationErrors = append(
					validationErrors,
					fmt.Errorf("CORS method %s is not a valid HTTP request method", method),
				)
			}
		}
	}

	if c.MaxAge != nil && *c.MaxAge <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("CORS max age must be positive"))
	}

	return errors.Join(validationErrors...)
}

// Validate checks transport configuration values.
func (t *TransportConfigSection) Validate() error {
	if t.Timeout != nil && *t.Timeout <= 0 {
		return fmt.Errorf("transport timeout must be positive")
	}
	return nil
}

// validateConverters ensures converter names are unique and method verbs are valid.
func (c *Config) validateConverters() error {
	seen := map[string]struct{}{}
	valid := ValidHTTPRequestMethods()
	var validationErrors []error

	for _, entry := range c.Converters {
		name := strings.TrimSpace(entry.Name)
		if _, ok := seen[name]; ok {
			validationErrors = append(validationErrors, fmt.Errorf("duplicate converter name '%s'", name))
			continue
		}
		seen[name] = struct{}{}

		for methodName, m := range entry.Methods {
			if strings.TrimSpace(methodName) == "" {
				validationErrors = append(validationErrors, fmt.Errorf("converter '%s' has a method with an empty name", name))
			}
			verb := strings.ToUpper(strings.TrimSpace(m.Verb))
			if verb == "" {
				verb = http.MethodGet
			}
			if _, ok := valid[verb]; !ok {
				validationErrors = append(
					validationErrors,
					fmt.Errorf("converter '%s' method '%s': %s is not a valid HTTP request method", name, methodName, m.Verb),
				)
				continue
			}
			if m.Body && !AllowsBody(verb) {
				validationErrors = append(
					validationErrors,
					fmt.Errorf("converter '%s' method '%s': body cannot be sent with %s", name, methodName, verb),
				)
			}
		}
	}

	return errors.Join(validationErrors...)
}

// AllowsBody reports whether a request with the given HTTP method may carry a body.
func AllowsBody(verb string) bool {
	switch strings.ToUpper(strings.TrimSpace(verb)) {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// SplitList parses a comma-separated string into a slice of trimmed, non-empty strings.
func SplitList(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
