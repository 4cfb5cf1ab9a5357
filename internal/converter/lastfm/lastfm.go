// Package lastfm provides a converter for the Last.fm web service (API 2.0).
package lastfm

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
)

const (
	// Kind is the converter kind used in configuration.
	Kind = "lastfm"

	// DefaultBaseURL is the Last.fm API root.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0"

	// responseFormat is always requested so upstream bodies can be relayed as JSON.
	responseFormat = "json"
)

var _ converter.Converter = (*Converter)(nil)

// param describes a single apiData field forwarded to Last.fm.
type param struct {
	name     string
	required bool
}

// methodParams lists the supported API methods and their parameters, in the order they are encoded.
var methodParams = map[string][]param{
	"user.getRecentTracks": {
		{name: "user", required: true},
		{name: "limit"},
		{name: "page"},
		{name: "from"},
		{name: "to"},
		{name: "extended"},
	},
	"user.getInfo": {
		{name: "user", required: true},
	},
	"user.getTopTracks": {
		{name: "user", required: true},
		{name: "period"},
		{name: "limit"},
		{name: "page"},
	},
	"artist.getInfo": {
		{name: "artist", required: true},
		{name: "lang"},
		{name: "autocorrect"},
	},
	"track.getInfo": {
		{name: "artist", required: true},
		{name: "track", required: true},
		{name: "autocorrect"},
	},
}

// Converter translates gateway calls into Last.fm API requests.
// NewConverter should be used to create instances of Converter.
type Converter struct {
	converter.MethodSet

	name    string
	apiKey  string
	baseURL string
}

// Option configures a Converter.
type Option func(*Converter) error

// WithBaseURL overrides the Last.fm API root, an empty value keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(c *Converter) error {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL == "" {
			return nil
		}
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
		}
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// NewConverter creates a Last.fm converter registered under name, authenticating with apiKey.
func NewConverter(name string, apiKey string, opt ...Option) (*Converter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("converter name cannot be empty")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}

	c := &Converter{
		name:    name,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}

	c.MethodSet = make(converter.MethodSet, len(methodParams))
	for method, params := range methodParams {
		c.MethodSet[method] = c.method(method, params)
	}

	return c, nil
}

// FromEntry is a converter.Constructor for Last.fm configuration entries.
func FromEntry(entry config.ConverterEntry) (converter.Converter, error) {
	return NewConverter(entry.Name, entry.APIKey, WithBaseURL(entry.BaseURL))
}

// Name implements converter.Converter.
func (c *Converter) Name() string {
	return c.name
}

// Kind implements converter.Converter.
func (c *Converter) Kind() string {
	return Kind
}

// method returns the converter.Method for an API method with the given parameters.
func (c *Converter) method(name string, params []param) converter.Method {
	return func(data converter.Data) (converter.OutboundCall, error) {
		values := make([][2]string, 0, len(params))
		for _, p := range params {
			v, ok := data.String(p.name)
			if !ok {
				if p.required {
					return converter.OutboundCall{}, converter.Invalid("'%s' is required for %s", p.name, name)
				}
				continue
			}
			values = append(values, [2]string{p.name, v})
		}

		return converter.OutboundCall{URL: c.url(name, values)}, nil
	}
}

// url builds the request URL: method, format and API key first, then the forwarded parameters in declaration order.
func (c *Converter) url(method string, params [][2]string) string {
	pairs := append([][2]string{
		{"method", method},
		{"format", responseFormat},
		{"api_key", c.apiKey},
	}, params...)

	var sb strings.Builder
	sb.WriteString(c.baseURL)
	for i, kv := range pairs {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv[0]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv[1]))
	}

	return sb.String()
}
