// Package rest provides a converter whose method set is declared entirely in configuration.
// It suits upstream APIs that follow plain REST conventions and need no custom request logic.
package rest

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
)

// Kind is the converter kind used in configuration.
const Kind = "rest"

var _ converter.Converter = (*Converter)(nil)

// placeholder matches {field} segments in method paths.
var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// Converter forwards calls to a REST API according to configured method definitions.
// NewConverter should be used to create instances of Converter.
type Converter struct {
	converter.MethodSet

	name    string
	baseURL string
	headers map[string]string
}

// methodSpec is the parsed form of a config.MethodEntry.
type methodSpec struct {
	name       string
	verb       string
	path       string
	pathFields []string
	fields     []string
	required   map[string]struct{}
	query      [][2]string
	body       bool
	schema     *gojsonschema.Schema
}

// NewConverter creates a converter from a configuration entry.
func NewConverter(entry config.ConverterEntry) (*Converter, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, fmt.Errorf("converter name cannot be empty")
	}

	base, err := url.ParseRequestURI(strings.TrimSpace(entry.BaseURL))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("converter '%s' requires an absolute base_url", name)
	}
	if base.RawQuery != "" || base.ForceQuery || base.Fragment != "" {
		return nil, fmt.Errorf("converter '%s' base_url cannot carry a query or fragment, declare method query values instead", name)
	}

	if len(entry.Methods) == 0 {
		return nil, fmt.Errorf("converter '%s' declares no methods", name)
	}

	c := &Converter{
		MethodSet: make(converter.MethodSet, len(entry.Methods)),
		name:      name,
		baseURL:   strings.TrimSuffix(base.String(), "/"),
		headers:   maps.Clone(entry.Headers),
	}

	for methodName, m := range entry.Methods {
		spec, err := parseMethod(methodName, m)
		if err != nil {
			return nil, fmt.Errorf("converter '%s': %w", name, err)
		}
		c.MethodSet[methodName] = c.method(spec)
	}

	return c, nil
}

// FromEntry is a converter.Constructor for REST configuration entries.
func FromEntry(entry config.ConverterEntry) (converter.Converter, error) {
	return NewConverter(entry)
}

// Name implements converter.Converter.
func (c *Converter) Name() string {
	return c.name
}

// Kind implements converter.Converter.
func (c *Converter) Kind() string {
	return Kind
}

func parseMethod(name string, m config.MethodEntry) (methodSpec, error) {
	spec := methodSpec{
		name:     name,
		verb:     strings.ToUpper(strings.TrimSpace(m.Verb)),
		path:     strings.TrimSpace(m.Path),
		required: map[string]struct{}{},
		body:     m.Body,
	}
	if spec.verb == "" {
		spec.verb = http.MethodGet
	}
	if spec.body && !config.AllowsBody(spec.verb) {
		return methodSpec{}, fmt.Errorf("method '%s' cannot send a body with %s", name, spec.verb)
	}
	if spec.path != "" && !strings.HasPrefix(spec.path, "/") {
		spec.path = "/" + spec.path
	}

	// Placeholders are implicitly required and are not forwarded again as fields.
	for _, match := range placeholder.FindAllStringSubmatch(spec.path, -1) {
		spec.pathFields = append(spec.pathFields, match[1])
		spec.required[match[1]] = struct{}{}
	}

	seen := map[string]struct{}{}
	addField := func(f string, required bool) error {
		f = strings.TrimSpace(f)
		if f == "" {
			return fmt.Errorf("method '%s' declares an empty field name", name)
		}
		if required {
			spec.required[f] = struct{}{}
		}
		if _, ok := seen[f]; ok || slices.Contains(spec.pathFields, f) {
			return nil
		}
		seen[f] = struct{}{}
		spec.fields = append(spec.fields, f)
		return nil
	}
	for _, f := range m.Required {
		if err := addField(f, true); err != nil {
			return methodSpec{}, err
		}
	}
	for _, f := range m.Optional {
		if err := addField(f, false); err != nil {
			return methodSpec{}, err
		}
	}

	for _, k := range slices.Sorted(maps.Keys(m.Query)) {
		spec.query = append(spec.query, [2]string{k, m.Query[k]})
	}

	if strings.TrimSpace(m.Schema) != "" {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(m.Schema))
		if err != nil {
			return methodSpec{}, fmt.Errorf("method '%s' has an invalid schema: %w", name, err)
		}
		spec.schema = schema
	}

	return spec, nil
}

// method returns the converter.Method for a parsed method definition.
func (c *Converter) method(spec methodSpec) converter.Method {
	return func(data converter.Data) (converter.OutboundCall, error) {
		if err := spec.validate(data); err != nil {
			return converter.OutboundCall{}, err
		}

		path := spec.path
		for _, f := range spec.pathFields {
			v, ok := data.String(f)
			if !ok {
				return converter.OutboundCall{}, converter.Invalid("'%s' must be a scalar value", f)
			}
			path = strings.ReplaceAll(path, "{"+f+"}", url.PathEscape(v))
		}

		var body []byte

		if spec.body {
			fields := map[string]any{}
			for _, f := range spec.fields {
				if v, ok := data.Lookup(f); ok {
					fields[f] = v
				}
			}
			b, err := json.Marshal(fields)
			if err != nil {
				return converter.OutboundCall{}, converter.Invalid("cannot encode body: %s", err)
			}
			body = b
		}

		target := c.baseURL + path + encodeQuery(spec.query, spec.queryFields(data))

		headers := maps.Clone(c.headers)
		if body != nil {
			if headers == nil {
				headers = map[string]string{}
			}
			headers["Content-Type"] = "application/json"
		}

		if spec.verb == http.MethodGet && len(headers) == 0 && body == nil {
			return converter.OutboundCall{URL: target}, nil
		}

		return converter.OutboundCall{
			URL: target,
			Options: &converter.CallOptions{
				Method:  spec.verb,
				Headers: headers,
				Body:    body,
			},
		}, nil
	}
}

// validate checks the schema, when declared, and then required fields.
func (s methodSpec) validate(data converter.Data) error {
	if s.schema != nil {
		result, err := s.schema.Validate(gojsonschema.NewGoLoader(data.Raw()))
		if err != nil {
			return converter.Invalid("schema validation failed: %s", err)
		}
		if !result.Valid() {
			reasons := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				reasons = append(reasons, e.String())
			}
			return converter.Invalid("%s", strings.Join(reasons, "; "))
		}
	}

	for _, f := range slices.Sorted(maps.Keys(s.required)) {
		if !data.Has(f) {
			return converter.Invalid("'%s' is required for %s", f, s.name)
		}
	}

	return nil
}

// queryFields returns the forwarded fields to encode in the query string, in declaration order.
func (s methodSpec) queryFields(data converter.Data) [][2]string {
	if s.body {
		return nil
	}
	var out [][2]string
	for _, f := range s.fields {
		if v, ok := data.String(f); ok {
			out = append(out, [2]string{f, v})
		}
	}
	return out
}

// encodeQuery renders key/value pairs in the given order, static pairs first.
func encodeQuery(groups ...[][2]string) string {
	var sb strings.Builder
	for _, pairs := range groups {
		for _, kv := range pairs {
			if sb.Len() == 0 {
				sb.WriteByte('?')
			} else {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(kv[0]))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(kv[1]))
		}
	}
	return sb.String()
}
