package daemon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/domain"
	"github.com/tisseltassel/tisseltassel/internal/gateway"
)

// echoConverter builds calls to a fixed URL carrying the 'q' field.
type echoConverter struct {
	converter.MethodSet
}

func newEchoConverter() *echoConverter {
	return &echoConverter{
		MethodSet: converter.MethodSet{
			"search": func(data converter.Data) (converter.OutboundCall, error) {
				q, ok := data.String("q")
				if !ok {
					return converter.OutboundCall{}, converter.Invalid("'q' is required for search")
				}
				return converter.OutboundCall{URL: "https://upstream.example.com/search?q=" + q}, nil
			},
		},
	}
}

func (c *echoConverter) Name() string { return "echo" }
func (c *echoConverter) Kind() string { return "test" }

// staticTransport answers every call with the same upstream body.
type staticTransport struct {
	body []byte
}

func (s *staticTransport) Do(context.Context, converter.OutboundCall) (domain.UpstreamResponse, error) {
	return domain.UpstreamResponse{StatusCode: http.StatusOK, Body: s.body}, nil
}

func testRegistry(t *testing.T) *converter.Registry {
	t.Helper()

	r, err := converter.NewRegistry(newEchoConverter())
	require.NoError(t, err)

	return r
}

func testGateway(t *testing.T, registry *converter.Registry) *gateway.Gateway {
	t.Helper()

	gw, err := gateway.New(gateway.Dependencies{
		Logger:    hclog.NewNullLogger(),
		Registry:  registry,
		Transport: &staticTransport{body: []byte(`{"hits":1}`)},
	})
	require.NoError(t, err)

	return gw
}

func testAPIDependencies(t *testing.T) APIDependencies {
	t.Helper()

	registry := testRegistry(t)
	deps, err := NewAPIDependencies(hclog.NewNullLogger(), testGateway(t, registry), registry, "localhost:8090")
	require.NoError(t, err)

	return deps
}

// upstreamConverter forwards the 'q' field to a test server.
type upstreamConverter struct {
	baseURL string
}

func (c *upstreamConverter) Name() string      { return "upstream" }
func (c *upstreamConverter) Kind() string      { return "test" }
func (c *upstreamConverter) Methods() []string { return []string{"search"} }

func (c *upstreamConverter) Method(name string) (converter.Method, bool) {
	if name != "search" {
		return nil, false
	}
	return func(data converter.Data) (converter.OutboundCall, error) {
		q, _ := data.String("q")
		return converter.OutboundCall{URL: c.baseURL + "/search?q=" + url.QueryEscape(q)}, nil
	}, true
}

func newUpstream(t *testing.T, h http.Handler) string {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return srv.URL
}

func postJSON(target string, body string) (string, int, error) {
	resp, err := http.Post(target, "application/json", strings.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	return string(b), resp.StatusCode, nil
}
