package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/converter/lastfm"
	"github.com/tisseltassel/tisseltassel/internal/domain"
)

const testAPIKey = "secret"

// fakeTransport records outbound calls and returns a canned outcome.
type fakeTransport struct {
	mu     sync.Mutex
	calls  []converter.OutboundCall
	ctxErr []error
	resp   domain.UpstreamResponse
	err    error
}

func (f *fakeTransport) Do(ctx context.Context, call converter.OutboundCall) (domain.UpstreamResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	f.ctxErr = append(f.ctxErr, ctx.Err())

	return f.resp, f.err
}

func (f *fakeTransport) Calls() []converter.OutboundCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]converter.OutboundCall(nil), f.calls...)
}

// echoConverter accepts any object-shaped data and targets a fixed URL.
type echoConverter struct {
	converter.MethodSet
}

func (e *echoConverter) Name() string { return "echo" }
func (e *echoConverter) Kind() string { return "echo" }

func newEchoConverter() *echoConverter {
	return &echoConverter{
		MethodSet: converter.MethodSet{
			"ping": func(data converter.Data) (converter.OutboundCall, error) {
				return converter.OutboundCall{URL: "https://echo.example.com/ping"}, nil
			},
		},
	}
}

func testRegistry(t *testing.T) *converter.Registry {
	t.Helper()

	lfm, err := lastfm.NewConverter("lastFM", testAPIKey)
	require.NoError(t, err)

	reg, err := converter.NewRegistry(lfm, newEchoConverter())
	require.NoError(t, err)

	return reg
}

func testGateway(t *testing.T, transport *fakeTransport, opt ...Option) *Gateway {
	t.Helper()

	gw, err := New(Dependencies{
		Logger:    hclog.NewNullLogger(),
		Registry:  testRegistry(t),
		Transport: transport,
	}, opt...)
	require.NoError(t, err)

	return gw
}
