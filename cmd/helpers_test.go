package cmd

import (
	"context"
	"net/http"

	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/domain"
)

// mockConfigLoader returns a fixed configuration.
type mockConfigLoader struct {
	cfg *config.Config
	err error
}

func (m *mockConfigLoader) Load(_ string) (*config.Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg, nil
}

// mockConfigInitializer records the path it was asked to initialize.
type mockConfigInitializer struct {
	path string
	err  error
}

func (m *mockConfigInitializer) Init(path string) error {
	m.path = path
	return m.err
}

// recordingTransport answers every call with a fixed upstream response and records the calls made.
type recordingTransport struct {
	status int
	body   []byte
	err    error
	calls  []converter.OutboundCall
}

func (r *recordingTransport) Do(_ context.Context, call converter.OutboundCall) (domain.UpstreamResponse, error) {
	r.calls = append(r.calls, call)
	if r.err != nil {
		return domain.UpstreamResponse{}, r.err
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return domain.UpstreamResponse{StatusCode: status, Body: r.body}, nil
}

func lastFMConfig() *config.Config {
	return &config.Config{
		Converters: []config.ConverterEntry{
			{Name: "lastFM", Kind: "lastfm", APIKey: "k"},
		},
	}
}
