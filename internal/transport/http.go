// Package transport performs the outbound HTTP calls described by converters.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/domain"
)

var _ contracts.Transport = (*Client)(nil)

// Client executes converter.OutboundCall values over HTTP.
// NewClient should be used to create instances of Client.
type Client struct {
	logger    hclog.Logger
	http      *retryablehttp.Client
	userAgent string
}

// NewClient creates an HTTP transport.
func NewClient(logger hclog.Logger, opt ...Option) (*Client, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid transport options: %w", err)
	}

	logger = logger.Named("transport")

	// A supplied client keeps its own timeout.
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = opts.Timeout
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.Logger = logger
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	// Return the last response as-is so its status and body can be relayed.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		logger:    logger,
		http:      rc,
		userAgent: opts.UserAgent,
	}, nil
}

// Do issues the call and reads the complete response.
// Network failures and non-2xx responses are returned as *domain.UpstreamError.
func (c *Client) Do(ctx context.Context, call converter.OutboundCall) (domain.UpstreamResponse, error) {
	var body any
	if call.Options != nil && call.Options.Body != nil {
		body = call.Options.Body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, call.Verb(), call.URL, body)
	if err != nil {
		return domain.UpstreamResponse{}, &domain.UpstreamError{Err: fmt.Errorf("invalid outbound request: %w", err)}
	}

	if call.Options != nil {
		for k, v := range call.Options.Headers {
			req.Header.Set(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return domain.UpstreamResponse{}, &domain.UpstreamError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UpstreamResponse{}, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Debug("Upstream returned unsuccessful status", "status", resp.StatusCode, "bytes", len(data))
		return domain.UpstreamResponse{}, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       bytes.TrimSpace(data),
		}
	}

	return domain.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       data,
	}, nil
}
