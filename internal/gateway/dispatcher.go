package gateway

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/url"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/domain"
	"github.com/tisseltassel/tisseltassel/internal/errors"
)

// Dispatcher invokes converter methods and hands the resulting calls to the transport.
// NewDispatcher should be used to create instances of Dispatcher.
type Dispatcher struct {
	logger    hclog.Logger
	transport contracts.Transport
}

// NewDispatcher creates a dispatcher using transport for outbound calls.
func NewDispatcher(logger hclog.Logger, transport contracts.Transport) (*Dispatcher, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if transport == nil || reflect.ValueOf(transport).IsNil() {
		return nil, fmt.Errorf("transport cannot be nil")
	}

	return &Dispatcher{
		logger:    logger,
		transport: transport,
	}, nil
}

// Dispatch builds the outbound call for v and performs it exactly once.
//
// The call is detached from ctx cancellation: once dispatched it runs to completion,
// bounded only by the transport's own timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, v Validated) (domain.UpstreamResponse, error) {
	call, err := v.Build()
	if err != nil {
		return domain.UpstreamResponse{}, err
	}

	d.logger.Debug(
		"Dispatching call",
		"apiType", v.APIType,
		"apiMethod", v.APIMethod,
		"verb", call.Verb(),
		"url", redactURL(call.URL),
	)

	resp, err := d.transport.Do(context.WithoutCancel(ctx), call)
	if err != nil {
		if !stdErrors.Is(err, errors.ErrUpstreamFailure) {
			err = &domain.UpstreamError{Err: err}
		}
		return domain.UpstreamResponse{}, err
	}

	d.logger.Debug("Call completed", "apiType", v.APIType, "apiMethod", v.APIMethod, "status", resp.StatusCode)

	return resp, nil
}

// redactURL strips the query string, which may carry credentials.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
