package gateway

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/errors"
)

const (
	// ParamAPIType names the request field selecting the converter.
	ParamAPIType = "apiType"

	// ParamAPIMethod names the request field selecting the converter method.
	ParamAPIMethod = "apiMethod"

	// ParamAPIData names the request field holding the method arguments.
	ParamAPIData = "apiData"
)

// requiredParams is the fixed order in which missing parameters are reported.
var requiredParams = []string{ParamAPIType, ParamAPIMethod, ParamAPIData}

// Request is an inbound call as handed over by the host.
type Request struct {
	// Method is the transport verb, e.g. POST.
	Method string

	// Body is the raw request body.
	Body []byte
}

// Response is the outcome the host should send back.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Payload is the decoded request body.
type Payload struct {
	APIType   string
	APIMethod string
	APIData   converter.Data
}

// Validated is a request that passed validation, with its converter and method resolved.
type Validated struct {
	Payload

	Converter converter.Converter
	Method    converter.Method
}

// requestError carries the caller-facing message for a request failure.
// Its kind is one of the sentinels in internal/errors.
type requestError struct {
	kind    error
	message string
	cause   error
}

func (e *requestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.kind, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *requestError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func newRequestError(kind error, format string, args ...any) error {
	return &requestError{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Validate checks the request and resolves the converter method it addresses.
// Checks run in a fixed order and the first failure is returned.
func Validate(registry contracts.ConverterRegistry, req Request) (Validated, error) {
	if req.Method != http.MethodPost {
		return Validated{}, newRequestError(errors.ErrWrongVerb, "Method not allowed (hint: use %s)", http.MethodPost)
	}

	body, ok := decodeObject(req.Body)
	if !ok {
		return Validated{}, newRequestError(errors.ErrMalformedBody, "Invalid JSON.")
	}

	if len(body) == 0 {
		return Validated{}, newRequestError(errors.ErrEmptyRequest, "No parameters were passed.")
	}

	for _, p := range requiredParams {
		if _, ok := body[p]; !ok {
			return Validated{}, newRequestError(errors.ErrMissingParameter, "Parameter %s missing from request.", p)
		}
	}

	apiType, isString := body[ParamAPIType].(string)
	if !isString {
		return Validated{}, newRequestError(
			errors.ErrUnknownAPIType,
			"Non-existent API %s requested (is not available on server).",
			display(body[ParamAPIType]),
		)
	}
	conv, ok := registry.Converter(apiType)
	if !ok {
		return Validated{}, newRequestError(
			errors.ErrUnknownAPIType,
			"Non-existent API %s requested (is not available on server).",
			apiType,
		)
	}

	apiMethod, isString := body[ParamAPIMethod].(string)
	method, ok := conv.Method(apiMethod)
	if !isString || !ok {
		return Validated{}, newRequestError(
			errors.ErrUnknownAPIMethod,
			"Non-existent API method %s for API %s requested (is not available on server).",
			display(body[ParamAPIMethod]),
			apiType,
		)
	}

	data, ok := converter.NewData(body[ParamAPIData])
	if !ok {
		return Validated{}, newRequestError(errors.ErrInvalidAPIData, "Invalid argument %s (is not object)", ParamAPIData)
	}

	return Validated{
		Payload: Payload{
			APIType:   apiType,
			APIMethod: apiMethod,
			APIData:   data,
		},
		Converter: conv,
		Method:    method,
	}, nil
}

// Build invokes the resolved converter method.
// A rejection by the converter is reported as errors.ErrArgumentValidationFailed.
func (v Validated) Build() (converter.OutboundCall, error) {
	call, err := v.Method(v.APIData)
	if err != nil {
		return converter.OutboundCall{}, &requestError{
			kind:    errors.ErrArgumentValidationFailed,
			message: "Argument validation failed.",
			cause:   err,
		}
	}
	return call, nil
}

// decodeObject parses body as a single JSON object.
// Numbers are kept as json.Number so they are forwarded unchanged.
func decodeObject(body []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}

	// Trailing data after the object.
	if _, err := dec.Token(); !stdErrors.Is(err, io.EOF) {
		return nil, false
	}

	return obj, true
}

// display renders a decoded JSON value for use in messages.
func display(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
