package gateway

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/tisseltassel/tisseltassel/internal/domain"
	"github.com/tisseltassel/tisseltassel/internal/errors"
)

// upstreamFailureMessage is the envelope message for any failed outbound call.
const upstreamFailureMessage = "Request failed."

// mapError maps request handling errors to a status code and error envelope.
//
// This function is the central place where errors from internal/errors are rendered to callers.
// When adding new errors to internal/errors/errors.go, you MUST add them here to prevent them from falling
// through to the default case which returns HTTP 500.
//
// Mapping guidelines:
//   - 400: Structural problems with the request or rejected apiData
//   - 404: Unknown API type or method
//   - 405: Wrong transport verb
//   - 500: Upstream failures and unexpected internal errors (default case)
//
// Don't forget to:
// 1. Add test cases to TestMapError (internal/gateway/normalize_test.go)
// 2. Update the documentation in internal/errors/errors.go
func mapError(logger hclog.Logger, err error) (int, Envelope) {
	switch {
	case stdErrors.Is(err, errors.ErrWrongVerb):
		return http.StatusMethodNotAllowed, Failure(messageOf(err))
	case stdErrors.Is(err, errors.ErrMalformedBody),
		stdErrors.Is(err, errors.ErrEmptyRequest),
		stdErrors.Is(err, errors.ErrMissingParameter),
		stdErrors.Is(err, errors.ErrInvalidAPIData):
		return http.StatusBadRequest, Failure(messageOf(err))
	case stdErrors.Is(err, errors.ErrUnknownAPIType),
		stdErrors.Is(err, errors.ErrUnknownAPIMethod):
		return http.StatusNotFound, Failure(messageOf(err))
	case stdErrors.Is(err, errors.ErrArgumentValidationFailed):
		logger.Debug("Converter rejected apiData", "error", err)
		return http.StatusBadRequest, Failure(messageOf(err))
	case stdErrors.Is(err, errors.ErrUpstreamFailure):
		logger.Warn("Upstream request failed", "error", err)
		body, _ := domain.UpstreamBody(err)
		return http.StatusInternalServerError, FailureWithResponse(upstreamFailureMessage, body)
	default:
		logger.Error("Unexpected error handling request", "error", err)
		return http.StatusInternalServerError, Failure("Internal server error.")
	}
}

// messageOf returns the caller-facing message carried by err, falling back to the error text.
func messageOf(err error) string {
	var re *requestError
	if stdErrors.As(err, &re) {
		return re.message
	}
	return err.Error()
}

// respond renders an envelope into a Response carrying the CORS headers.
func respond(cors CORSHeaders, status int, env Envelope) Response {
	headers := cors.Map()

	body, err := json.Marshal(env)
	if err != nil {
		// Envelope fields are always marshalable.
		status = http.StatusInternalServerError
		body = []byte(`{"message":"Internal server error.","status":"error","success":false}`)
	}
	headers[headerContentType] = "application/json"

	return Response{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

// preflight answers an OPTIONS request with the CORS headers only.
func preflight(cors CORSHeaders) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers:    cors.Map(),
	}
}
