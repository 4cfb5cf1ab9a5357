package gateway

import (
	"bytes"
	"encoding/json"
)

const (
	// StatusSuccess is the envelope status of a relayed upstream response.
	StatusSuccess = "success"

	// StatusError is the envelope status of every failure.
	StatusError = "error"
)

// Envelope is the uniform body of every gateway response.
// Its success flag is derived from status when marshalled and cannot be set on its own.
type Envelope struct {
	status   string
	message  string
	response json.RawMessage
}

// envelopeJSON is the wire form of Envelope.
type envelopeJSON struct {
	Message  string          `json:"message,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Status   string          `json:"status"`
	Success  bool            `json:"success"`
}

// Success wraps an upstream response body.
func Success(body []byte) Envelope {
	return Envelope{status: StatusSuccess, response: embed(body)}
}

// Failure is an error envelope carrying only a message.
func Failure(message string) Envelope {
	return Envelope{status: StatusError, message: message}
}

// FailureWithResponse is an error envelope that also relays an upstream body, null when body is empty.
func FailureWithResponse(message string, body []byte) Envelope {
	return Envelope{status: StatusError, message: message, response: embed(body)}
}

// Status returns the envelope status.
func (e Envelope) Status() string {
	return e.status
}

// Succeeded reports whether the envelope status is StatusSuccess.
func (e Envelope) Succeeded() bool {
	return e.status == StatusSuccess
}

// Message returns the error message, if any.
func (e Envelope) Message() string {
	return e.message
}

// Response returns the embedded response JSON, if any.
func (e Envelope) Response() json.RawMessage {
	return e.response
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{
		Message:  e.message,
		Response: e.response,
		Status:   e.status,
		Success:  e.Succeeded(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// The success field is ignored and recomputed from status.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w envelopeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Envelope{status: w.Status, message: w.Message, response: w.Response}
	return nil
}

// embed converts an upstream body into JSON suitable for the response field.
// Valid JSON is embedded as-is, anything else as a JSON string, and an empty body as null.
func embed(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}

	if json.Valid(trimmed) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.Bytes()
		}
	}

	s, err := json.Marshal(string(body))
	if err != nil {
		return json.RawMessage("null")
	}
	return s
}
