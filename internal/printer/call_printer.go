package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/tisseltassel/tisseltassel/internal/cmd/output"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/gateway"
)

var (
	_ output.Printer[CallResult]         = (*CallPrinter)(nil)
	_ output.Printer[OutboundCallResult] = (*OutboundCallPrinter)(nil)
)

// CallResult represents a gateway response in command output.
type CallResult struct {
	StatusCode int    `json:"statusCode"        yaml:"status_code"`
	Status     string `json:"status"            yaml:"status"`
	Success    bool   `json:"success"           yaml:"success"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Response   any    `json:"response"          yaml:"response"`

	body []byte
}

// NewCallResult decodes the envelope carried by a gateway response.
func NewCallResult(resp gateway.Response) (CallResult, error) {
	var env gateway.Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return CallResult{}, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	var payload any
	if raw := env.Response(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return CallResult{}, fmt.Errorf("failed to decode upstream response: %w", err)
		}
	}

	return CallResult{
		StatusCode: resp.StatusCode,
		Status:     env.Status(),
		Success:    env.Succeeded(),
		Message:    env.Message(),
		Response:   payload,
		body:       resp.Body,
	}, nil
}

// CallPrinter handles text output for gateway responses.
type CallPrinter struct {
	headerFunc output.WriteFunc[CallResult]
	footerFunc output.WriteFunc[CallResult]
}

// Header writes a custom header if one has been configured via SetHeader.
func (p *CallPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

// SetHeader configures a custom header function for the printer.
func (p *CallPrinter) SetHeader(fn output.WriteFunc[CallResult]) {
	p.headerFunc = fn
}

// Item writes the status line followed by the indented envelope.
func (p *CallPrinter) Item(w io.Writer, result CallResult) error {
	if _, err := fmt.Fprintf(w, "HTTP %d (%s)\n", result.StatusCode, result.Status); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, result.body, "", "  "); err != nil {
		buf.Reset()
		buf.Write(result.body)
	}
	buf.WriteByte('\n')

	_, err := buf.WriteTo(w)
	return err
}

// Footer writes a custom footer if one has been configured via SetFooter.
func (p *CallPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

// SetFooter configures a custom footer function for the printer.
func (p *CallPrinter) SetFooter(fn output.WriteFunc[CallResult]) {
	p.footerFunc = fn
}

// OutboundCallResult represents the upstream request a gateway call would issue.
type OutboundCallResult struct {
	Method  string            `json:"method"            yaml:"method"`
	URL     string            `json:"url"               yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty"    yaml:"body,omitempty"`
}

// NewOutboundCallResult describes an outbound call.
func NewOutboundCallResult(call converter.OutboundCall) OutboundCallResult {
	result := OutboundCallResult{
		Method: call.Verb(),
		URL:    call.URL,
	}
	if call.Options != nil {
		result.Headers = maps.Clone(call.Options.Headers)
		result.Body = string(call.Options.Body)
	}
	return result
}

// OutboundCallPrinter handles text output for outbound calls.
type OutboundCallPrinter struct {
	headerFunc output.WriteFunc[OutboundCallResult]
	footerFunc output.WriteFunc[OutboundCallResult]
}

// Header writes a custom header if one has been configured via SetHeader.
func (p *OutboundCallPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

// SetHeader configures a custom header function for the printer.
func (p *OutboundCallPrinter) SetHeader(fn output.WriteFunc[OutboundCallResult]) {
	p.headerFunc = fn
}

// Item writes the request line, sorted headers and body in an HTTP-like layout.
func (p *OutboundCallPrinter) Item(w io.Writer, result OutboundCallResult) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", result.Method, result.URL); err != nil {
		return err
	}

	for _, k := range slices.Sorted(maps.Keys(result.Headers)) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, result.Headers[k]); err != nil {
			return err
		}
	}

	if result.Body != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", result.Body); err != nil {
			return err
		}
	}

	return nil
}

// Footer writes a custom footer if one has been configured via SetFooter.
func (p *OutboundCallPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

// SetFooter configures a custom footer function for the printer.
func (p *OutboundCallPrinter) SetFooter(fn output.WriteFunc[OutboundCallResult]) {
	p.footerFunc = fn
}
