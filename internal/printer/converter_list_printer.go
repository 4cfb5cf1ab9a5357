package printer

import (
	"fmt"
	"io"

	"github.com/tisseltassel/tisseltassel/internal/cmd/output"
	"github.com/tisseltassel/tisseltassel/internal/converter"
)

var _ output.Printer[ConverterResult] = (*ConverterListPrinter)(nil)

// ConverterResult represents a registered converter in command output.
type ConverterResult struct {
	Name    string   `json:"name"    yaml:"name"`
	Kind    string   `json:"kind"    yaml:"kind"`
	Methods []string `json:"methods" yaml:"methods"`
}

// NewConverterResult describes the given converter.
func NewConverterResult(c converter.Converter) ConverterResult {
	methods := c.Methods()
	if methods == nil {
		methods = []string{}
	}

	return ConverterResult{
		Name:    c.Name(),
		Kind:    c.Kind(),
		Methods: methods,
	}
}

// ConverterListPrinter handles text output for converter lists.
type ConverterListPrinter struct {
	headerFunc output.WriteFunc[ConverterResult]
	footerFunc output.WriteFunc[ConverterResult]
}

// Header writes a custom header if one has been configured via SetHeader.
func (p *ConverterListPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

// SetHeader configures a custom header function for the printer.
func (p *ConverterListPrinter) SetHeader(fn output.WriteFunc[ConverterResult]) {
	p.headerFunc = fn
}

// Item writes the converter name and kind followed by its methods, one per line.
func (p *ConverterListPrinter) Item(w io.Writer, result ConverterResult) error {
	if _, err := fmt.Fprintf(w, "%s [%s] (%d methods):\n", result.Name, result.Kind, len(result.Methods)); err != nil {
		return err
	}

	if len(result.Methods) == 0 {
		_, err := fmt.Fprintln(w, "  (No methods)")
		return err
	}

	// Methods should already be sorted.
	for _, m := range result.Methods {
		if _, err := fmt.Fprintf(w, "  %s\n", m); err != nil {
			return err
		}
	}

	return nil
}

// Footer writes a custom footer if one has been configured via SetFooter.
func (p *ConverterListPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

// SetFooter configures a custom footer function for the printer.
func (p *ConverterListPrinter) SetFooter(fn output.WriteFunc[ConverterResult]) {
	p.footerFunc = fn
}
