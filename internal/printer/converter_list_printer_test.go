package printer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tisseltassel/tisseltassel/internal/converter"
)

type stubConverter struct {
	converter.MethodSet
}

func (stubConverter) Name() string { return "lastFM" }
func (stubConverter) Kind() string { return "lastfm" }

func TestConverterListPrinter_Item(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   ConverterResult
		expected string
	}{
		{
			name: "converter with methods",
			result: ConverterResult{
				Name:    "lastFM",
				Kind:    "lastfm",
				Methods: []string{"user.getInfo", "user.getRecentTracks"},
			},
			expected: "lastFM [lastfm] (2 methods):\n  user.getInfo\n  user.getRecentTracks\n",
		},
		{
			name:     "converter without methods",
			result:   ConverterResult{Name: "empty", Kind: "rest"},
			expected: "empty [rest] (0 methods):\n  (No methods)\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			p := &ConverterListPrinter{}
			require.NoError(t, p.Item(&buf, tc.result))
			require.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestConverterListPrinter_HeaderFooter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := &ConverterListPrinter{}

	// Nothing is written until configured.
	p.Header(&buf, 2)
	p.Footer(&buf, 2)
	require.Empty(t, buf.String())

	p.SetHeader(func(w io.Writer, count int) {
		_, _ = io.WriteString(w, "HEADER\n")
	})
	p.SetFooter(func(w io.Writer, count int) {
		_, _ = io.WriteString(w, "FOOTER\n")
	})
	p.Header(&buf, 2)
	p.Footer(&buf, 2)
	require.Equal(t, "HEADER\nFOOTER\n", buf.String())
}

func TestNewConverterResult(t *testing.T) {
	t.Parallel()

	noop := func(converter.Data) (converter.OutboundCall, error) { return converter.OutboundCall{}, nil }

	got := NewConverterResult(stubConverter{MethodSet: converter.MethodSet{"b": noop, "a": noop}})
	require.Equal(t, ConverterResult{Name: "lastFM", Kind: "lastfm", Methods: []string{"a", "b"}}, got)

	got = NewConverterResult(stubConverter{})
	require.NotNil(t, got.Methods)
	require.Empty(t, got.Methods)
}
