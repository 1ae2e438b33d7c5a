package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/checkrun/packages/report"
)

// JSONFormatter writes the report as indented JSON. The document has the
// same shape report.Decode reads, so saved output can be re-rendered later.
type JSONFormatter struct {
	writer io.Writer
	report *report.Report
	errors []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatReport(r *report.Report) {
	f.report = r
}

// FormatError records a fatal error. When no report follows, Flush writes
// the errors instead.
func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	if f.report == nil {
		return encodeJSON(f.writer, map[string]any{"pass": false, "errors": f.errors})
	}
	return report.Encode(f.writer, f.report)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
