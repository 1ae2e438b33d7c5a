package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/checkrun/packages/report"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatReport(r *report.Report)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that accumulate output and write it at
// the end of the run
type Flushable interface {
	Flush() error
}

// Formats lists the accepted values for New.
var Formats = []string{"console", "json", "junit", "tap", "html"}

// Options configure New.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New returns the formatter registered under format.
func New(format string, opts Options) (Formatter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case "html":
		return NewHTMLFormatter(HTMLWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %v)", format, Formats)
	}
}

// testPath names a test within its suite for flat formats.
func testPath(suite, test string) string {
	return suite + " > " + test
}
