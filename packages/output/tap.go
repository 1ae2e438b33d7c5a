package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer io.Writer
	report *report.Report
	errors []string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatReport(r *report.Report) {
	f.report = r
}

func (f *TAPFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush() error {
	fmt.Fprintf(f.writer, "TAP version 13\n")

	if f.report == nil {
		fmt.Fprintf(f.writer, "1..0\n")
		for _, msg := range f.errors {
			fmt.Fprintf(f.writer, "Bail out! %s\n", msg)
		}
		return nil
	}

	total := 0
	for _, s := range f.report.Suites {
		total += len(s.Tests)
	}
	fmt.Fprintf(f.writer, "1..%d\n", total)

	n := 0
	for _, s := range f.report.Suites {
		if len(s.Tests) == 0 {
			fmt.Fprintf(f.writer, "# %s: no tests\n", s.Name)
		}
		for _, t := range s.Tests {
			n++
			name := testPath(s.Name, t.Name)

			if t.Error != "" {
				fmt.Fprintf(f.writer, "not ok %d - %s\n", n, name)
				fmt.Fprintf(f.writer, "  ---\n")
				fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(t.Error))
				fmt.Fprintf(f.writer, "  severity: error\n")
				fmt.Fprintf(f.writer, "  ...\n")
				continue
			}

			if t.Pass {
				fmt.Fprintf(f.writer, "ok %d - %s\n", n, name)
				continue
			}

			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, name)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  failures:\n")
			for _, c := range t.Checks {
				if !c.Pass {
					fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(fmt.Sprintf("%s: expected %s, got %s",
						c.Kind, assertions.Describe(c.Expected), assertions.Describe(c.Actual))))
				}
			}
			fmt.Fprintf(f.writer, "  ...\n")
		}
	}

	fmt.Fprintln(f.writer)
	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
