package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/fatih/color"
)

// ConsoleFormatter prints human readable progress while a run executes and a
// summary once it ends. It implements runner.Observer.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
	// live is set once any progress event has been printed, so FormatReport
	// knows whether it still has to replay the run from the report.
	live bool

	cyan   *color.Color
	yellow *color.Color
	red    *color.Color
	green  *color.Color
	bold   *color.Color
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
		cyan:   color.New(color.FgCyan),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		bold:   color.New(color.Bold),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		for _, c := range []*color.Color{f.cyan, f.yellow, f.red, f.green, f.bold} {
			c.DisableColor()
		}
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) SuiteStarted(pos, total int, s *registry.Suite) {
	f.live = true
	f.suiteLine(pos, total, s.Name)
}

func (f *ConsoleFormatter) TestStarted(pos, total int, t *registry.Test) {
	f.live = true
	f.testLine(pos, total, t.Name)
}

func (f *ConsoleFormatter) CheckFailed(_ *registry.Test, c *assertions.Check) {
	f.live = true
	f.checkLine(c.Kind, c.Expected, c.Actual)
}

func (f *ConsoleFormatter) TestErrored(_ *registry.Test, message string) {
	f.live = true
	f.errorLine(message)
}

func (f *ConsoleFormatter) TestFinished(_ *registry.Test, result *report.TestRun) {
	f.live = true
	if result.Passed() {
		f.passedLine(len(result.Checks))
	}
}

func (f *ConsoleFormatter) SuiteFinished(_ *registry.Suite, passed, total int) {
	f.live = true
	f.suiteSummaryLine(passed, total)
}

func (f *ConsoleFormatter) suiteLine(pos, total int, name string) {
	if f.verbose {
		f.cyan.Fprintf(f.writer, "\n[%d/%d]: %s\n", pos, total, name)
	}
}

func (f *ConsoleFormatter) testLine(pos, total int, name string) {
	if f.verbose {
		f.yellow.Fprintf(f.writer, "  * [%d/%d]: %s\n", pos, total, name)
	}
}

func (f *ConsoleFormatter) checkLine(kind assertions.Kind, expected, actual any) {
	if f.verbose {
		f.red.Fprintf(f.writer, "    ✗ expected:\n\t%s\n       !%s actual:\n\t%s\n",
			assertions.Describe(expected), kind, assertions.Describe(actual))
	}
}

func (f *ConsoleFormatter) errorLine(message string) {
	f.red.Fprintf(f.writer, "    ✗ error: \"%s\"\n", message)
}

func (f *ConsoleFormatter) passedLine(checks int) {
	if f.verbose {
		f.green.Fprintf(f.writer, "    ✓ %d checks passed\n", checks)
	}
}

func (f *ConsoleFormatter) suiteSummaryLine(passed, total int) {
	if f.verbose && passed != total {
		fmt.Fprintf(f.writer, "%s%s\n",
			f.green.Sprintf("%d pass / ", passed),
			f.red.Sprintf("%d fail ", total-passed))
	}
}

// replay prints the progress lines of a finished run from its report.
func (f *ConsoleFormatter) replay(r *report.Report) {
	for s, suite := range r.Suites {
		f.suiteLine(s+1, len(r.Suites), suite.Name)
		for i, test := range suite.Tests {
			f.testLine(i+1, len(suite.Tests), test.Name)
			if test.Error != "" {
				f.errorLine(test.Error)
				continue
			}
			for _, c := range test.Checks {
				if !c.Pass {
					f.checkLine(c.Kind, c.Expected, c.Actual)
				}
			}
			if test.Pass {
				f.passedLine(len(test.Checks))
			}
		}
		f.suiteSummaryLine(suite.Success, suite.Total)
	}
}

// FormatReport prints the run summary. When no progress events were seen,
// for example when rendering a saved report, the run is replayed first.
func (f *ConsoleFormatter) FormatReport(r *report.Report) {
	if !f.live {
		f.replay(r)
	}

	if !f.verbose {
		for _, suite := range r.Suites {
			for _, test := range suite.Tests {
				if !test.Pass {
					fmt.Fprintf(f.writer, "  %s %s\n", f.red.Sprint("✗"), testPath(suite.Name, test.Name))
				}
			}
		}
	}

	var tests report.Counts
	for _, suite := range r.Suites {
		tests.Success += suite.Success
		tests.Failure += suite.Failure
		tests.Total += suite.Total
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Suites: %s\n", f.counts(r.Counts))
	fmt.Fprintf(f.writer, "Tests:  %s\n", f.counts(tests))
	fmt.Fprintf(f.writer, "Time:   %.0fms (p50 %.1fms, p95 %.1fms, max %.1fms)\n",
		r.DurationMs, r.Timing.P50Ms, r.Timing.P95Ms, r.Timing.MaxMs)

	if r.Pass {
		fmt.Fprintf(f.writer, "%s\n", f.green.Sprint("PASS"))
	} else {
		fmt.Fprintf(f.writer, "%s\n", f.red.Sprint("FAIL"))
	}
}

func (f *ConsoleFormatter) counts(c report.Counts) string {
	out := ""
	if c.Success > 0 {
		out += f.green.Sprintf("%d passed", c.Success) + ", "
	}
	if c.Failure > 0 {
		out += f.red.Sprintf("%d failed", c.Failure) + ", "
	}
	return out + fmt.Sprintf("%d total", c.Total)
}

func (f *ConsoleFormatter) FormatError(err error) {
	fmt.Fprintf(f.writer, "%s %v\n", f.red.Sprint("Fatal error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	fmt.Fprintf(f.writer, "%s %s\n", f.bold.Sprint("checkrun"), version)
}
