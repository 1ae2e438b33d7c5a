package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one registered suite
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	ID        int             `xml:"id,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents a test whose checks failed
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a test whose body failed
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats test results as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	report *report.Report
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatReport(r *report.Report) {
	f.report = r
}

func (f *JUnitFormatter) FormatError(err error) {
	// A fatal run produces no report; Flush then writes an empty document
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Build converts a report into the JUnit document.
func (f *JUnitFormatter) Build(r *report.Report) JUnitTestSuites {
	timestamp := r.StartedAt.Format(time.RFC3339)
	suites := JUnitTestSuites{
		Name:       "checkrun",
		Time:       r.DurationMs / 1000,
		Timestamp:  timestamp,
		TestSuites: make([]JUnitTestSuite, 0, len(r.Suites)),
	}

	for _, s := range r.Suites {
		suite := JUnitTestSuite{
			Name:      s.Name,
			ID:        s.Index,
			Tests:     s.Total,
			Timestamp: timestamp,
			TestCases: make([]JUnitTestCase, 0, len(s.Tests)),
		}

		for _, t := range s.Tests {
			tc := JUnitTestCase{
				Name:      t.Name,
				ClassName: s.Name,
				Time:      t.DurationMs / 1000,
			}
			suite.Time += tc.Time

			if t.Error != "" {
				suite.Errors++
				tc.Error = &JUnitError{
					Message: t.Error,
					Type:    "Error",
				}
			} else if !t.Pass {
				suite.Failures++
				tc.Failure = &JUnitFailure{
					Message: fmt.Sprintf("%d of %d checks failed", t.Failure, t.Total),
					Type:    "AssertionError",
					Content: describeFailures(t.Checks),
				}
			}

			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}
	return suites
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush() error {
	suites := JUnitTestSuites{Name: "checkrun"}
	if f.report != nil {
		suites = f.Build(f.report)
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}

// describeFailures lists the failing checks of a test, one per line.
func describeFailures(checks []report.CheckReport) string {
	var b strings.Builder
	for _, c := range checks {
		if !c.Pass {
			fmt.Fprintf(&b, "%s: expected %s, got %s\n",
				c.Kind, assertions.Describe(c.Expected), assertions.Describe(c.Actual))
		}
	}
	return b.String()
}
