// Package output provides formatters for displaying run reports.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output, printed live
//   - JSON: The report document, readable again with report.Decode
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//   - HTML: A self-contained report page
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
// ConsoleFormatter also implements runner.Observer.
package output
