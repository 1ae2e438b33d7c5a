package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
)

// HTMLOutput is the data handed to the report template
type HTMLOutput struct {
	Version       string
	Report        *report.Report
	Time          string
	PassedPercent float64
	FailedPercent float64
}

// HTMLFormatter renders the report as a self-contained HTML page
type HTMLFormatter struct {
	writer  io.Writer
	report  *report.Report
	version string
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

// FormatReport stores the report for Flush
func (f *HTMLFormatter) FormatReport(r *report.Report) {
	f.report = r
}

// FormatError handles errors (no-op for HTML, a fatal run renders an empty page)
func (f *HTMLFormatter) FormatError(err error) {
}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
}

// Flush writes the accumulated HTML output
func (f *HTMLFormatter) Flush() error {
	r := f.report
	if r == nil {
		r = &report.Report{}
	}

	output := HTMLOutput{
		Version: f.version,
		Report:  r,
		Time:    r.StartedAt.Format("2006-01-02 15:04:05"),
	}
	if r.StartedAt.IsZero() {
		output.Time = time.Now().Format("2006-01-02 15:04:05")
	}
	if r.Total > 0 {
		output.PassedPercent = float64(r.Success) / float64(r.Total) * 100
		output.FailedPercent = float64(r.Failure) / float64(r.Total) * 100
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"describe": assertions.Describe,
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>checkrun {{.Report.Name}}</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem; color: #222; }
.bar { display: flex; height: 8px; border-radius: 4px; overflow: hidden; background: #eee; }
.bar .passed { background: #2da44e; }
.bar .failed { background: #cf222e; }
.suite { margin-top: 1.5rem; }
.passed-text { color: #2da44e; }
.failed-text { color: #cf222e; }
pre { background: #f6f8fa; padding: .5rem; margin: .25rem 0 .25rem 1.5rem; }
</style>
</head>
<body>
<h1>checkrun {{.Version}}</h1>
<p>Run {{.Report.RunID}} at {{.Time}} &middot; {{printf "%.0f" .Report.DurationMs}}ms &middot;
{{if .Report.Pass}}<span class="passed-text">PASS</span>{{else}}<span class="failed-text">FAIL</span>{{end}}</p>
<p>Suites: {{.Report.Success}} passed, {{.Report.Failure}} failed, {{.Report.Total}} total</p>
<div class="bar"><div class="passed" style="width: {{printf "%.1f" .PassedPercent}}%"></div><div class="failed" style="width: {{printf "%.1f" .FailedPercent}}%"></div></div>
{{range .Report.Suites}}
<div class="suite">
<h2 class="{{if .Pass}}passed-text{{else}}failed-text{{end}}">[{{.Index}}] {{.Name}} ({{.Success}}/{{.Total}})</h2>
<ul>
{{range .Tests}}
<li class="{{if .Pass}}passed-text{{else}}failed-text{{end}}">{{if .Pass}}&#10003;{{else}}&#10007;{{end}} {{.Name}} <small>{{printf "%.1f" .DurationMs}}ms, {{.Success}}/{{.Total}} checks</small>
{{if .Error}}<pre>error: {{.Error}}</pre>{{end}}
{{range .Checks}}{{if not .Pass}}<pre>expected: {{describe .Expected}}
!{{.Kind}} actual: {{describe .Actual}}</pre>{{end}}{{end}}
</li>
{{end}}
</ul>
</div>
{{end}}
</body>
</html>
`
