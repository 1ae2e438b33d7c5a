package report

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
)

// isoMillis matches the ISO-8601 form used for run names.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Counts are the derived tallies attached to every level of a report.
type Counts struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Total   int `json:"total"`
}

func (c *Counts) add(passed bool) {
	c.Total++
	if passed {
		c.Success++
	} else {
		c.Failure++
	}
}

// Report is the result of one run.
type Report struct {
	RunID      string        `json:"runId"`
	Name       string        `json:"name"`
	StartedAt  time.Time     `json:"startedAt"`
	DurationMs float64       `json:"durationMs"`
	Pass       bool          `json:"pass"`
	Timing     Timing        `json:"timing"`
	Suites     []SuiteReport `json:"suites"`
	Counts
}

// SuiteReport summarizes one suite. Counts are over tests.
type SuiteReport struct {
	Index int          `json:"index"`
	Name  string       `json:"name"`
	Pass  bool         `json:"pass"`
	Tests []TestReport `json:"tests"`
	Counts
}

// TestReport summarizes one test. Counts are over checks.
type TestReport struct {
	Name       string        `json:"name"`
	Pass       bool          `json:"pass"`
	Error      string        `json:"error,omitempty"`
	DurationMs float64       `json:"durationMs"`
	Checks     []CheckReport `json:"checks"`
	Counts
}

// CheckReport is the reduced form of an evaluated check.
type CheckReport struct {
	Kind     assertions.Kind `json:"kind"`
	Expected any             `json:"expected"`
	Actual   any             `json:"actual"`
	Pass     bool            `json:"pass"`
}

// Run is the final execution state the runner hands to Build.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Suites    []SuiteRun
}

// SuiteRun is the execution state of one suite.
type SuiteRun struct {
	Index int
	Name  string
	Tests []TestRun
}

// TestRun is the execution state of one test.
type TestRun struct {
	Name string
	// BodyFailed is set when the body returned an error or panicked; Error
	// then holds the message and Checks were never evaluated.
	BodyFailed bool
	Error      string
	Duration   time.Duration
	Checks     []*assertions.Check
}

// Passed reports whether the body succeeded and every check passed.
func (t TestRun) Passed() bool {
	if t.BodyFailed {
		return false
	}
	for _, c := range t.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Passed reports whether every test in the suite passed.
func (s SuiteRun) Passed() bool {
	for _, t := range s.Tests {
		if !t.Passed() {
			return false
		}
	}
	return true
}

// Build assembles the report for a finished run. It does not modify run.
func Build(run Run) *Report {
	r := &Report{
		RunID:      run.ID,
		Name:       run.StartedAt.UTC().Format(isoMillis),
		StartedAt:  run.StartedAt,
		DurationMs: milliseconds(run.Duration),
		Pass:       true,
		Suites:     make([]SuiteReport, 0, len(run.Suites)),
	}

	var durations []time.Duration
	for _, s := range run.Suites {
		sr := SuiteReport{
			Index: s.Index,
			Name:  s.Name,
			Tests: make([]TestReport, 0, len(s.Tests)),
		}
		for _, t := range s.Tests {
			sr.Tests = append(sr.Tests, buildTest(t))
			sr.Counts.add(t.Passed())
			durations = append(durations, t.Duration)
		}
		sr.Pass = sr.Failure == 0

		r.Suites = append(r.Suites, sr)
		r.Counts.add(sr.Pass)
		if !sr.Pass {
			r.Pass = false
		}
	}

	r.Timing = computeTiming(durations)
	return r
}

func buildTest(t TestRun) TestReport {
	tr := TestReport{
		Name:       t.Name,
		Pass:       t.Passed(),
		Error:      t.Error,
		DurationMs: milliseconds(t.Duration),
		Checks:     []CheckReport{},
	}
	if t.BodyFailed {
		return tr
	}

	for _, c := range t.Checks {
		if !c.Evaluated() {
			continue
		}
		tr.Checks = append(tr.Checks, CheckReport{
			Kind:     c.Kind,
			Expected: sanitize(c.Expected),
			Actual:   sanitize(c.Actual),
			Pass:     c.Passed(),
		})
		tr.Counts.add(c.Passed())
	}
	return tr
}

// sanitize returns v if encoding/json can represent it, otherwise a
// printable rendering of it.
func sanitize(v any) any {
	if v == nil {
		return nil
	}
	if _, err := json.Marshal(v); err == nil {
		return v
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return fmt.Sprintf("%T", v)
	}
	return fmt.Sprintf("%v", v)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Encode writes the report as indented JSON.
func Encode(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// Decode reads a report written by Encode.
func Decode(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &r, nil
}
