package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/google/uuid"
)

// ErrAlreadyRun is returned when Run is called on a runner that has already
// started. Create a new Runner for another run.
var ErrAlreadyRun = errors.New("runner has already been run")

// State is the lifecycle position of a Runner.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "not started"
	}
}

// FatalError reports a panic that escaped the run loop itself rather than a
// test body or a check.
type FatalError struct {
	Value any
	Stack []byte
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error during run: %s", assertions.ErrorMessage(e.Value))
}

func (e *FatalError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

type Config struct {
	// Observer receives progress events. Nil means no events.
	Observer Observer
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID generates the run identifier. Defaults to a random UUID.
	NewID func() string
}

type Runner struct {
	registry *registry.Registry
	observer Observer
	now      func() time.Time
	newID    func() string
	state    State
}

func NewRunner(reg *registry.Registry, cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if reg == nil {
		reg = registry.New()
	}

	r := &Runner{
		registry: reg,
		observer: cfg.Observer,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if r.observer == nil {
		r.observer = nullObserver{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r
}

// State returns the runner's lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// Run executes every registered suite and returns the report. Test and
// check failures are part of the report, not errors. The returned error is
// ErrAlreadyRun or a *FatalError.
func (r *Runner) Run(ctx context.Context) (rep *report.Report, err error) {
	if r.state != StateNotStarted {
		return nil, ErrAlreadyRun
	}
	r.state = StateRunning

	defer func() {
		r.state = StateCompleted
		if rec := recover(); rec != nil {
			rep = nil
			err = &FatalError{Value: rec, Stack: debug.Stack()}
		}
	}()

	start := r.now()
	run := report.Run{ID: r.newID(), StartedAt: start}

	suites := r.registry.Suites()
	for i, s := range suites {
		run.Suites = append(run.Suites, r.runSuite(ctx, i+1, len(suites), s))
	}

	run.Duration = r.now().Sub(start)
	return report.Build(run), nil
}

func (r *Runner) runSuite(ctx context.Context, pos, total int, s *registry.Suite) report.SuiteRun {
	r.observer.SuiteStarted(pos, total, s)

	result := report.SuiteRun{Index: s.Index, Name: s.Name}
	tests := s.Tests()
	passed := 0
	for i, t := range tests {
		r.observer.TestStarted(i+1, len(tests), t)

		tr := r.runTest(ctx, t)
		if tr.Passed() {
			passed++
		}
		result.Tests = append(result.Tests, tr)

		r.observer.TestFinished(t, &tr)
	}

	r.observer.SuiteFinished(s, passed, len(tests))
	return result
}

func (r *Runner) runTest(ctx context.Context, t *registry.Test) report.TestRun {
	checks := assertions.NewChecks()
	result := report.TestRun{Name: t.Name}
	start := r.now()

	if err := callBody(ctx, t.Body, checks); err != nil {
		result.BodyFailed = true
		result.Error = collapseLines(err.Error())
		r.observer.TestErrored(t, result.Error)
	} else {
		checks.EvaluateAll(func(c *assertions.Check) {
			r.observer.CheckFailed(t, c)
		})
	}

	result.Checks = checks.All()
	result.Duration = r.now().Sub(start)
	return result
}

// callBody runs a test body, turning a panic into an error.
func callBody(ctx context.Context, body registry.Body, checks *assertions.Checks) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New(assertions.ErrorMessage(rec))
		}
	}()

	if body == nil {
		return errors.New("test has no body")
	}
	return body(ctx, checks)
}

func collapseLines(message string) string {
	return strings.Join(strings.Split(message, "\n"), "; ")
}
