package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) SuiteStarted(pos, total int, s *registry.Suite) {
	o.events = append(o.events, fmt.Sprintf("suite %d/%d %s", pos, total, s.Name))
}

func (o *recordingObserver) TestStarted(pos, total int, t *registry.Test) {
	o.events = append(o.events, fmt.Sprintf("test %d/%d %s", pos, total, t.Name))
}

func (o *recordingObserver) CheckFailed(t *registry.Test, c *assertions.Check) {
	o.events = append(o.events, fmt.Sprintf("check failed %s %s", t.Name, c.Kind))
}

func (o *recordingObserver) TestErrored(t *registry.Test, message string) {
	o.events = append(o.events, fmt.Sprintf("error %s: %s", t.Name, message))
}

func (o *recordingObserver) TestFinished(t *registry.Test, result *report.TestRun) {
	o.events = append(o.events, fmt.Sprintf("finished %s %v", t.Name, result.Passed()))
}

func (o *recordingObserver) SuiteFinished(s *registry.Suite, passed, total int) {
	o.events = append(o.events, fmt.Sprintf("suite done %s %d/%d", s.Name, passed, total))
}

func pass(_ context.Context, c *assertions.Checks) error {
	c.Expect(1).ToEqual(1)
	return nil
}

func fail(_ context.Context, c *assertions.Checks) error {
	c.Expect(1).ToEqual(2)
	return nil
}

func run(t *testing.T, reg *registry.Registry, observer Observer) *report.Report {
	t.Helper()
	r := NewRunner(reg, &Config{Observer: observer})
	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rep)
	return rep
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil, nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.observer)
		assert.NotNil(t, r.now)
		assert.Equal(t, StateNotStarted, r.State())
	})

	t.Run("with custom id", func(t *testing.T) {
		r := NewRunner(registry.New(), &Config{NewID: func() string { return "fixed" }})
		rep, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fixed", rep.RunID)
	})
}

func TestRunner_EmptySuiteIsVacuousPass(t *testing.T) {
	reg := registry.New()
	reg.Suite("empty", nil)

	rep := run(t, reg, nil)

	assert.True(t, rep.Pass)
	require.Len(t, rep.Suites, 1)
	assert.True(t, rep.Suites[0].Pass)
	assert.Equal(t, 0, rep.Suites[0].Total)
}

func TestRunner_TestWithoutChecksPasses(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("quiet", func(context.Context, *assertions.Checks) error { return nil })
	})

	rep := run(t, reg, nil)

	assert.True(t, rep.Suites[0].Tests[0].Pass)
	assert.Empty(t, rep.Suites[0].Tests[0].Checks)
}

func TestRunner_BodyErrorBeforeChecks(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("boom", func(context.Context, *assertions.Checks) error {
			return errors.New("line one\nline two")
		})
	})
	observer := &recordingObserver{}

	rep := run(t, reg, observer)

	test := rep.Suites[0].Tests[0]
	assert.False(t, test.Pass)
	assert.Len(t, test.Checks, 0)
	assert.Equal(t, "line one; line two", test.Error)
	assert.Contains(t, observer.events, "error boom: line one; line two")
	assert.False(t, rep.Pass)
}

func TestRunner_BodyErrorDropsRegisteredChecks(t *testing.T) {
	evaluated := false
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("late failure", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(func() error {
				evaluated = true
				return errors.New("x")
			}).ToThrow()
			return errors.New("body failed")
		})
	})

	rep := run(t, reg, nil)

	test := rep.Suites[0].Tests[0]
	assert.False(t, test.Pass)
	assert.Empty(t, test.Checks)
	assert.False(t, evaluated)
}

func TestRunner_BodyPanicIsContained(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("panics", func(context.Context, *assertions.Checks) error { panic("kaboom") })
		s.Test("after", pass)
	})
	reg.Suite("next", func(s *registry.Suite) {
		s.Test("still runs", pass)
	})

	rep := run(t, reg, nil)

	assert.Equal(t, "kaboom", rep.Suites[0].Tests[0].Error)
	assert.False(t, rep.Suites[0].Tests[0].Pass)
	assert.True(t, rep.Suites[0].Tests[1].Pass)
	assert.True(t, rep.Suites[1].Pass)
	assert.Equal(t, report.Counts{Success: 1, Failure: 1, Total: 2}, rep.Counts)
}

func TestRunner_NilBodyFails(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) { s.Test("nil", nil) })

	rep := run(t, reg, nil)

	assert.Equal(t, "test has no body", rep.Suites[0].Tests[0].Error)
}

func TestRunner_ChecksAreDeferredUntilBodyReturns(t *testing.T) {
	calls := 0
	var callsDuringBody int
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("deferred", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(func() { calls++; panic("raised") }).ToThrow("raised")
			callsDuringBody = calls
			return nil
		})
	})

	rep := run(t, reg, nil)

	assert.Equal(t, 0, callsDuringBody)
	assert.Equal(t, 1, calls)
	assert.True(t, rep.Suites[0].Tests[0].Pass)
	assert.Equal(t, "raised", rep.Suites[0].Tests[0].Checks[0].Actual)
}

func TestRunner_MixedChecks(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("two of three", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(map[string]any{"a": 1, "b": 2}).ToContain(map[string]any{"a": 1})
			c.Expect("x").ToNotEqual("y")
			c.Expect(3).ToEqual(4)
			return nil
		})
	})
	observer := &recordingObserver{}

	rep := run(t, reg, observer)

	test := rep.Suites[0].Tests[0]
	assert.False(t, test.Pass)
	assert.Equal(t, report.Counts{Success: 2, Failure: 1, Total: 3}, test.Counts)
	assert.Contains(t, observer.events, "check failed two of three equals")
}

func TestRunner_SuiteLevelCounts(t *testing.T) {
	reg := registry.New()
	reg.Suite("A", func(s *registry.Suite) {
		s.Test("a1", pass)
		s.Test("a2", pass)
		s.Test("a3", pass)
	})
	reg.Suite("B", func(s *registry.Suite) {
		s.Test("b1", pass)
		s.Test("b2", fail)
	})

	rep := run(t, reg, nil)

	assert.False(t, rep.Pass)
	assert.Equal(t, report.Counts{Success: 1, Failure: 1, Total: 2}, rep.Counts)
	assert.Equal(t, report.Counts{Success: 3, Failure: 0, Total: 3}, rep.Suites[0].Counts)
	assert.Equal(t, report.Counts{Success: 1, Failure: 1, Total: 2}, rep.Suites[1].Counts)
}

func TestRunner_EventOrder(t *testing.T) {
	reg := registry.New()
	reg.Suite("first", func(s *registry.Suite) {
		s.Test("ok", pass)
		s.Test("bad", fail)
	})
	reg.Suite("second", func(s *registry.Suite) {
		s.Test("ok2", pass)
	})
	observer := &recordingObserver{}

	rep := run(t, reg, observer)

	assert.Equal(t, []string{
		"suite 1/2 first",
		"test 1/2 ok",
		"finished ok true",
		"test 2/2 bad",
		"check failed bad equals",
		"finished bad false",
		"suite done first 1/2",
		"suite 2/2 second",
		"test 1/1 ok2",
		"finished ok2 true",
		"suite done second 1/1",
	}, observer.events)

	assert.Equal(t, 0, rep.Suites[0].Index)
	assert.Equal(t, 1, rep.Suites[1].Index)
	assert.Equal(t, "ok", rep.Suites[0].Tests[0].Name)
	assert.Equal(t, "bad", rep.Suites[0].Tests[1].Name)
}

func TestRunner_PassesContextToBody(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")
	var seen any

	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) {
		s.Test("ctx", func(ctx context.Context, _ *assertions.Checks) error {
			seen = ctx.Value(key{})
			return nil
		})
	})

	_, err := NewRunner(reg, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "value", seen)
}

func TestRunner_RunsOnce(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) { s.Test("t", pass) })
	r := NewRunner(reg, nil)

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, r.State())

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRun)

	again, err := NewRunner(reg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, again.Suites, 1)
	assert.Len(t, again.Suites[0].Tests[0].Checks, 1)
}

type panickingObserver struct {
	nullObserver
}

func (panickingObserver) SuiteFinished(*registry.Suite, int, int) {
	panic(errors.New("observer broke"))
}

func TestRunner_FatalErrorFromOrchestration(t *testing.T) {
	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) { s.Test("t", pass) })
	r := NewRunner(reg, &Config{Observer: panickingObserver{}})

	rep, err := r.Run(context.Background())

	assert.Nil(t, rep)
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.EqualError(t, err, "fatal error during run: observer broke")
	assert.NotEmpty(t, fatal.Stack)
	assert.Equal(t, StateCompleted, r.State())
}

func TestRunner_DurationsUseClock(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	now := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	reg := registry.New()
	reg.Suite("s", func(s *registry.Suite) { s.Test("t", pass) })

	rep, err := NewRunner(reg, &Config{Now: now}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01T00:00:00.001Z", rep.Name)
	assert.Equal(t, 1.0, rep.Suites[0].Tests[0].DurationMs)
	assert.Equal(t, 3.0, rep.DurationMs)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not started", StateNotStarted.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "completed", StateCompleted.String())
}
