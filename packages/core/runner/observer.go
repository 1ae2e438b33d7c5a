package runner

import (
	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
)

// Observer receives progress events while a run executes. Events arrive
// from the goroutine that called Run, in execution order.
type Observer interface {
	// SuiteStarted is called before the first test of a suite. pos is 1-based.
	SuiteStarted(pos, total int, s *registry.Suite)
	// TestStarted is called before a test body runs. pos is 1-based.
	TestStarted(pos, total int, t *registry.Test)
	// CheckFailed is called right after a check evaluates to false.
	CheckFailed(t *registry.Test, c *assertions.Check)
	// TestErrored is called when a body returns an error or panics.
	// message has newlines collapsed to "; ".
	TestErrored(t *registry.Test, message string)
	// TestFinished is called once the test's outcome is final.
	TestFinished(t *registry.Test, result *report.TestRun)
	// SuiteFinished is called after the last test of a suite.
	SuiteFinished(s *registry.Suite, passed, total int)
}

type nullObserver struct{}

func (nullObserver) SuiteStarted(int, int, *registry.Suite) {}
func (nullObserver) TestStarted(int, int, *registry.Test) {}
func (nullObserver) CheckFailed(*registry.Test, *assertions.Check) {}
func (nullObserver) TestErrored(*registry.Test, string) {}
func (nullObserver) TestFinished(*registry.Test, *report.TestRun) {}
func (nullObserver) SuiteFinished(*registry.Suite, int, int) {}
