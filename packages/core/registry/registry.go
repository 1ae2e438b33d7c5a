package registry

import (
	"context"
	"errors"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
)

// ErrNoOpenSuite is returned by Registry.Test when no suite is open.
var ErrNoOpenSuite = errors.New("no open suite: register tests from inside a Suite callback")

// Body is a test body. It registers checks on c and fails by returning an
// error or panicking.
type Body func(ctx context.Context, c *assertions.Checks) error

// Test is a named unit registered in a suite.
type Test struct {
	Name string
	Body Body
}

// Suite is a named ordered group of tests.
type Suite struct {
	Index int
	Name  string
	tests []*Test
}

// Test appends a test to the suite and returns it.
func (s *Suite) Test(name string, body Body) *Test {
	t := &Test{Name: name, Body: body}
	s.tests = append(s.tests, t)
	return t
}

// Tests returns the suite's tests in registration order.
func (s *Suite) Tests() []*Test {
	return s.tests
}

// Registry is an ordered collection of suites. It is not safe for
// concurrent use.
type Registry struct {
	suites  []*Suite
	current *Suite
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Suite opens a new suite, makes it the current one and runs register
// synchronously so it can add tests. The suite stays current until the next
// call to Suite.
func (r *Registry) Suite(name string, register func(s *Suite)) *Suite {
	s := &Suite{Index: len(r.suites), Name: name}
	r.suites = append(r.suites, s)
	r.current = s

	if register != nil {
		register(s)
	}
	return s
}

// Test appends a test to the currently open suite.
func (r *Registry) Test(name string, body Body) error {
	if r.current == nil {
		return ErrNoOpenSuite
	}
	r.current.Test(name, body)
	return nil
}

// Suites returns the registered suites in registration order.
func (r *Registry) Suites() []*Suite {
	return r.suites
}

// Len returns the number of registered suites.
func (r *Registry) Len() int {
	return len(r.suites)
}

// TestCount returns the number of tests across all suites.
func (r *Registry) TestCount() int {
	total := 0
	for _, s := range r.suites {
		total += len(s.tests)
	}
	return total
}

// Select returns a registry holding the suites for which keep returns true.
// Selected suites keep their original Index.
func (r *Registry) Select(keep func(s *Suite) bool) *Registry {
	selected := New()
	for _, s := range r.suites {
		if keep(s) {
			selected.suites = append(selected.suites, s)
		}
	}
	return selected
}
