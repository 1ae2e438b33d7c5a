// Package runner executes the suites of a registry and assembles the report.
//
// Execution is strictly sequential: suites in registration order, tests in
// registration order within each suite. For every test the runner:
//   - creates a fresh check accumulator and calls the body with it
//   - on a returned error or panic marks the test failed and skips its checks
//   - otherwise evaluates every registered check in order
//
// Failures are contained where they happen: a failing check never stops its
// siblings and a failing body never stops the suite. Only a panic raised by
// the runner's own machinery aborts the run, surfacing as a *FatalError.
package runner
