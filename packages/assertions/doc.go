// Package assertions provides deferred checks for checkrun test bodies.
//
// A test body registers checks through an expectation builder:
//
//	c.Expect(user).ToContain(map[string]any{"name": "ada"})
//	assertions.That(c, total).ToEqual(3)
//	c.Expect(func() error { return parse("") }).ToThrow("empty input")
//
// Supported comparisons:
//   - contains: structural subset of an object
//   - equals / notEquals: deep equality
//   - strictEquals / notStrictEquals: identity for reference kinds, == otherwise
//   - throws: the value is a callable that returns an error or panics
//
// Registering a check never evaluates it. The runner evaluates every check
// after the body returns, in registration order.
package assertions
