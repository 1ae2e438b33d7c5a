// Package registry holds the suites and tests registered for a checkrun run.
//
// Suites are opened with Registry.Suite, whose callback registers tests
// synchronously, either on the suite handle or through Registry.Test which
// targets the currently open suite:
//
//	reg := registry.New()
//	reg.Suite("math", func(s *registry.Suite) {
//		s.Test("adds", func(ctx context.Context, c *assertions.Checks) error {
//			c.Expect(1 + 1).ToEqual(2)
//			return nil
//		})
//	})
//
// Registration order is preserved and is the order the runner executes in.
package registry
