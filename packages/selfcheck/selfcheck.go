// Package selfcheck registers suites that exercise checkrun against itself.
// The bundled binary runs them, so they double as usage examples.
package selfcheck

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
)

// Register adds suites that pass.
func Register(reg *registry.Registry) {
	reg.Suite("equality", func(s *registry.Suite) {
		s.Test("deep equality compares structure", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(map[string]any{"a": []int{1, 2}}).ToEqual(map[string]any{"a": []int{1, 2}})
			c.Expect([]string{"x"}).ToNotEqual([]string{"y"})
			return nil
		})

		s.Test("strict equality compares identity", func(_ context.Context, c *assertions.Checks) error {
			shared := &struct{ n int }{n: 1}
			copied := &struct{ n int }{n: 1}
			assertions.That(c, shared).ToStrictEqual(shared)
			assertions.That(c, shared).ToNotStrictEqual(copied)
			assertions.That(c, "abc").ToStrictEqual("abc")
			return nil
		})
	})

	reg.Suite("containment", func(s *registry.Suite) {
		s.Test("subset of an object", func(_ context.Context, c *assertions.Checks) error {
			type user struct {
				Name  string   `json:"name"`
				Roles []string `json:"roles"`
				Age   int      `json:"age"`
			}
			c.Expect(user{Name: "ada", Roles: []string{"admin"}, Age: 36}).
				ToContain(map[string]any{"name": "ada", "roles": []string{"admin"}})
			return nil
		})
	})

	reg.Suite("errors", func(*registry.Suite) {
		_ = reg.Test("returned errors are raised", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(func() error {
				_, err := strconv.Atoi("seven")
				return err
			}).ToThrow(`strconv.Atoi: parsing "seven": invalid syntax`)
			return nil
		})

		_ = reg.Test("panics are raised", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(func() {
				var m map[string]int
				m["x"] = 1
			}).ToThrow("assignment to entry in nil map")
			return nil
		})
	})

	reg.Suite("empty suites pass", nil)
}

// RegisterFailing adds suites that fail in every way a test can: a failing
// check, a body returning an error and a body that panics.
func RegisterFailing(reg *registry.Registry) {
	reg.Suite("failing", func(s *registry.Suite) {
		s.Test("one failing check out of three", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(map[string]any{"a": 1}).ToContain(map[string]any{"a": 1})
			c.Expect(1).ToNotEqual(2)
			c.Expect(1).ToEqual(2)
			return nil
		})

		s.Test("body returns an error", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(1).ToEqual(1)
			return errors.New("setup failed\nconnection refused")
		})

		s.Test("body panics", func(context.Context, *assertions.Checks) error {
			panic(fmt.Sprintf("unexpected state %d", 42))
		})

		s.Test("callable does not raise", func(_ context.Context, c *assertions.Checks) error {
			c.Expect(func() error { return nil }).ToThrow()
			return nil
		})
	})
}
