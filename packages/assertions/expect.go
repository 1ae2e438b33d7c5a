package assertions

// Checks accumulates the checks registered while one test body runs. The
// runner creates a fresh Checks per test and hands it to the body by
// reference; the body registers checks through Expect or That and the
// runner evaluates them after the body returns.
type Checks struct {
	list []*Check
}

// NewChecks returns an empty accumulator.
func NewChecks() *Checks {
	return &Checks{}
}

// Expect starts an expectation on value.
func (c *Checks) Expect(value any) *Builder[any] {
	return That(c, value)
}

// All returns the registered checks in registration order.
func (c *Checks) All() []*Check {
	return c.list
}

// Len returns the number of registered checks.
func (c *Checks) Len() int {
	return len(c.list)
}

// EvaluateAll evaluates every registered check in order and reports whether
// all of them passed. onFail, if set, is called for each failing check
// right after it is evaluated.
func (c *Checks) EvaluateAll(onFail func(*Check)) bool {
	passed := true
	for _, check := range c.list {
		if !check.Evaluate() {
			passed = false
			if onFail != nil {
				onFail(check)
			}
		}
	}
	return passed
}

func (c *Checks) add(kind Kind, expected, actual any, eval func(*Check) (bool, error)) {
	c.list = append(c.list, &Check{
		Kind:     kind,
		Expected: expected,
		Actual:   actual,
		eval:     eval,
	})
}

// Builder exposes the assertion methods for one value under test. Every
// method registers exactly one Check and evaluates nothing.
type Builder[T any] struct {
	checks *Checks
	value  T
}

// That starts a typed expectation on value, so the comparison argument of
// ToEqual and friends is checked at compile time.
func That[T any](c *Checks, value T) *Builder[T] {
	return &Builder[T]{checks: c, value: value}
}

// ToContain passes when every key of compare is present in the value with
// an equal value.
func (b *Builder[T]) ToContain(compare any) {
	value := b.value
	b.checks.add(KindContains, compare, value, func(*Check) (bool, error) {
		return ContainsSubset(value, compare)
	})
}

// ToEqual passes when the value deep-equals compare.
func (b *Builder[T]) ToEqual(compare T) {
	value := b.value
	b.checks.add(KindEquals, compare, value, func(*Check) (bool, error) {
		return DeepEqual(value, compare), nil
	})
}

// ToStrictEqual passes when the value is identical to compare.
func (b *Builder[T]) ToStrictEqual(compare T) {
	value := b.value
	b.checks.add(KindStrictEquals, compare, value, func(*Check) (bool, error) {
		return StrictEqual(value, compare), nil
	})
}

// ToNotEqual passes when the value does not deep-equal compare.
func (b *Builder[T]) ToNotEqual(compare T) {
	value := b.value
	b.checks.add(KindNotEquals, compare, value, func(*Check) (bool, error) {
		return !DeepEqual(value, compare), nil
	})
}

// ToNotStrictEqual passes when the value is not identical to compare.
func (b *Builder[T]) ToNotStrictEqual(compare T) {
	value := b.value
	b.checks.add(KindNotStrictEquals, compare, value, func(*Check) (bool, error) {
		return !StrictEqual(value, compare), nil
	})
}

// ToThrow treats the value as a func() or func() error and passes when
// calling it returns an error or panics. With a message argument the raised
// message must also match it. The raised message replaces the check's
// actual value whether or not the check passes.
func (b *Builder[T]) ToThrow(message ...string) {
	value := any(b.value)
	var expected any
	if len(message) > 0 {
		expected = message[0]
	}
	b.checks.add(KindThrows, expected, value, func(c *Check) (bool, error) {
		out, err := invoke(value)
		if err != nil {
			return false, err
		}
		if !out.raised {
			return false, nil
		}
		c.Actual = out.message
		return len(message) == 0 || out.message == message[0], nil
	})
}
