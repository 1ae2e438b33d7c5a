package assertions

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the comparison a Check performs.
type Kind int

const (
	KindContains Kind = iota
	KindEquals
	KindStrictEquals
	KindNotEquals
	KindNotStrictEquals
	KindThrows
)

var kindNames = map[Kind]string{
	KindContains:        "contains",
	KindEquals:          "equals",
	KindStrictEquals:    "strictEquals",
	KindNotEquals:       "notEquals",
	KindNotStrictEquals: "notStrictEquals",
	KindThrows:          "throws",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets a Kind appear as its name in JSON and XML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a Kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown check kind %q", string(text))
}

// Status is the evaluation state of a Check.
type Status int

const (
	StatusPending Status = iota
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Check is a single deferred assertion. It is created by a Builder method
// and evaluated later by the runner, exactly once.
type Check struct {
	Kind     Kind
	Expected any
	// Actual starts as the value under test. Evaluation may replace it with
	// a captured error message.
	Actual any
	Status Status

	eval func(c *Check) (bool, error)
}

// Passed reports whether the check has been evaluated and passed.
func (c *Check) Passed() bool {
	return c.Status == StatusPassed
}

// Evaluated reports whether the check has left the pending state.
func (c *Check) Evaluated() bool {
	return c.Status != StatusPending
}

// Evaluate runs the check's comparison and records the outcome. It never
// panics: evaluator errors and panics mark the check failed and store the
// message in Actual.
func (c *Check) Evaluate() (passed bool) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(ErrorMessage(r))
			passed = false
		}
	}()

	if c.eval == nil {
		c.fail("check has no evaluator")
		return false
	}

	ok, err := c.eval(c)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	if ok {
		c.Status = StatusPassed
	} else {
		c.Status = StatusFailed
	}
	return ok
}

func (c *Check) fail(message string) {
	c.Status = StatusFailed
	c.Actual = message
}

// Describe renders a value for diagnostics, preferring its JSON form.
func Describe(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// ErrorMessage extracts a message from an error or a recovered panic value.
func ErrorMessage(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
