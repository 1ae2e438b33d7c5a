package assertions

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

// DeepEqual reports whether a and b are structurally equal. Types must
// match exactly; byte slices compare by content.
func DeepEqual[T any](a, b T) bool {
	return assert.ObjectsAreEqual(a, b)
}

// StrictEqual reports whether a and b are the same value in the identity
// sense. Maps, slices, pointers, funcs and channels compare by identity,
// comparable values by ==. Structs and arrays holding non-comparable values
// have no identity and are never strictly equal.
func StrictEqual[T any](a, b T) (equal bool) {
	av, bv := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Slice:
		return sameSlice(av, bv)
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	}

	if !av.Type().Comparable() {
		return false
	}
	// Interface fields can hold non-comparable values, which make == panic.
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return av.Interface() == bv.Interface()
}

// sameSlice reports whether two slices share the same backing array window.
// Non-nil slices with zero capacity all point at the same runtime address,
// so they have no identity and only two nil slices are identical.
func sameSlice(a, b reflect.Value) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}
	if a.Cap() == 0 || b.Cap() == 0 {
		return false
	}
	return a.Pointer() == b.Pointer() && a.Len() == b.Len() && a.Cap() == b.Cap()
}

// ContainsSubset reports whether every key of compare exists in value with
// a deep-equal value. Both sides are normalized through their JSON encoding,
// so numbers compare by magnitude and structs by their JSON field names.
func ContainsSubset(value, compare any) (bool, error) {
	subject, err := parseObject("value", value)
	if err != nil {
		return false, err
	}
	want, err := parseObject("compare", compare)
	if err != nil {
		return false, err
	}

	fields := subject.Map()
	contained := true
	want.ForEach(func(key, expected gjson.Result) bool {
		actual, ok := fields[key.String()]
		if !ok || !reflect.DeepEqual(actual.Value(), expected.Value()) {
			contained = false
			return false
		}
		return true
	})
	return contained, nil
}

func parseObject(role string, v any) (gjson.Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("cannot encode %s: %w", role, err)
	}
	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return gjson.Result{}, fmt.Errorf("toContain expects an object %s, got %s", role, string(data))
	}
	return result, nil
}

// outcome is the result of invoking a callable under test: either it
// returned normally or it raised with a message.
type outcome struct {
	raised  bool
	message string
}

// invoke calls fn and converts a returned error or a panic into an outcome
// instead of letting it escape.
func invoke(fn any) (outcome, error) {
	switch f := fn.(type) {
	case func() error:
		return capture(f), nil
	case func():
		return capture(func() error {
			f()
			return nil
		}), nil
	default:
		return outcome{}, fmt.Errorf("toThrow expects func() or func() error, got %T", fn)
	}
}

func capture(f func() error) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{raised: true, message: ErrorMessage(r)}
		}
	}()

	if err := f(); err != nil {
		return outcome{raised: true, message: err.Error()}
	}
	return outcome{}
}
