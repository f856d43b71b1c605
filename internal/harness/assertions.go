package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/suiobject/internal/builtins"
	"github.com/roach88/suiobject/internal/object"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Where    string // Step or assertion that failed
	Check    string // Which expect field failed
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s mismatch\n", e.Where, e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks each assertion against obj and returns the
// failure messages.
func EvaluateAssertions(obj *object.Object, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		target := obj
		where := fmt.Sprintf("assertions[%d]", i)
		if a.Path != "" {
			target = obj.Path(a.Path)
			where = fmt.Sprintf("assertions[%d] (%s)", i, a.Path)
		}
		errs = append(errs, checkExpect(where, target, nil, a.Expect)...)
	}
	return errs
}

// checkExpect compares obj against every field set in e.
// A nil obj is treated as an empty container.
func checkExpect(where string, obj *object.Object, callErr error, e Expect) []string {
	var errs []string
	fail := func(check, expected, actual string) {
		errs = append(errs, (&AssertionError{
			Where:    where,
			Check:    check,
			Expected: expected,
			Actual:   actual,
		}).Error())
	}

	switch {
	case e.Error != "" && callErr == nil:
		fail("error", fmt.Sprintf("error containing %q", e.Error), "no error")
	case e.Error != "" && !strings.Contains(callErr.Error(), e.Error):
		fail("error", fmt.Sprintf("error containing %q", e.Error), callErr.Error())
	case e.Error == "" && callErr != nil:
		fail("error", "no error", callErr.Error())
	}

	if obj == nil {
		obj = object.New(nil)
	}

	if e.Kind != "" {
		if got := obj.Kind().String(); got != e.Kind {
			fail("kind", e.Kind, got)
		}
	}

	if e.String != nil {
		got, ok := obj.StringValue()
		switch {
		case !ok:
			fail("string", fmt.Sprintf("%q", *e.String), "no string value")
		case got != *e.String:
			fail("string", fmt.Sprintf("%q", *e.String), fmt.Sprintf("%q", got))
		}
	}

	if e.Keys != nil {
		got := namedKeys(obj)
		if !slices.Equal(got, e.Keys) {
			fail("keys", fmt.Sprintf("%v", e.Keys), fmt.Sprintf("%v", got))
		}
	}

	for _, k := range e.Has {
		if !obj.Has(k) {
			fail("has", fmt.Sprintf("key %q present", k), fmt.Sprintf("keys %v", obj.Keys()))
		}
	}

	if e.Count != nil {
		if got := countOf(obj); got != *e.Count {
			fail("count", fmt.Sprintf("%d", *e.Count), fmt.Sprintf("%d", got))
		}
	}

	if e.JSON != "" {
		data, err := obj.MarshalJSON()
		switch {
		case err != nil:
			fail("json", e.JSON, fmt.Sprintf("marshal error: %v", err))
		case string(data) != e.JSON:
			fail("json", e.JSON, string(data))
		}
	}

	return errs
}

// namedKeys returns the non-reserved keys in canonical order.
func namedKeys(obj *object.Object) []string {
	keys := []string{}
	for _, k := range obj.Keys() {
		if !object.IsReserved(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// countOf uses the count builtin so scenarios and invocations agree.
func countOf(obj *object.Object) int {
	fn, _ := builtins.Lookup("count")
	n, err := fn(obj)
	if err != nil {
		return -1
	}
	count, _ := n.(int)
	return count
}
