package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suiobject/internal/object"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Where:    "assertions[0]",
		Check:    "kind",
		Expected: "map",
		Actual:   "value",
	}
	assert.Equal(t, "assertions[0]: kind mismatch\n  Expected: map\n  Actual: value", err.Error())
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	obj := object.New(map[string]any{
		"name": "ada",
		"tags": []any{"a", "b"},
	})

	errs := EvaluateAssertions(obj, []Assertion{
		{Expect: Expect{Kind: "map", Keys: []string{"name", "tags"}, Count: intPtr(2)}},
		{Path: "name", Expect: Expect{Kind: "value", String: strPtr("ada"), JSON: `"ada"`}},
		{Path: "tags", Expect: Expect{Kind: "array", Count: intPtr(2)}},
		{Path: "missing", Expect: Expect{Kind: "empty", Count: intPtr(0)}},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	obj := object.New(map[string]any{"n": 1})

	errs := EvaluateAssertions(obj, []Assertion{
		{Expect: Expect{Has: []string{"n", "m"}}},
		{Expect: Expect{Keys: []string{"m"}}},
		{Path: "n", Expect: Expect{String: strPtr("1")}},
		{Expect: Expect{JSON: `{"n":2}`}},
	})
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], `assertions[0]: has mismatch`)
	assert.Contains(t, errs[0], `key "m" present`)
	assert.Contains(t, errs[1], "keys mismatch")
	assert.Contains(t, errs[2], "assertions[2] (n): string mismatch")
	assert.Contains(t, errs[2], "no string value")
	assert.Contains(t, errs[3], `Actual: {"n":1}`)
}

func TestCheckExpect_Errors(t *testing.T) {
	boom := errors.New("boom: bad input")

	assert.Empty(t, checkExpect("s", nil, boom, Expect{Error: "bad input"}))

	errs := checkExpect("s", nil, boom, Expect{Error: "other"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "boom: bad input")

	errs = checkExpect("s", object.New("x"), nil, Expect{Error: "boom"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: no error")
}

func TestCheckExpect_NilObjectIsEmpty(t *testing.T) {
	assert.Empty(t, checkExpect("s", nil, nil, Expect{Kind: "empty", Keys: []string{}, Count: intPtr(0)}))
}
