package canonical

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, `null`},
		{"true", true, `true`},
		{"false", false, `false`},
		{"int", 42, `42`},
		{"negative int64", int64(-7), `-7`},
		{"uint8", uint8(255), `255`},
		{"integral float", 3.0, `3`},
		{"fraction", 1.5, `1.5`},
		{"large float", 1e21, `1e+21`},
		{"small float", 1e-7, `1e-7`},
		{"json number int", json.Number("12"), `12`},
		{"json number float", json.Number("0.25"), `0.25`},
		{"string", "hello", `"hello"`},
		{"html not escaped", "<a&b>", `"<a&b>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_SortsKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"b": 1,
		"a": []any{"x", nil},
		"c": map[string]any{"z": true, "y": false},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x",null],"b":1,"c":{"y":false,"z":true}}`, string(got))
}

func TestMarshal_NFCNormalizes(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9.
	got, err := Marshal("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshal_LineSeparatorsUnescaped(t *testing.T) {
	got, err := Marshal("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))
}

func TestMarshal_RejectsNonFinite(t *testing.T) {
	_, err := Marshal(math.NaN())
	assert.Error(t, err)

	_, err = Marshal(map[string]any{"x": math.Inf(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `value for key "x"`)
}

func TestMarshal_FallsBackThroughEncodingJSON(t *testing.T) {
	type point struct {
		Y int `json:"y"`
		X int `json:"x"`
	}
	got, err := Marshal(point{Y: 2, X: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"x":1,"y":2}`, string(got))
}

func TestCompareKeys_UTF16Order(t *testing.T) {
	// U+FF5E sorts before U+1F600 in UTF-8 but after it in UTF-16.
	keys := SortedKeys(map[string]int{"\U0001F600": 1, "\uFF5E": 2})
	assert.Equal(t, []string{"\U0001F600", "\uFF5E"}, keys)
}

func TestSnapshotID_Deterministic(t *testing.T) {
	a, err := SnapshotID(map[string]any{"a": 1, "b": "two"})
	require.NoError(t, err)
	b, err := SnapshotID(map[string]any{"b": "two", "a": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c, err := SnapshotID(map[string]any{"a": 2, "b": "two"})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestInvocationID_DomainSeparated(t *testing.T) {
	inv, err := InvocationID("upper", "x", 1)
	require.NoError(t, err)
	snap, err := SnapshotID(map[string]any{"function": "upper", "arg": "x", "seq": int64(1)})
	require.NoError(t, err)
	assert.NotEqual(t, inv, snap)
}
