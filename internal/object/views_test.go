package object

import (
	"testing"

	"github.com/roach88/suiobject/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_RebuildsNamedValueSet(t *testing.T) {
	o := New([]byte(`{"name":"ada","tags":["a","b"],"nested":{"x":1}}`))

	rebuilt := New(o.All())

	assert.Equal(t, o.Keys(), rebuilt.Keys())

	name, ok := rebuilt.Get("name").StringValue()
	require.True(t, ok)
	assert.Equal(t, "ada", name)
	assert.Len(t, rebuilt.Get("tags").Array(), 2)

	x, ok := ValueAs[int64](rebuilt.Path("nested.x"))
	require.True(t, ok)
	assert.Equal(t, int64(1), x)
}

func TestAll_EmptyKeyGetsGeneratedID(t *testing.T) {
	gen := testutil.NewFixedIDGenerator("key")
	o := New(map[string]any{"": "anonymous", "named": 1}, WithIDGenerator(gen))

	all := o.All()

	require.Contains(t, all, "key-1")
	assert.NotContains(t, all, "")
	got, _ := all["key-1"].StringValue()
	assert.Equal(t, "anonymous", got)
}

func TestAll_DefaultIDIsUUID(t *testing.T) {
	o := New(map[string]any{"": "anonymous"})

	all := o.All()

	require.Len(t, all, 1)
	for k := range all {
		assert.Len(t, k, 36)
	}
}

func TestAll_ExpandsContainers(t *testing.T) {
	o := New(nil)
	o.AddChild(New(map[string]any{"a": "b"}))
	o.Add("list", []*Object{New(1), New(2)})

	all := o.All()

	got, ok := all[ObjectKey].Get("a").StringValue()
	require.True(t, ok)
	assert.Equal(t, "b", got)
	assert.Len(t, all["list"].Array(), 2)
}

func TestAll_InheritsSettings(t *testing.T) {
	gen := testutil.NewFixedIDGenerator("inherited")
	o := New(map[string]any{"inner": map[string]any{"": "v"}}, WithIDGenerator(gen))

	inner := o.All()["inner"].All()

	assert.Contains(t, inner, "inherited-1")
}

func TestArray_NonSequenceIsEmpty(t *testing.T) {
	o := New(nil)
	o.Add(ArrayKey, "not a sequence")

	assert.Empty(t, o.Array())
	assert.Empty(t, New("x").Array())
}

func TestArray_BytesElementsDecode(t *testing.T) {
	o := New([][]byte{[]byte(`{"a":1}`), []byte(`[true]`)})

	elems := o.Array()
	require.Len(t, elems, 2)

	a, ok := ValueAs[int64](elems[0].Get("a"))
	require.True(t, ok)
	assert.Equal(t, int64(1), a)
	assert.Equal(t, KindArray, elems[1].Kind())
}

func TestChild_MissingOrWrongType(t *testing.T) {
	o := New(nil)
	assert.True(t, o.Child().IsEmpty())

	o.Add(ObjectKey, "not a container")
	assert.True(t, o.Child().IsEmpty())
}
