package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateInsertionOrderPreserved(t *testing.T) {
	state := NewState().
		Set("zeta", Int(1)).
		Set("alpha", Int(2)).
		Set("mid", Int(3))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, state.Keys())

	// Overwriting keeps the original position.
	state.Set("alpha", Int(9))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, state.Keys())
	v, ok := state.Get("alpha")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(9), i)
}

func TestStateMarshalOrder(t *testing.T) {
	state := NewState().
		Set("url", String("https://example.org")).
		Set("private", Bool(true)).
		Set("zoom", Int(125))

	data, err := state.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"url":"https://example.org","private":true,"zoom":125}`, string(data))
}

func TestStateRoundTrip(t *testing.T) {
	nested := NewState().Set("x", Int(10)).Set("y", Int(20))
	state := NewState().
		Set("url", String("https://example.org")).
		Set("private", Bool(false)).
		Set("history", List(String("a"), String("b"))).
		Set("scroll", Map(nested))

	data, err := state.MarshalJSON()
	require.NoError(t, err)

	decoded := NewState()
	require.NoError(t, decoded.UnmarshalJSON(data))

	redata, err := decoded.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(redata), "round trip must be byte-stable")

	v, ok := decoded.Get("history")
	require.True(t, ok)
	list, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, list, 2)
	first, _ := list[0].AsString()
	assert.Equal(t, "a", first)

	v, ok = decoded.Get("scroll")
	require.True(t, ok)
	m, ok := v.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, m.Keys())
}

func TestValueRejectsFloats(t *testing.T) {
	var v Value
	assert.Error(t, v.UnmarshalJSON([]byte("1.5")))
	assert.NoError(t, v.UnmarshalJSON([]byte("42")))
}

func TestValueKindAccessors(t *testing.T) {
	s, ok := String("hi").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = String("hi").AsInt()
	assert.False(t, ok)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)
}
