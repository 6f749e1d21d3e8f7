package ds

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddRemove(t *testing.T) {
	s := NewStringSet("a", "b")

	require.True(t, s.Add("c"))
	require.False(t, s.Add("a"), "duplicate add must be a no-op")
	require.Equal(t, 3, s.Len())
	require.Equal(t, []string{"a", "b", "c"}, s.Values())

	s.Remove("b", "missing")
	require.Equal(t, []string{"a", "c"}, s.Values())
	require.False(t, s.Contains("b"))
}

func TestSet_RemoveFunc(t *testing.T) {
	s := NewSet(1, 2, 3, 4)
	s.RemoveFunc(func(v int) bool { return v%2 == 0 })
	require.Equal(t, []int{1, 3}, s.Values())
}

func TestSet_OrderSurvivesRemoval(t *testing.T) {
	s := NewStringSet("a", "b", "c", "d")
	s.Remove("b")
	s.Add("e")
	require.Equal(t, []string{"a", "c", "d", "e"}, s.Values())
}

func TestSet_ValuesIsACopy(t *testing.T) {
	s := NewStringSet("a", "b")
	vs := s.Values()
	vs[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, s.Values())
}

func TestSet_JSON(t *testing.T) {
	s := NewStringSet("b", "a")

	out, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `["b","a"]`, string(out))

	var decoded Set[string]
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, []string{"b", "a"}, decoded.Values())

	require.JSONEq(t, `[]`, mustMarshal(t, NewStringSet()))
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}
