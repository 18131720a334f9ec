package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_Set(t *testing.T) {
	t.Run("appends new keys in insertion order", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("c", 3)
		m.Set("a", 1)
		m.Set("b", 2)

		assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
		assert.Equal(t, []int{3, 1, 2}, m.Values())
	})

	t.Run("updating an existing key keeps its position", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)
		m.Set("a", 10)

		assert.Equal(t, []string{"a", "b"}, m.Keys())
		assert.Equal(t, []int{10, 2}, m.Values())
		assert.Equal(t, 2, m.Len())
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var m OrderedMap[string, string]
		m.Set("k", "v")

		val, ok := m.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v", val)
	})
}

func TestOrderedMap_Get(t *testing.T) {
	t.Run("present key", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("a", 1)

		val, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, val)
	})

	t.Run("missing key returns zero value", func(t *testing.T) {
		m := NewOrderedMap[string, int]()

		val, ok := m.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
		assert.False(t, m.Has("missing"))
	})
}

func TestOrderedMap_All(t *testing.T) {
	t.Run("iterates in insertion order", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("x", 1)
		m.Set("y", 2)
		m.Set("z", 3)

		var (
			keys []string
			vals []int
		)
		for k, v := range m.All() {
			keys = append(keys, k)
			vals = append(vals, v)
		}

		assert.Equal(t, []string{"x", "y", "z"}, keys)
		assert.Equal(t, []int{1, 2, 3}, vals)
	})

	t.Run("stops when yield returns false", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("x", 1)
		m.Set("y", 2)

		var count int
		for range m.All() {
			count++
			break
		}

		assert.Equal(t, 1, count)
	})
}

func TestOrderedMap_JSON(t *testing.T) {
	t.Run("marshals members in insertion order", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("z", 26)
		m.Set("a", 1)
		m.Set("m", 13)

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"z":26,"a":1,"m":13}`, string(data))
		assert.Equal(t, `{"z":26,"a":1,"m":13}`, string(data))
	})

	t.Run("empty map marshals to an empty object", func(t *testing.T) {
		m := NewOrderedMap[string, int]()

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})

	t.Run("unmarshal preserves document order", func(t *testing.T) {
		var m OrderedMap[string, int]
		err := json.Unmarshal([]byte(`{"b":2,"c":3,"a":1}`), &m)
		require.NoError(t, err)

		assert.Equal(t, []string{"b", "c", "a"}, m.Keys())
		assert.Equal(t, []int{2, 3, 1}, m.Values())
	})

	t.Run("round trip keeps ordering intact", func(t *testing.T) {
		m := NewOrderedMap[string, string]()
		m.Set("third", "3")
		m.Set("first", "1")
		m.Set("second", "2")

		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded OrderedMap[string, string]
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, m.Keys(), decoded.Keys())
		assert.Equal(t, m.Values(), decoded.Values())
	})

	t.Run("unmarshal of null leaves the map unchanged", func(t *testing.T) {
		m := NewOrderedMap[string, int]()
		m.Set("a", 1)

		require.NoError(t, json.Unmarshal([]byte(`null`), m))
		assert.Equal(t, []string{"a"}, m.Keys())
	})

	t.Run("unmarshal rejects non-object payloads", func(t *testing.T) {
		var m OrderedMap[string, int]
		assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &m))
	})

	t.Run("decodes struct values", func(t *testing.T) {
		type payload struct {
			Label string `json:"label"`
		}

		var m OrderedMap[string, payload]
		err := json.Unmarshal([]byte(`{"one":{"label":"uno"},"two":{"label":"dos"}}`), &m)
		require.NoError(t, err)

		val, ok := m.Get("two")
		require.True(t, ok)
		assert.Equal(t, "dos", val.Label)
		assert.Equal(t, []string{"one", "two"}, m.Keys())
	})
}
