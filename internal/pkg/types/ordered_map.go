package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// OrderedMap is a generic map that remembers the order in which keys were
// first inserted. Lookups are O(1) and iteration always replays insertion
// order, which makes results reproducible across runs, unlike Go's built-in
// map whose iteration order is randomized.
//
// Keys are constrained to string-like types so the map can be serialized as a
// JSON object. MarshalJSON emits entries in insertion order and UnmarshalJSON
// preserves the document order of the payload, so a round trip keeps the
// original ordering intact.
//
// The zero value is ready to use. OrderedMap is not safe for concurrent use.
type OrderedMap[K ~string, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K ~string, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		keys:   make([]K, 0),
		values: make(map[K]V),
	}
}

// Set associates val with key. Inserting a new key appends it to the
// iteration order; setting an existing key updates the value in place and
// keeps its original position.
func (m *OrderedMap[K, V]) Set(key K, val V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Get returns the value stored under key and whether the key was present.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	val, ok := m.values[key]
	return val, ok
}

// Has reports whether key is present in the map.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries in the map.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns a copy of the values in insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, len(m.keys))
	for _, key := range m.keys {
		values = append(values, m.values[key])
	}
	return values
}

// All returns an iterator over key/value pairs in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as a JSON object whose members appear in
// insertion order.
func (m *OrderedMap[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		encodedKey, err := json.Marshal(string(key))
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')

		encodedVal, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(encodedVal)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the map, recording keys in the
// order they appear in the document. Decoding into a non-empty map merges on
// top of the existing entries. A JSON null leaves the map unchanged.
func (m *OrderedMap[K, V]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("types: cannot unmarshal %v into OrderedMap", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("types: invalid OrderedMap key token %v", tok)
		}

		var val V
		if err := dec.Decode(&val); err != nil {
			return err
		}

		m.Set(K(key), val)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}
