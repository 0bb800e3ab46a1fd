package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Map is a decoded JSON object.
type Map map[string]Value

// ParseMap decodes a JSON document whose top-level value must be an object.
func ParseMap(data []byte) (Map, error) {
	v, err := Parse(bytes.TrimSpace(data))
	if err != nil {
		return nil, err
	}
	m, ok := v.AsMap()
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %s", v.Kind())
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// String returns the string stored under key, or "" if key is missing or
// not a string.
func (m Map) String(key string) string {
	s, _ := m[key].AsString()
	return s
}

// Int64 returns the integer stored under key, or 0.
func (m Map) Int64(key string) int64 {
	i, _ := m[key].AsInt64()
	return i
}

// Float64 returns the number stored under key, or 0.
func (m Map) Float64(key string) float64 {
	f, _ := m[key].AsFloat64()
	return f
}

// Bool returns the boolean stored under key, or false.
func (m Map) Bool(key string) bool {
	b, _ := m[key].AsBool()
	return b
}

// Map returns the nested object stored under key, or nil.
func (m Map) Map(key string) Map {
	nested, _ := m[key].AsMap()
	return nested
}

// Array returns the items stored under key, or nil.
func (m Map) Array(key string) []Value {
	items, _ := m[key].AsArray()
	return items
}

// Strings returns the string items of the array stored under key.
// Non-string items are skipped.
func (m Map) Strings(key string) []string {
	items := m.Array(key)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Interface converts m to a map of plain Go values.
func (m Map) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMap(data)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

var _ json.Unmarshaler = (*Map)(nil)
