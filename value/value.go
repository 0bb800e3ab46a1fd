// Package value provides a tagged representation of decoded JSON payloads.
//
// Numbers are kept as json.Number so integers and decimals survive a
// decode/encode cycle without being coerced to float64.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one of Null, Bool, Number, String, Array or Map.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    json.Number
	s    string
	a    []Value
	m    Map
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a JSON number literal.
func Number(n json.Number) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer.
func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

// Float wraps a floating point number.
func Float(f float64) Value { return Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64))) }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a sequence of values.
func Array(items ...Value) Value { return Value{kind: KindArray, a: items} }

// Object wraps a mapping.
func Object(m Map) Value { return Value{kind: KindMap, m: m} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the number literal held by v.
func (v Value) AsNumber() (json.Number, bool) { return v.n, v.kind == KindNumber }

// AsInt64 returns v as an integer. Fails for non-numbers and for numbers
// that are not integral or do not fit into int64.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := v.n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// AsFloat64 returns v as a float.
func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsArray returns the items held by v.
func (v Value) AsArray() ([]Value, bool) { return v.a, v.kind == KindArray }

// AsMap returns the mapping held by v.
func (v Value) AsMap() (Map, bool) { return v.m, v.kind == KindMap }

// String returns the canonical text form of v: strings as-is, numbers as
// their literal, booleans as true/false, null as the empty string and
// composite values as JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Interface converts v back to plain Go values: nil, bool, json.Number,
// string, []interface{} and map[string]interface{}.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		items := make([]interface{}, len(v.a))
		for i, item := range v.a {
			items[i] = item.Interface()
		}
		return items
	case KindMap:
		return v.m.Interface()
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.n == "" {
			return []byte("0"), nil
		}
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		if v.a == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.a)
	case KindMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("unknown value kind: %s", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Parse decodes a single JSON document.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("unexpected data after top-level value")
	}
	return From(raw)
}

// From converts a Go value into a Value. Supported inputs are the types
// produced by encoding/json plus Value, Map, integers, floats, slices and
// string-keyed maps.
func From(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Map:
		return Object(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := From(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case map[string]interface{}:
		m := make(Map, len(t))
		for k, item := range t {
			v, err := From(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = v
		}
		return Object(m), nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return Null(), nil
		}
		return From(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(json.Number(strconv.FormatUint(rv.Uint(), 10))), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Slice, reflect.Array:
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := From(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("unsupported map key type: %s", rv.Type().Key())
		}
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := From(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			m[iter.Key().String()] = v
		}
		return Object(m), nil
	}

	return Value{}, fmt.Errorf("unsupported type: %T", raw)
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
