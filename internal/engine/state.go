package engine

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Kind enumerates the closed set of value types an engine may store.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
	KindMap
)

// Value is a single engine state value. The zero value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	b    bool
	list []Value
	m    *State
}

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer value.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List wraps a sequence of values.
func List(values ...Value) Value { return Value{kind: KindList, list: values} }

// Map wraps a nested state map.
func Map(state *State) Value { return Value{kind: KindMap, m: state} }

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string content and whether the value holds one.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsInt returns the integer content and whether the value holds one.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInt }

// AsBool returns the boolean content and whether the value holds one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsList returns the sequence content and whether the value holds one.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the nested map and whether the value holds one.
func (v Value) AsMap() (*State, bool) { return v.m, v.kind == KindMap }

// MarshalJSON encodes the value as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return v.m.MarshalJSON()
	}
	return nil, errors.Newf("unknown state value kind %d", v.kind)
}

// UnmarshalJSON decodes any of the supported JSON forms. Numbers must be
// integral; floats are rejected to keep serialization deterministic.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty state value")
	}

	switch trimmed[0] {
	case '"':
		v.kind = KindString
		return json.Unmarshal(trimmed, &v.str)
	case 't', 'f':
		v.kind = KindBool
		return json.Unmarshal(trimmed, &v.b)
	case '[':
		v.kind = KindList
		v.list = nil
		return json.Unmarshal(trimmed, &v.list)
	case '{':
		state := NewState()
		if err := state.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		v.kind = KindMap
		v.m = state
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return errors.Wrap(err, "invalid state value")
		}
		i, err := num.Int64()
		if err != nil {
			return errors.Wrapf(err, "non-integral state value %q", num)
		}
		v.kind = KindInt
		v.num = i
		return nil
	}
}

// State is an ordered mapping from string keys to Values. Iteration and
// serialization follow insertion order, so a round trip through JSON is
// byte-stable.
type State struct {
	keys   []string
	values map[string]Value
}

// NewState creates an empty state map.
func NewState() *State {
	return &State{values: make(map[string]Value)}
}

// Set stores a value, appending the key on first insertion.
func (s *State) Set(key string, value Value) *State {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// Get returns the value for key and whether it is present.
func (s *State) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s *State) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Len returns the number of entries.
func (s *State) Len() int { return len(s.keys) }

// MarshalJSON encodes the map as a JSON object in insertion order.
func (s *State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := s.values[key].MarshalJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (s *State) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "invalid state")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("state must be a JSON object")
	}

	if s.values == nil {
		s.values = make(map[string]Value)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "invalid state key")
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "key %q", key)
		}
		var value Value
		if err := value.UnmarshalJSON(raw); err != nil {
			return errors.Wrapf(err, "key %q", key)
		}
		s.Set(key, value)
	}

	_, err = dec.Token() // closing brace
	return err
}
