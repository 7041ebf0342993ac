package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindSentinel is a placeholder token such as <NODEFAULTVALUE>
	KindSentinel Kind = iota
	// KindBool is a boolean value
	KindBool
	// KindInt is an integer value
	KindInt
	// KindString is a string value
	KindString
)

// Sentinel tokens used in place of a real value.
const (
	SentinelError     = "<ERROR>"
	SentinelNoDefault = "<NODEFAULTVALUE>"
	SentinelInvalid   = "<PREF_INVALID>"
	SentinelUnknown   = "<PREF_UNKNOWN>"
)

var sentinels = map[string]bool{
	SentinelError:     true,
	SentinelNoDefault: true,
	SentinelInvalid:   true,
	SentinelUnknown:   true,
}

// Value is the value of a preference: a bool, an integer, a string or a
// sentinel token. The zero Value is the <ERROR> sentinel.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NoDefault is the Value used when a preference has no default.
func NoDefault() Value { return Value{kind: KindSentinel, s: SentinelNoDefault} }

// InvalidValue is the Value of a preference whose type is <PREF_INVALID>.
func InvalidValue() Value { return Value{kind: KindSentinel, s: SentinelInvalid} }

// UnknownValue is the Value of a preference whose type is <PREF_UNKNOWN>.
func UnknownValue() Value { return Value{kind: KindSentinel, s: SentinelUnknown} }

// ErrorValue is the Value used when reading a preference went wrong.
func ErrorValue() Value { return Value{kind: KindSentinel, s: SentinelError} }

// SentinelFor returns the sentinel Value matching an error type.
func SentinelFor(t Type) Value {
	if t == TypeInvalid {
		return InvalidValue()
	}
	return UnknownValue()
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsSentinel reports whether v is a placeholder token.
func (v Value) IsSentinel() bool {
	return v.kind == KindSentinel
}

// Bool returns the boolean held by v and whether v is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int returns the integer held by v and whether v is an integer.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Str returns the string held by v and whether v is a string. Sentinels are
// not strings.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// String renders v as text.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	default:
		if v.s == "" {
			return SentinelError
		}
		return v.s
	}
}

// MarshalJSON encodes v as a bare JSON bool, number or string.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var err error
	switch v.kind {
	case KindBool:
		err = enc.Encode(v.b)
	case KindInt:
		err = enc.Encode(v.i)
	default:
		err = enc.Encode(v.String())
	}
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a JSON bool, integer or string. Strings equal to a
// sentinel token decode to that sentinel.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*v = BoolValue(true)
	case bytes.Equal(data, []byte("false")):
		*v = BoolValue(false)
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode string value: %w", err)
		}
		if sentinels[s] {
			*v = Value{kind: KindSentinel, s: s}
		} else {
			*v = StringValue(s)
		}
	default:
		i, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("unsupported preference value %s", data)
		}
		*v = IntValue(i)
	}
	return nil
}

// Equal reports whether v and o hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	default:
		return v.String() == o.String()
	}
}
