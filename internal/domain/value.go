package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a loosely-typed scalar taken from an observation: null, a number, or
// a string. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the missing-value marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload and true when v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the string payload and true when v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Category returns the label used to match v against fitted indicator columns.
// Numbers use their shortest decimal form ("1", "2.5"). Null has no category.
func (v Value) Category() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	default:
		return "", false
	}
}

func (v Value) String() string {
	if c, ok := v.Category(); ok {
		return c
	}
	return "null"
}

// UnmarshalJSON decodes a JSON scalar. Booleans become 1 or 0; arrays and
// objects are not scalars and decode as null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null()
		return nil
	}

	switch data[0] {
	case 'n', '{', '[':
		*v = Null()
	case 't':
		*v = Number(1)
	case 'f':
		*v = Number(0)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string value: %w", err)
		}
		*v = String(s)
	default:
		// Out-of-range literals decode to ±Inf.
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("decode numeric value %q: %w", data, err)
		}
		*v = Number(f)
	}
	return nil
}

// MarshalJSON encodes v as a JSON scalar. Non-finite numbers have no JSON form
// and encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}
