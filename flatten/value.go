package flatten

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindUint64
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
)

var kindNames = [...]string{
	KindNull:    "null",
	KindString:  "string",
	KindUint64:  "u64",
	KindInt64:   "i64",
	KindFloat32: "f32",
	KindFloat64: "f64",
	KindBool:    "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a snapshot of a single JSON leaf. The zero Value is null.
//
// A string Value may be borrowed, meaning it aliases the input buffer and is
// only valid for the duration of the visitor callback that received it. Use
// Owned to keep it longer.
type Value struct {
	kind     Kind
	borrowed bool
	str      string
	bits     uint64
}

// String returns an owned string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// BorrowedString returns a string value that aliases memory owned by the
// event source.
func BorrowedString(s string) Value {
	return Value{kind: KindString, str: s, borrowed: true}
}

func Uint64(v uint64) Value {
	return Value{kind: KindUint64, bits: v}
}

func Int64(v int64) Value {
	return Value{kind: KindInt64, bits: uint64(v)}
}

func Float32(v float32) Value {
	return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))}
}

func Float64(v float64) Value {
	return Value{kind: KindFloat64, bits: math.Float64bits(v)}
}

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

func Null() Value {
	return Value{}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Borrowed reports whether a string value aliases the input buffer.
func (v Value) Borrowed() bool {
	return v.borrowed
}

// Owned returns v with any borrowed string copied into fresh memory.
func (v Value) Owned() Value {
	if !v.borrowed {
		return v
	}
	return String(strings.Clone(v.str))
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsUint64() (uint64, bool) {
	return v.bits, v.kind == KindUint64
}

func (v Value) AsInt64() (int64, bool) {
	return int64(v.bits), v.kind == KindInt64
}

func (v Value) AsFloat32() (float32, bool) {
	return math.Float32frombits(uint32(v.bits)), v.kind == KindFloat32
}

func (v Value) AsFloat64() (float64, bool) {
	return math.Float64frombits(v.bits), v.kind == KindFloat64
}

func (v Value) AsBool() (bool, bool) {
	return v.bits != 0, v.kind == KindBool
}

// Interface returns the value as a plain Go value: string, uint64, int64,
// float32, float64, bool or nil. Borrowed strings are returned as is.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindUint64:
		return v.bits
	case KindInt64:
		return int64(v.bits)
	case KindFloat32:
		return math.Float32frombits(uint32(v.bits))
	case KindFloat64:
		return math.Float64frombits(v.bits)
	case KindBool:
		return v.bits != 0
	default:
		return nil
	}
}

// String renders the natural textual form of the value. Floats use the
// shortest decimal form that round-trips, without exponent.
//
// Null renders as the empty string, which makes it indistinguishable from an
// empty string leaf. Consumers that need the difference must check Kind.
func (v Value) String() string {
	return string(v.AppendText(nil))
}

// AppendText appends the String form of v to b.
func (v Value) AppendText(b []byte) []byte {
	switch v.kind {
	case KindString:
		return append(b, v.str...)
	case KindUint64:
		return strconv.AppendUint(b, v.bits, 10)
	case KindInt64:
		return strconv.AppendInt(b, int64(v.bits), 10)
	case KindFloat32:
		return strconv.AppendFloat(b, float64(math.Float32frombits(uint32(v.bits))), 'f', -1, 32)
	case KindFloat64:
		return strconv.AppendFloat(b, math.Float64frombits(v.bits), 'f', -1, 64)
	case KindBool:
		return strconv.AppendBool(b, v.bits != 0)
	default:
		return b
	}
}

// MarshalJSON renders v as a JSON scalar; null stays null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNull:
		return []byte("null"), nil
	case KindFloat32, KindFloat64:
		f := v.Interface()
		var x float64
		if v.kind == KindFloat32 {
			x = float64(f.(float32))
		} else {
			x = f.(float64)
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &json.UnsupportedValueError{Str: v.String()}
		}
		return v.AppendText(nil), nil
	default:
		return v.AppendText(nil), nil
	}
}
