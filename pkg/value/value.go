// Package value defines the tagged input type accepted by the scalable
// cuckoo filter and its canonical byte encoding.
//
// Filters never see host types directly. The host constructs a Value (either
// through the typed constructors or through the reflective From bridge), and
// the canonicalizer turns it into a stable byte sequence that is fed to the
// hash function. The encoding is part of the serialization contract: two
// processes that canonicalize the same logical input must produce the same
// bytes, forever.
package value

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBytes
	KindText
	KindInt
	KindUint
	KindBool
	KindFloat
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindSeq:
		return "seq"
	default:
		return "invalid"
	}
}

// ErrUnsupportedItem is returned when an input cannot be routed into a
// Value variant. The filter state is never touched in that case.
var ErrUnsupportedItem = fmt.Errorf("unsupported item")

// Value is a tagged variant holding one filter input.
//
// The zero Value is invalid; use the constructors. Note that Bool is a
// distinct variant: Bool(true) encodes to a single byte 0x01 and is NOT the
// same item as Int(1), which encodes to eight bytes.
type Value struct {
	kind Kind
	b    []byte
	s    string
	num  uint64 // Int (two's complement), Uint, Float (IEEE-754 bits), Bool (0/1)
	seq  []Value
}

// Bytes wraps a raw byte slice. The slice is not copied; callers must not
// mutate it while the Value is in use.
func Bytes(b []byte) Value { return Value{kind: KindBytes, b: b} }

// Text wraps a string. A Text and a Bytes holding the same byte content
// canonicalize identically (the encoding is the raw UTF-8 bytes).
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, num: uint64(i)} }

// Uint wraps an unsigned integer.
func Uint(u uint64) Value { return Value{kind: KindUint, num: u} }

// Bool wraps a boolean.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Float wraps a 64-bit float. The exact bit pattern is what gets encoded,
// so distinct NaN payloads are distinct items and a given NaN is stable.
func Float(f float64) Value { return Value{kind: KindFloat, num: math.Float64bits(f)} }

// Seq wraps an ordered sequence of values. Sequences canonicalize to the
// concatenation of their elements with no delimiter, so any two sequences
// with equal elements in equal order are the same item regardless of how
// the host represented them.
func Seq(elems ...Value) Value { return Value{kind: KindSeq, seq: elems} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a variant.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// From routes a dynamically typed Go value into a Value. This is the host
// binding bridge: strings become Text, byte slices become Bytes, all integer
// widths widen to Int/Uint, float32 widens to Float, and slices recurse
// element-wise. A Value passes through unchanged.
func From(item any) (Value, error) {
	switch x := item.(type) {
	case Value:
		return x, nil
	case []byte:
		return Bytes(x), nil
	case string:
		return Text(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case []Value:
		return Seq(x...), nil
	case []any:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			ev, err := From(e)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, ev)
		}
		return Seq(elems...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedItem, item)
	}
}

// MustFrom is From for inputs known to be supported; it panics otherwise.
func MustFrom(item any) Value {
	v, err := From(item)
	if err != nil {
		panic(err)
	}
	return v
}

// Canonical returns the canonical byte encoding of v.
func Canonical(v Value) ([]byte, error) {
	return AppendCanonical(nil, v)
}

// AppendCanonical appends the canonical encoding of v to dst.
//
// Encoding rules:
//
//	Bytes, Text  raw bytes
//	Int, Uint    8 bytes little-endian (two's complement for Int)
//	Bool         1 byte, 0 or 1
//	Float        8 bytes little-endian IEEE-754 bit pattern
//	Seq          concatenation of element encodings, recursive, no delimiter
func AppendCanonical(dst []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindBytes:
		return append(dst, v.b...), nil
	case KindText:
		return append(dst, v.s...), nil
	case KindInt, KindUint, KindFloat:
		return binary.LittleEndian.AppendUint64(dst, v.num), nil
	case KindBool:
		return append(dst, byte(v.num)), nil
	case KindSeq:
		var err error
		for _, e := range v.seq {
			dst, err = AppendCanonical(dst, e)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("%w: invalid value", ErrUnsupportedItem)
	}
}
