package number

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the native representation chosen for a JSON number literal.
type Kind uint8

const (
	Uint64 Kind = iota + 1
	Int64
	Float64
)

var ErrInvalid = errors.New("number: invalid literal")

// Number holds a classified JSON number. Only the field matching Kind is set.
type Number struct {
	Kind  Kind
	Uint  uint64
	Int   int64
	Float float64
}

// Classify picks the narrowest native representation for a JSON number literal:
// non-negative integers that fit in uint64 become Uint64, negative integers that
// fit in int64 become Int64, everything else (fractions, exponents, out of range
// integers) becomes Float64.
func Classify(literal string) (Number, error) {
	if literal == "" {
		return Number{}, fmt.Errorf("%w: empty", ErrInvalid)
	}

	if isInteger(literal) {
		if literal[0] == '-' {
			if v, err := strconv.ParseInt(literal, 10, 64); err == nil {
				return Number{Kind: Int64, Int: v}, nil
			}
		} else if v, err := strconv.ParseUint(literal, 10, 64); err == nil {
			return Number{Kind: Uint64, Uint: v}, nil
		}
	}

	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		// out of range literals saturate to ±Inf, which is not a JSON value
		return Number{}, fmt.Errorf("%w: %q", ErrInvalid, literal)
	}

	return Number{Kind: Float64, Float: f}, nil
}

func isInteger(literal string) bool {
	return !strings.ContainsAny(literal, ".eE")
}

// String returns the Kind name used in output records.
func (k Kind) String() string {
	switch k {
	case Uint64:
		return "u64"
	case Int64:
		return "i64"
	case Float64:
		return "f64"
	default:
		return "invalid"
	}
}
