package flatten

import (
	"cmp"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either the name of an object member or the
// index of an array element. Segments are comparable and can be used as map
// keys. A name that aliases the input buffer compares equal to an owned copy.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a segment for an object member.
func Name(name string) Segment {
	return Segment{name: name}
}

// Index returns a segment for an array element. i must not be negative.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Name returns the member name and true for name segments.
func (s Segment) Name() (string, bool) {
	return s.name, !s.isIndex
}

// Index returns the element index and true for index segments.
func (s Segment) Index() (int, bool) {
	return s.index, s.isIndex
}

// Owned returns s with its name copied out of any borrowed buffer.
func (s Segment) Owned() Segment {
	if s.isIndex || s.name == "" {
		return s
	}
	return Segment{name: strings.Clone(s.name)}
}

func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.name
}

// Compare orders names before indices, names lexicographically and indices
// numerically.
func (s Segment) Compare(other Segment) int {
	switch {
	case s.isIndex && other.isIndex:
		return cmp.Compare(s.index, other.index)
	case s.isIndex:
		return 1
	case other.isIndex:
		return -1
	default:
		return strings.Compare(s.name, other.name)
	}
}

func (s Segment) appendText(b []byte) []byte {
	if s.isIndex {
		return strconv.AppendInt(b, int64(s.index), 10)
	}
	return append(b, s.name...)
}
