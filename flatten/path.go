package flatten

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/jacoelho/jsoneater/internal/stack"
	"github.com/theory/jsonpath/spec"
)

// Separator joins segments in the display form of a Path.
const Separator = '/'

// Path is the route from the document root to the value being visited.
//
// During a walk the driver mutates a single Path in place; the *Path handed to
// a visitor is only valid for the duration of the callback. Use Clone to keep
// a snapshot.
type Path struct {
	segs stack.Stack[Segment]
}

// NewPath builds a path from root-to-leaf segments.
func NewPath(segs ...Segment) *Path {
	p := &Path{segs: *stack.NewWithCapacity[Segment](len(segs))}
	p.segs.Push(segs...)
	return p
}

func (p *Path) push(s Segment) {
	p.segs.Push(s)
}

// pop must be paired with exactly one preceding push.
func (p *Path) pop() {
	p.segs.Pop()
}

func (p *Path) Len() int {
	return p.segs.Size()
}

func (p *Path) IsEmpty() bool {
	return p.segs.IsEmpty()
}

// At returns the i-th segment counted from the root.
func (p *Path) At(i int) Segment {
	return p.segs.At(i)
}

// Last returns the innermost segment.
func (p *Path) Last() (Segment, bool) {
	return p.segs.Peek()
}

// Segments iterates root to leaf. The sequence can be ranged over more than
// once but is only valid until the path changes.
func (p *Path) Segments() iter.Seq[Segment] {
	return p.segs.All()
}

// String joins segments with '/'. Names are not escaped, so a name containing
// '/' is indistinguishable from two segments.
func (p *Path) String() string {
	return string(p.AppendText(nil))
}

// AppendText appends the String form of p to b.
func (p *Path) AppendText(b []byte) []byte {
	for i := range p.segs.Size() {
		if i > 0 {
			b = append(b, Separator)
		}
		b = p.segs.At(i).appendText(b)
	}
	return b
}

// Compare orders paths lexicographically by segment.
func (p *Path) Compare(other *Path) int {
	n := min(p.Len(), other.Len())
	for i := range n {
		if c := p.At(i).Compare(other.At(i)); c != 0 {
			return c
		}
	}
	switch {
	case p.Len() < other.Len():
		return -1
	case p.Len() > other.Len():
		return 1
	default:
		return 0
	}
}

func (p *Path) Equal(other *Path) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i := range p.Len() {
		if p.At(i) != other.At(i) {
			return false
		}
	}
	return true
}

// Hash returns a structural 64-bit hash: equal paths hash equally, and a name
// never hashes like an index with the same text.
func (p *Path) Hash() uint64 {
	d := xxhash.New()
	var hdr [9]byte
	for seg := range p.Segments() {
		if seg.isIndex {
			hdr[0] = 'i'
			binary.LittleEndian.PutUint64(hdr[1:], uint64(seg.index))
			_, _ = d.Write(hdr[:])
			continue
		}
		hdr[0] = 'n'
		binary.LittleEndian.PutUint64(hdr[1:], uint64(len(seg.name)))
		_, _ = d.Write(hdr[:])
		_, _ = d.WriteString(seg.name)
	}
	return d.Sum64()
}

// Clone returns a detached copy whose names no longer alias the input.
func (p *Path) Clone() *Path {
	c := &Path{segs: *stack.NewWithCapacity[Segment](p.Len())}
	for seg := range p.Segments() {
		c.segs.Push(seg.Owned())
	}
	return c
}

// Normalized converts p to an RFC 9535 normalized path, e.g. $['a'][0].
func (p *Path) Normalized() spec.NormalizedPath {
	np := make(spec.NormalizedPath, 0, p.Len())
	for seg := range p.Segments() {
		if seg.isIndex {
			np = append(np, spec.Index(seg.index))
		} else {
			np = append(np, spec.Name(seg.name))
		}
	}
	return np
}

// MarshalJSON encodes p as an array of names and indices.
func (p *Path) MarshalJSON() ([]byte, error) {
	b := []byte{'['}
	for i := range p.Len() {
		if i > 0 {
			b = append(b, ',')
		}
		seg := p.At(i)
		if seg.isIndex {
			b = strconv.AppendInt(b, int64(seg.index), 10)
			continue
		}
		name, err := json.Marshal(seg.name)
		if err != nil {
			return nil, err
		}
		b = append(b, name...)
	}
	return append(b, ']'), nil
}

func (p *Path) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var segs stack.Stack[Segment]
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			segs.Push(Name(v))
		case json.Number:
			i, err := strconv.Atoi(v.String())
			if err != nil || i < 0 {
				return fmt.Errorf("flatten: invalid path index %s", v)
			}
			segs.Push(Index(i))
		default:
			return fmt.Errorf("flatten: invalid path segment %v", item)
		}
	}
	p.segs = segs
	return nil
}
