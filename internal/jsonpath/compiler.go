package jsonpath

import (
	"fmt"
	"math"

	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"

	"github.com/jacoelho/jsoneater/flatten"
)

// selector matches a single path segment.
type selector interface {
	match(seg flatten.Segment) bool
}

type segment struct {
	deep bool       // true for '..' descendant operator
	sels []selector // union of selectors for this segment
}

type (
	nameSel     string
	wildcardSel struct{}
	indexSel    int
	sliceSel    struct{ start, end, step int }
)

func (n nameSel) match(seg flatten.Segment) bool {
	name, ok := seg.Name()
	return ok && name == string(n)
}

func (wildcardSel) match(flatten.Segment) bool {
	return true
}

func (i indexSel) match(seg flatten.Segment) bool {
	index, ok := seg.Index()
	return ok && index == int(i)
}

func (s sliceSel) match(seg flatten.Segment) bool {
	index, ok := seg.Index()
	switch {
	case !ok || s.step == 0:
		return false
	case s.step > 0:
		return index >= s.start && index < s.end && (index-s.start)%s.step == 0
	default:
		// descending slice, e.g. [5:1:-1] selects 5, 4, 3, 2
		return index <= s.start && index > s.end && (s.start-index)%(-s.step) == 0
	}
}

// compile parses expr as an RFC 9535 query and lowers its segments to
// selectors that can be decided from a leaf path alone.
func compile(expr string) ([]segment, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	query := path.Query()
	segs := make([]segment, 0, len(query.Segments()))
	for _, s := range query.Segments() {
		seg := segment{deep: s.IsDescendant()}
		for _, sel := range s.Selectors() {
			lowered, err := lower(sel)
			if err != nil {
				return nil, err
			}
			seg.sels = append(seg.sels, lowered)
		}
		segs = append(segs, seg)
	}

	return segs, nil
}

func lower(sel spec.Selector) (selector, error) {
	switch sel := sel.(type) {
	case spec.Name:
		return nameSel(sel), nil
	case spec.WildcardSelector:
		return wildcardSel{}, nil
	case spec.Index:
		if sel < 0 {
			return nil, fmt.Errorf("%w: negative array index (%d) needs the array length", ErrNotSupported, int(sel))
		}
		return indexSel(sel), nil
	case spec.SliceSelector:
		return lowerSlice(sel)
	case *spec.FilterSelector:
		return nil, fmt.Errorf("%w: filter selector '[%s]' depends on values, use a predicate instead", ErrNotSupported, sel)
	default:
		return nil, fmt.Errorf("%w: selector %v", ErrNotSupported, sel)
	}
}

// lowerSlice keeps slices whose bounds do not depend on the array length.
// Omitted bounds arrive as math.MaxInt and math.MinInt.
func lowerSlice(sel spec.SliceSelector) (selector, error) {
	start, end, step := sel.Start(), sel.End(), sel.Step()

	if start < 0 || (end < 0 && end != math.MinInt) {
		return nil, fmt.Errorf("%w: negative slice indices ('%s') need the array length", ErrNotSupported, sel)
	}
	if step < -1 && start == math.MaxInt {
		return nil, fmt.Errorf("%w: descending slice '%s' without a start needs the array length", ErrNotSupported, sel)
	}

	if end == math.MinInt {
		end = -1
	}
	return sliceSel{start: start, end: end, step: step}, nil
}
