package flatten

import (
	"slices"
)

// VisitorFunc adapts an ordinary function to the Visitor interface.
type VisitorFunc func(path *Path, value Value)

func (f VisitorFunc) VisitAny(path *Path, value Value) {
	f(path, value)
}

// Multi fans every leaf out to each visitor in order. Each visitor sees the
// same hooks it would see if it were walked on its own.
func Multi(visitors ...Visitor) Visitor {
	return multi(slices.Clone(visitors))
}

type multi []Visitor

func (m multi) VisitAny(path *Path, value Value) {
	for _, v := range m {
		v.VisitAny(path, value)
	}
}

func (m multi) VisitStr(path *Path, value string) {
	for _, v := range m {
		VisitStr(v, path, value)
	}
}

func (m multi) VisitOwnedString(path *Path, value string) {
	for _, v := range m {
		VisitOwnedString(v, path, value)
	}
}

func (m multi) VisitBool(path *Path, value bool) {
	for _, v := range m {
		VisitBool(v, path, value)
	}
}

func (m multi) VisitUint64(path *Path, value uint64) {
	for _, v := range m {
		VisitUint64(v, path, value)
	}
}

func (m multi) VisitInt64(path *Path, value int64) {
	for _, v := range m {
		VisitInt64(v, path, value)
	}
}

func (m multi) VisitFloat32(path *Path, value float32) {
	for _, v := range m {
		VisitFloat32(v, path, value)
	}
}

func (m multi) VisitFloat64(path *Path, value float64) {
	for _, v := range m {
		VisitFloat64(v, path, value)
	}
}

func (m multi) VisitNull(path *Path) {
	for _, v := range m {
		VisitNull(v, path)
	}
}

// Counter counts leaves by kind and tracks the deepest path seen.
type Counter struct {
	Total    int
	ByKind   [KindBool + 1]int
	MaxDepth int
}

func (c *Counter) VisitAny(path *Path, value Value) {
	c.Total++
	c.ByKind[value.Kind()]++
	c.MaxDepth = max(c.MaxDepth, path.Len())
}

// Entry is a detached (path, value) pair.
type Entry struct {
	Path  *Path
	Value Value
}

// Collector keeps a detached copy of every leaf. It is meant for tests and
// small documents: its memory grows with the document.
type Collector struct {
	Entries []Entry
}

func (c *Collector) VisitAny(path *Path, value Value) {
	c.Entries = append(c.Entries, Entry{Path: path.Clone(), Value: value.Owned()})
}

// Sort orders entries by path, keeping document order between equal paths.
func (c *Collector) Sort() {
	slices.SortStableFunc(c.Entries, func(a, b Entry) int {
		return a.Path.Compare(b.Path)
	})
}

// Pairs returns the display form of every entry.
func (c *Collector) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		pairs = append(pairs, [2]string{e.Path.String(), e.Value.String()})
	}
	return pairs
}
