package jsonpath

import (
	"fmt"

	"github.com/jacoelho/jsoneater/flatten"
)

// Pattern is a compiled JSONPath expression. It is safe for concurrent use.
type Pattern struct {
	expr string
	segs []segment
}

// Compile parses a JSONPath expression starting with '$'.
func Compile(expr string) (*Pattern, error) {
	segs, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return &Pattern{expr: expr, segs: segs}, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("jsonpath: Compile(%q): %v", expr, err))
	}
	return p
}

// Match reports whether the expression selects exactly the node at path.
func (p *Pattern) Match(path *flatten.Path) bool {
	return matchPath(p.segs, path, false)
}

// Selects reports whether the node at path is selected by the expression or
// lies inside a selected node. "$.address" selects "address/street".
func (p *Pattern) Selects(path *flatten.Path) bool {
	return matchPath(p.segs, path, true)
}

func (p *Pattern) String() string {
	return p.expr
}

// Validate checks that expr compiles.
func Validate(expr string) error {
	_, err := compile(expr)
	return err
}
