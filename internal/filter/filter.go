// Package filter drops flattened leaves that do not match a JSONPath pattern
// or an expression predicate before they reach the next visitor.
package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jacoelho/jsoneater/flatten"
	"github.com/jacoelho/jsoneater/internal/jsonpath"
)

var (
	ErrCompile   = errors.New("filter: invalid predicate")
	ErrPredicate = errors.New("filter: predicate failed")
)

// Env is the environment a predicate is evaluated against.
type Env struct {
	Path  string `expr:"path"`  // slash separated path
	Kind  string `expr:"kind"`  // null, string, u64, i64, f32, f64 or bool
	Value any    `expr:"value"` // nil, string, uint64, int64, float32, float64 or bool
	Text  string `expr:"text"`  // value as written by the csv format
	Depth int    `expr:"depth"` // number of path segments
}

// Predicate is a compiled boolean expression over Env.
type Predicate struct {
	source  string
	program *vm.Program
}

// CompilePredicate compiles src, which must evaluate to a boolean.
func CompilePredicate(src string) (*Predicate, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return &Predicate{source: src, program: program}, nil
}

// Eval runs the predicate for one leaf.
func (p *Predicate) Eval(path *flatten.Path, value flatten.Value) (bool, error) {
	env := Env{
		Path:  path.String(),
		Kind:  value.Kind().String(),
		Value: value.Interface(),
		Text:  value.String(),
		Depth: path.Len(),
	}

	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("%w: %s at %q: %w", ErrPredicate, p.source, env.Path, err)
	}

	keep, _ := out.(bool)
	return keep, nil
}

func (p *Predicate) String() string {
	return p.source
}

// Filter is a flatten.Visitor forwarding the leaves that pass both the
// pattern and the predicate to Target. Either may be nil.
//
// A leaf the predicate cannot be evaluated on, such as a null or a string
// under "value > 10", does not match and is dropped. The walk goes on.
type Filter struct {
	target    flatten.Visitor
	pattern   *jsonpath.Pattern
	predicate *Predicate

	err     error
	failed  int
	kept    int
	dropped int
}

func New(target flatten.Visitor, pattern *jsonpath.Pattern, predicate *Predicate) *Filter {
	return &Filter{
		target:    target,
		pattern:   pattern,
		predicate: predicate,
	}
}

// Err returns the first predicate evaluation failure.
func (f *Filter) Err() error {
	return f.err
}

// Failed returns the number of leaves dropped because the predicate could
// not be evaluated on them.
func (f *Filter) Failed() int {
	return f.failed
}

// Kept returns the number of leaves forwarded to the target.
func (f *Filter) Kept() int {
	return f.kept
}

// Dropped returns the number of leaves withheld from the target.
func (f *Filter) Dropped() int {
	return f.dropped
}

func (f *Filter) keep(path *flatten.Path, value func() flatten.Value) bool {
	ok := f.pattern == nil || f.pattern.Selects(path)
	if ok && f.predicate != nil {
		var err error
		if ok, err = f.predicate.Eval(path, value()); err != nil {
			f.failed++
			if f.err == nil {
				f.err = err
			}
		}
	}

	if ok {
		f.kept++
	} else {
		f.dropped++
	}
	return ok
}

func (f *Filter) VisitAny(path *flatten.Path, value flatten.Value) {
	if f.keep(path, func() flatten.Value { return value }) {
		f.target.VisitAny(path, value)
	}
}

func (f *Filter) VisitStr(path *flatten.Path, value string) {
	if f.keep(path, func() flatten.Value { return flatten.BorrowedString(value) }) {
		flatten.VisitStr(f.target, path, value)
	}
}

func (f *Filter) VisitOwnedString(path *flatten.Path, value string) {
	if f.keep(path, func() flatten.Value { return flatten.String(value) }) {
		flatten.VisitOwnedString(f.target, path, value)
	}
}

func (f *Filter) VisitBool(path *flatten.Path, value bool) {
	if f.keep(path, func() flatten.Value { return flatten.Bool(value) }) {
		flatten.VisitBool(f.target, path, value)
	}
}

func (f *Filter) VisitUint64(path *flatten.Path, value uint64) {
	if f.keep(path, func() flatten.Value { return flatten.Uint64(value) }) {
		flatten.VisitUint64(f.target, path, value)
	}
}

func (f *Filter) VisitInt64(path *flatten.Path, value int64) {
	if f.keep(path, func() flatten.Value { return flatten.Int64(value) }) {
		flatten.VisitInt64(f.target, path, value)
	}
}

func (f *Filter) VisitFloat32(path *flatten.Path, value float32) {
	if f.keep(path, func() flatten.Value { return flatten.Float32(value) }) {
		flatten.VisitFloat32(f.target, path, value)
	}
}

func (f *Filter) VisitFloat64(path *flatten.Path, value float64) {
	if f.keep(path, func() flatten.Value { return flatten.Float64(value) }) {
		flatten.VisitFloat64(f.target, path, value)
	}
}

func (f *Filter) VisitNull(path *flatten.Path) {
	if f.keep(path, flatten.Null) {
		flatten.VisitNull(f.target, path)
	}
}
