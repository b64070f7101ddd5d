package flatten

import (
	"errors"
	"fmt"
	"io"
)

type options struct {
	borrow bool
}

// Option configures Bytes.
type Option func(*options)

// Borrow makes Bytes report unescaped strings and member names as views into
// the input buffer instead of copies. See NewBytesSource for the rules that
// come with it.
func Borrow() Option {
	return func(o *options) {
		o.borrow = true
	}
}

// Bytes flattens the JSON document held in data.
func Bytes(data []byte, v Visitor, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return Walk(NewBytesSource(data, o.borrow), v)
}

// Reader flattens the JSON document read incrementally from r. Only the
// bytes needed for the first JSON value are consumed from the stream, modulo
// read-ahead buffering.
func Reader(r io.Reader, v Visitor) error {
	return Walk(NewReaderSource(r), v)
}

// Walk drives src through exactly one JSON value, calling v for every leaf in
// document order. Trailing input after that value is not read.
//
// Memory use is proportional to the nesting depth of the document, which is
// capped at MaxDepth for every source. Any error
// aborts the walk and is returned as a *SourceError; leaves dispatched before
// the failure have already been delivered to v.
func Walk(src Source, v Visitor) error {
	w := walker{
		src: src,
		d:   newDispatcher(v),
	}

	if err := w.value(); err != nil {
		return &SourceError{Offset: src.InputOffset(), Err: err}
	}
	return nil
}

// MaxDepth is the deepest nesting of objects and arrays a walk accepts.
const MaxDepth = 10000

type walker struct {
	src   Source
	path  Path
	d     dispatcher
	depth int
}

// enter accounts for one more open container. Callers undo it with leave.
func (w *walker) enter() error {
	w.depth++
	if w.depth > MaxDepth {
		return fmt.Errorf("%w: %d levels", ErrTooDeep, MaxDepth)
	}
	return nil
}

func (w *walker) leave() {
	w.depth--
}

func (w *walker) next() (Token, error) {
	tok, err := w.src.Next()
	if errors.Is(err, io.EOF) {
		// Walk only asks for tokens while a value is incomplete
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (w *walker) value() error {
	tok, err := w.next()
	if err != nil {
		return err
	}
	return w.token(tok)
}

func (w *walker) token(tok Token) error {
	switch tok.Kind {
	case TokenObjectStart:
		return w.object()
	case TokenArrayStart:
		return w.array()
	case TokenObjectEnd, TokenArrayEnd, TokenInvalid:
		return fmt.Errorf("%w: unexpected token kind %d", ErrMalformed, tok.Kind)
	default:
		w.d.leaf(&w.path, tok)
		return nil
	}
}

func (w *walker) object() error {
	defer w.leave()
	if err := w.enter(); err != nil {
		return err
	}

	for {
		tok, err := w.next()
		if err != nil {
			return err
		}
		if tok.Kind == TokenObjectEnd {
			return nil
		}
		if tok.Kind != TokenString {
			return fmt.Errorf("%w: object member name must be a string", ErrMalformed)
		}

		if err := w.descend(Name(tok.Str), w.value); err != nil {
			return err
		}
	}
}

func (w *walker) array() error {
	defer w.leave()
	if err := w.enter(); err != nil {
		return err
	}

	for index := 0; ; index++ {
		tok, err := w.next()
		if err != nil {
			return err
		}
		if tok.Kind == TokenArrayEnd {
			return nil
		}

		if err := w.descend(Index(index), func() error { return w.token(tok) }); err != nil {
			return err
		}
	}
}

// descend runs fn with seg pushed onto the path and pops it on every exit.
func (w *walker) descend(seg Segment, fn func() error) error {
	w.path.push(seg)
	defer w.path.pop()
	return fn()
}
