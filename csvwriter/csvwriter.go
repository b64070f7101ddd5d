// Package csvwriter writes flattened JSON leaves as "<path>, <value>" lines.
//
// The output is line oriented text, not RFC 4180 CSV: paths and values are
// written as displayed by flatten, without quoting.
package csvwriter

import (
	"io"

	"github.com/jacoelho/jsoneater/flatten"
)

// Writer is a flatten.Visitor writing one line per leaf to an io.Writer.
//
// The first write error is kept and every later call becomes a no-op.
type Writer struct {
	w   io.Writer
	buf []byte
	err error
}

func New(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, 256)}
}

func (w *Writer) VisitAny(path *flatten.Path, value flatten.Value) {
	if w.err != nil {
		return
	}

	w.buf = path.AppendText(w.buf[:0])
	w.buf = append(w.buf, ", "...)
	w.buf = value.AppendText(w.buf)
	w.buf = append(w.buf, '\n')

	_, w.err = w.w.Write(w.buf)
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Inner returns the wrapped writer.
func (w *Writer) Inner() io.Writer {
	return w.w
}
