package sink

import (
	"bufio"

	"github.com/jacoelho/jsoneater/csvwriter"
	"github.com/jacoelho/jsoneater/flatten"
)

type csvSink struct {
	cursor
	buf  *bufio.Writer
	w    *csvwriter.Writer
	line []byte
	err  error
}

func newCSV(opts Options) *csvSink {
	buf := bufio.NewWriter(opts.Output)
	return &csvSink{
		cursor: cursor{style: opts.PathStyle},
		buf:    buf,
		w:      csvwriter.New(buf),
	}
}

func (s *csvSink) VisitAny(path *flatten.Path, value flatten.Value) {
	if s.style == Slash {
		s.w.VisitAny(path, value)
		return
	}
	if s.err != nil {
		return
	}

	s.line = append(s.line[:0], s.path(path)...)
	s.line = append(s.line, ", "...)
	s.line = value.AppendText(s.line)
	s.line = append(s.line, '\n')
	_, s.err = s.buf.Write(s.line)
}

func (s *csvSink) Err() error {
	if err := s.w.Err(); err != nil {
		return err
	}
	return s.err
}

func (s *csvSink) Close() error {
	if err := s.Err(); err != nil {
		return err
	}
	return s.buf.Flush()
}
