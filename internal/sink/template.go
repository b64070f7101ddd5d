package sink

import (
	"bufio"
	"fmt"
	"text/template"

	"github.com/jacoelho/jsoneater/flatten"
	jtemplate "github.com/jacoelho/jsoneater/internal/template"
)

// templateSink executes a user template once per leaf with a Record as data.
type templateSink struct {
	cursor
	buf  *bufio.Writer
	tmpl *template.Template
	err  error
}

func newTemplate(opts Options) (*templateSink, error) {
	if opts.Template == "" {
		return nil, fmt.Errorf("%w: empty template", ErrTemplate)
	}

	tmpl, err := jtemplate.Parse("leaf", opts.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	return &templateSink{
		cursor: cursor{style: opts.PathStyle},
		buf:    bufio.NewWriter(opts.Output),
		tmpl:   tmpl,
	}, nil
}

func (s *templateSink) VisitAny(path *flatten.Path, value flatten.Value) {
	if s.err != nil {
		return
	}
	s.err = s.tmpl.Execute(s.buf, s.record(path, value))
}

func (s *templateSink) Err() error {
	return s.err
}

func (s *templateSink) Close() error {
	if s.err != nil {
		return s.err
	}
	return s.buf.Flush()
}
