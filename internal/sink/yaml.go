package sink

import (
	"bufio"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jsoneater/flatten"
)

// yamlSink writes every leaf as one item of a single top level sequence.
type yamlSink struct {
	cursor
	buf *bufio.Writer
	err error
}

type leafYAML struct {
	Document string     `yaml:"document,omitempty"`
	Seq      int        `yaml:"seq"`
	Path     string     `yaml:"path"`
	Kind     string     `yaml:"kind"`
	Value    *yamlValue `yaml:"value"`
}

type yamlValue struct {
	Value any
}

func (v *yamlValue) MarshalYAML() (any, error) {
	return v.Value, nil
}

func newYAML(opts Options) *yamlSink {
	return &yamlSink{
		cursor: cursor{style: opts.PathStyle},
		buf:    bufio.NewWriter(opts.Output),
	}
}

func (s *yamlSink) VisitAny(path *flatten.Path, value flatten.Value) {
	if s.err != nil {
		return
	}

	r := s.record(path, value)
	payload, err := yaml.Marshal([]leafYAML{{
		Document: r.Document,
		Seq:      r.Seq,
		Path:     r.Path,
		Kind:     r.Kind,
		Value:    &yamlValue{Value: r.Value.Interface()},
	}})
	if err != nil {
		s.err = fmt.Errorf("encode YAML: %w", err)
		return
	}

	_, s.err = s.buf.Write(payload)
}

func (s *yamlSink) Err() error {
	return s.err
}

func (s *yamlSink) Close() error {
	if s.err != nil {
		return s.err
	}
	return s.buf.Flush()
}
