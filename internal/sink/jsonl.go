package sink

import (
	"bufio"
	"encoding/json"

	"github.com/jacoelho/jsoneater/flatten"
)

// jsonlSink writes one JSON object per leaf.
type jsonlSink struct {
	cursor
	buf *bufio.Writer
	enc *json.Encoder
	err error
}

func newJSONL(opts Options) *jsonlSink {
	buf := bufio.NewWriter(opts.Output)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	return &jsonlSink{
		cursor: cursor{style: opts.PathStyle},
		buf:    buf,
		enc:    enc,
	}
}

func (s *jsonlSink) VisitAny(path *flatten.Path, value flatten.Value) {
	if s.err != nil {
		return
	}
	s.err = s.enc.Encode(s.record(path, value))
}

func (s *jsonlSink) Err() error {
	return s.err
}

func (s *jsonlSink) Close() error {
	if s.err != nil {
		return s.err
	}
	return s.buf.Flush()
}
