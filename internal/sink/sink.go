// Package sink provides the output formats of jsoneater. Every sink is a
// flatten.Visitor: write failures are kept as the first error and reported by
// Err and Close.
package sink

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/jsoneater/flatten"
)

var (
	ErrUnknownFormat    = errors.New("sink: unknown format")
	ErrUnknownPathStyle = errors.New("sink: unknown path style")
	ErrNoDatabase       = errors.New("sink: sqlite output needs a database file")
	ErrTemplate         = errors.New("sink: invalid template")
)

type Format string

const (
	CSV      Format = "csv"
	JSONL    Format = "jsonl"
	YAML     Format = "yaml"
	Template Format = "template"
	SQLite   Format = "sqlite"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSONL, YAML, Template, SQLite:
		return f, nil
	case "":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// PathStyle selects how paths are written.
type PathStyle string

const (
	// Slash writes "address/0/street".
	Slash PathStyle = "slash"
	// JSONPath writes the normalized path "$['address'][0]['street']".
	JSONPath PathStyle = "jsonpath"
)

func ParsePathStyle(s string) (PathStyle, error) {
	switch p := PathStyle(strings.ToLower(s)); p {
	case Slash, JSONPath:
		return p, nil
	case "":
		return Slash, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPathStyle, s)
	}
}

// DefaultBatchSize is the number of rows per sqlite insert.
const DefaultBatchSize = 500

type Options struct {
	Format    Format
	Output    io.Writer // destination of text formats
	Database  string    // sqlite database file
	Template  string    // text/template source, executed once per leaf
	PathStyle PathStyle
	BatchSize int
	RunID     string // sqlite run identifier, generated when empty
}

// Sink is an output format.
type Sink interface {
	flatten.Visitor

	// StartDocument names the document whose leaves follow and restarts
	// their sequence numbers.
	StartDocument(name string)

	// Err returns the first write failure.
	Err() error

	// Close flushes buffered output and releases what the sink opened
	// itself. Options.Output stays open.
	Close() error
}

// New builds the sink selected by opts.Format.
func New(opts Options) (Sink, error) {
	if opts.PathStyle == "" {
		opts.PathStyle = Slash
	}

	switch opts.Format {
	case CSV, "":
		return newCSV(opts), nil
	case JSONL:
		return newJSONL(opts), nil
	case YAML:
		return newYAML(opts), nil
	case Template:
		return newTemplate(opts)
	case SQLite:
		return newSQLite(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Record is one leaf as seen by the record based formats and templates.
type Record struct {
	Document string        `json:"document,omitempty"`
	Seq      int           `json:"seq"`
	Path     string        `json:"path"`
	Kind     string        `json:"kind"`
	Value    flatten.Value `json:"value"`
	Depth    int           `json:"-"`
}

// Text returns the value as written by the csv format.
func (r Record) Text() string {
	return r.Value.String()
}

// cursor tracks the current document and sequence number.
type cursor struct {
	style    PathStyle
	document string
	seq      int
}

func (c *cursor) StartDocument(name string) {
	c.document = name
	c.seq = 0
}

func (c *cursor) path(p *flatten.Path) string {
	if c.style == JSONPath {
		return p.Normalized().String()
	}
	return p.String()
}

// record builds the next record. Borrowed strings are copied.
func (c *cursor) record(p *flatten.Path, v flatten.Value) Record {
	r := Record{
		Document: c.document,
		Seq:      c.seq,
		Path:     c.path(p),
		Kind:     v.Kind().String(),
		Value:    v.Owned(),
		Depth:    p.Len(),
	}
	c.seq++
	return r
}
