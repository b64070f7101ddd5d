package flatten

import (
	"errors"
	"fmt"
)

var (
	// ErrSource matches every error returned by Walk, Bytes and Reader.
	ErrSource = errors.New("flatten: source failure")

	// ErrMalformed indicates a token stream that breaks the JSON grammar,
	// which only a faulty custom Source can produce.
	ErrMalformed = errors.New("flatten: malformed token stream")

	// ErrTooDeep indicates objects and arrays nested beyond MaxDepth.
	ErrTooDeep = errors.New("flatten: exceeded max depth")
)

// SourceError is the single failure reported by a walk. It wraps whatever the
// event source reported: a syntax error, unexpected end of input or an I/O
// error from the underlying reader.
type SourceError struct {
	Offset int64 // input offset of the last token read
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("flatten: parse failed at offset %d: %v", e.Offset, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (e *SourceError) Is(target error) bool {
	return target == ErrSource
}
