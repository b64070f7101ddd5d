package flatten

// TokenKind identifies a Token reported by a Source.
type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenObjectStart
	TokenObjectEnd
	TokenArrayStart
	TokenArrayEnd
	TokenString
	TokenUint64
	TokenInt64
	TokenFloat32
	TokenFloat64
	TokenBool
	TokenNull
)

// Token is a single lexical JSON token. Object member names are reported as
// TokenString in name position.
type Token struct {
	Kind TokenKind

	// Str is set for TokenString. When Borrowed is true it aliases memory
	// owned by the source and is only valid until the next call to Next.
	Str      string
	Borrowed bool

	Uint  uint64
	Int   int64
	Float float64 // TokenFloat32 and TokenFloat64
	Bool  bool
}

// Source is the event source driven by Walk. It reports the tokens of one
// JSON document in document order and is responsible for the JSON grammar:
// Walk trusts it to report well-formed structure and returns its first error
// unchanged inside a SourceError.
//
// Number tokens carry the native representation chosen by the source; Walk
// never converts between numeric kinds.
type Source interface {
	Next() (Token, error)

	// InputOffset is the byte offset just past the most recent token.
	InputOffset() int64
}
