package flatten

import (
	"bytes"
	"unsafe"

	"github.com/go-json-experiment/json/jsontext"
)

type bytesSource struct {
	data   []byte
	dec    *jsontext.Decoder
	borrow bool
}

// NewBytesSource returns a Source over an in-memory document.
//
// With borrow set, strings and member names without escape sequences are
// reported as borrowed views into data instead of copies. data must then stay
// unmodified until the walk returns, and visitors must copy out anything they
// keep (Value.Owned, Path.Clone).
func NewBytesSource(data []byte, borrow bool) Source {
	return &bytesSource{
		data:   data,
		dec:    jsontext.NewDecoder(bytes.NewReader(data), jsontext.AllowDuplicateNames(true)),
		borrow: borrow,
	}
}

func (s *bytesSource) InputOffset() int64 {
	return s.dec.InputOffset()
}

func (s *bytesSource) Next() (Token, error) {
	if s.borrow && s.dec.PeekKind() == '"' {
		return s.nextString()
	}

	tok, err := s.dec.ReadToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind() {
	case '{':
		return Token{Kind: TokenObjectStart}, nil
	case '}':
		return Token{Kind: TokenObjectEnd}, nil
	case '[':
		return Token{Kind: TokenArrayStart}, nil
	case ']':
		return Token{Kind: TokenArrayEnd}, nil
	case '"':
		return Token{Kind: TokenString, Str: tok.String()}, nil
	case '0':
		// String reports the raw literal for numbers
		return numberToken(tok.String())
	case 't', 'f':
		return Token{Kind: TokenBool, Bool: tok.Bool()}, nil
	case 'n':
		return Token{Kind: TokenNull}, nil
	default:
		return Token{}, ErrMalformed
	}
}

// nextString reads a string as a raw value so that its position in data is
// known. Raw strings without escapes are borrowed from data.
func (s *bytesSource) nextString() (Token, error) {
	raw, err := s.dec.ReadValue()
	if err != nil {
		return Token{}, err
	}

	if bytes.IndexByte(raw, '\\') >= 0 {
		unquoted, err := jsontext.AppendUnquote(nil, raw)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokenString, Str: string(unquoted)}, nil
	}

	// raw includes both quotes; the offset points just past the closing one
	end := int(s.dec.InputOffset()) - 1
	start := end - (len(raw) - 2)
	if start == end {
		return Token{Kind: TokenString, Borrowed: true}, nil
	}

	return Token{
		Kind:     TokenString,
		Str:      unsafe.String(&s.data[start], end-start),
		Borrowed: true,
	}, nil
}
