package flatten

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jacoelho/jsoneater/internal/number"
)

type readerSource struct {
	dec *json.Decoder
}

// NewReaderSource returns a Source that tokenizes r incrementally. All
// strings it reports are owned.
func NewReaderSource(r io.Reader) Source {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &readerSource{dec: dec}
}

func (s *readerSource) InputOffset() int64 {
	return s.dec.InputOffset()
}

func (s *readerSource) Next() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return Token{Kind: TokenObjectStart}, nil
		case '}':
			return Token{Kind: TokenObjectEnd}, nil
		case '[':
			return Token{Kind: TokenArrayStart}, nil
		default:
			return Token{Kind: TokenArrayEnd}, nil
		}
	case string:
		return Token{Kind: TokenString, Str: v}, nil
	case json.Number:
		return numberToken(v.String())
	case bool:
		return Token{Kind: TokenBool, Bool: v}, nil
	case nil:
		return Token{Kind: TokenNull}, nil
	default:
		return Token{}, fmt.Errorf("%w: unexpected token %T", ErrMalformed, tok)
	}
}

func numberToken(literal string) (Token, error) {
	n, err := number.Classify(literal)
	if err != nil {
		return Token{}, err
	}

	switch n.Kind {
	case number.Uint64:
		return Token{Kind: TokenUint64, Uint: n.Uint}, nil
	case number.Int64:
		return Token{Kind: TokenInt64, Int: n.Int}, nil
	default:
		return Token{Kind: TokenFloat64, Float: n.Float}, nil
	}
}
