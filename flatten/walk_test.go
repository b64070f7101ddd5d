package flatten

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"unsafe"
)

const johnDocument = `{
	"name": "John",
	"isAlive": true,
	"age": -27,
	"address": {
		"streetAddress": "21 2nd Street"
	},
	"numbers": [12.32]
}`

const johnDocumentWithNull = `{
	"name": "John",
	"isAlive": true,
	"age": -27,
	"missing": null,
	"address": {
		"streetAddress": "21 2nd Street"
	},
	"numbers": [12.32]
}`

type pairRecorder struct {
	pairs [][2]string
}

func (r *pairRecorder) VisitAny(path *Path, value Value) {
	r.pairs = append(r.pairs, [2]string{path.String(), value.String()})
}

// walkers runs every test document through each entry point.
var walkers = []struct {
	name string
	walk func(doc string, v Visitor) error
}{
	{name: "bytes", walk: func(doc string, v Visitor) error { return Bytes([]byte(doc), v) }},
	{name: "bytes_borrow", walk: func(doc string, v Visitor) error { return Bytes([]byte(doc), v, Borrow()) }},
	{name: "reader", walk: func(doc string, v Visitor) error { return Reader(strings.NewReader(doc), v) }},
}

func TestWalk_Documents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want [][2]string
	}{
		{
			name: "john",
			doc:  johnDocument,
			want: [][2]string{
				{"name", "John"},
				{"isAlive", "true"},
				{"age", "-27"},
				{"address/streetAddress", "21 2nd Street"},
				{"numbers/0", "12.32"},
			},
		},
		{
			name: "john_with_null",
			doc:  johnDocumentWithNull,
			want: [][2]string{
				{"name", "John"},
				{"isAlive", "true"},
				{"age", "-27"},
				{"missing", ""},
				{"address/streetAddress", "21 2nd Street"},
				{"numbers/0", "12.32"},
			},
		},
		{name: "scalar_string", doc: `"hello"`, want: [][2]string{{"", "hello"}}},
		{name: "scalar_number", doc: `42`, want: [][2]string{{"", "42"}}},
		{name: "scalar_null", doc: `null`, want: [][2]string{{"", ""}}},
		{name: "scalar_false", doc: ` false `, want: [][2]string{{"", "false"}}},
		{name: "empty_object", doc: `{}`, want: nil},
		{name: "empty_array", doc: `[]`, want: nil},
		{name: "nested_empty", doc: `{"a":{},"b":[[],{}],"c":[{}]}`, want: nil},
		{
			name: "siblings",
			doc:  `[[1,2],[3,[4]],{"k":[5]}]`,
			want: [][2]string{
				{"0/0", "1"},
				{"0/1", "2"},
				{"1/0", "3"},
				{"1/1/0", "4"},
				{"2/k/0", "5"},
			},
		},
		{
			name: "document_order_not_sorted",
			doc:  `{"z":1,"a":2,"m":{"y":3,"b":4}}`,
			want: [][2]string{{"z", "1"}, {"a", "2"}, {"m/y", "3"}, {"m/b", "4"}},
		},
		{
			name: "numbers",
			doc:  `[0, 18446744073709551615, -9223372036854775808, 1.5, 1e3, -0.25]`,
			want: [][2]string{
				{"0", "0"},
				{"1", "18446744073709551615"},
				{"2", "-9223372036854775808"},
				{"3", "1.5"},
				{"4", "1000"},
				{"5", "-0.25"},
			},
		},
		{
			name: "escaped_strings",
			doc:  `{"a\"b":"line\nbreak","tab\t":"é"}`,
			want: [][2]string{{"a\"b", "line\nbreak"}, {"tab\t", "é"}},
		},
		{
			name: "separator_in_name_is_not_escaped",
			doc:  `{"a/b":{"c":true}}`,
			want: [][2]string{{"a/b/c", "true"}},
		},
		{
			name: "duplicate_names",
			doc:  `{"a":1,"a":2}`,
			want: [][2]string{{"a", "1"}, {"a", "2"}},
		},
	}

	for _, w := range walkers {
		for _, tt := range tests {
			t.Run(w.name+"/"+tt.name, func(t *testing.T) {
				var r pairRecorder
				if err := w.walk(tt.doc, &r); err != nil {
					t.Fatalf("walk error = %v", err)
				}
				if !reflect.DeepEqual(r.pairs, tt.want) {
					t.Errorf("pairs = %q, want %q", r.pairs, tt.want)
				}
			})
		}
	}
}

func TestWalk_DispatchCountMatchesLeaves(t *testing.T) {
	t.Parallel()

	doc := `{"a":[1,2,{"b":null,"c":[true,false,"x"]}],"d":{},"e":[],"f":-1.5}`

	for _, w := range walkers {
		t.Run(w.name, func(t *testing.T) {
			var c Counter
			if err := w.walk(doc, &c); err != nil {
				t.Fatalf("walk error = %v", err)
			}
			if c.Total != 7 {
				t.Errorf("Total = %d, want 7", c.Total)
			}
			var want [KindBool + 1]int
			want[KindNull] = 1
			want[KindString] = 1
			want[KindUint64] = 2
			want[KindFloat64] = 1
			want[KindBool] = 2
			if c.ByKind != want {
				t.Errorf("ByKind = %v, want %v", c.ByKind, want)
			}
			if c.MaxDepth != 4 {
				t.Errorf("MaxDepth = %d, want 4", c.MaxDepth)
			}
		})
	}
}

func TestWalk_DeepArrays(t *testing.T) {
	t.Parallel()

	const depth = 500
	doc := strings.Repeat("[", depth) + `"x"` + strings.Repeat("]", depth)
	want := strings.TrimSuffix(strings.Repeat("0/", depth), "/")

	for _, w := range walkers {
		t.Run(w.name, func(t *testing.T) {
			var r pairRecorder
			if err := w.walk(doc, &r); err != nil {
				t.Fatalf("walk error = %v", err)
			}
			if len(r.pairs) != 1 {
				t.Fatalf("got %d pairs, want 1", len(r.pairs))
			}
			if r.pairs[0][0] != want {
				t.Errorf("path has %d chars, want %d", len(r.pairs[0][0]), len(want))
			}
		})
	}
}

func TestWalk_MaxDepth(t *testing.T) {
	t.Parallel()

	nested := func(depth int) string {
		return strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth)
	}

	t.Run("at_limit", func(t *testing.T) {
		var r pairRecorder
		if err := Reader(strings.NewReader(nested(MaxDepth)), &r); err != nil {
			t.Fatalf("Reader() error = %v", err)
		}
		if len(r.pairs) != 1 {
			t.Errorf("got %d pairs, want 1", len(r.pairs))
		}
	})

	for _, w := range walkers {
		t.Run(w.name+"/over_limit", func(t *testing.T) {
			var r pairRecorder
			err := w.walk(nested(MaxDepth+1), &r)
			if !errors.Is(err, ErrSource) {
				t.Fatalf("walk error = %v, want source failure", err)
			}
			if len(r.pairs) != 0 {
				t.Errorf("dispatched %d pairs, want 0", len(r.pairs))
			}
		})
	}

	t.Run("reader_open_brackets_only", func(t *testing.T) {
		var r pairRecorder
		err := Reader(strings.NewReader(strings.Repeat("[", 1_000_000)), &r)
		if !errors.Is(err, ErrTooDeep) {
			t.Fatalf("Reader() error = %v, want ErrTooDeep", err)
		}
		var srcErr *SourceError
		if !errors.As(err, &srcErr) {
			t.Errorf("error %T is not a *SourceError", err)
		}
	})
}

func TestWalk_DeepSiblings(t *testing.T) {
	t.Parallel()

	// [[[1],[2]],[[3],[4]]]
	doc := `[[[1],[2]],[[3],[4]]]`
	want := [][2]string{{"0/0/0", "1"}, {"0/1/0", "2"}, {"1/0/0", "3"}, {"1/1/0", "4"}}

	var r pairRecorder
	if err := Bytes([]byte(doc), &r); err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !reflect.DeepEqual(r.pairs, want) {
		t.Errorf("pairs = %q, want %q", r.pairs, want)
	}
}

func TestWalk_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		doc       string
		wantPairs int
		wantEOF   bool
	}{
		{name: "empty", doc: "", wantEOF: true},
		{name: "whitespace", doc: "  \n", wantEOF: true},
		{name: "truncated_member", doc: `{"a":`, wantEOF: true},
		{name: "truncated_after_leaf", doc: `{"a":1,"b":[true`, wantPairs: 2, wantEOF: true},
		{name: "bad_literal", doc: `{"a":tru}`},
		{name: "missing_colon", doc: `{"a" 1}`},
		{name: "trailing_comma", doc: `[1,2,]`, wantPairs: 2},
		{name: "close_mismatch", doc: `[1}`, wantPairs: 1},
	}

	for _, w := range walkers {
		for _, tt := range tests {
			t.Run(w.name+"/"+tt.name, func(t *testing.T) {
				var r pairRecorder
				err := w.walk(tt.doc, &r)
				if err == nil {
					t.Fatal("walk error = nil, want source failure")
				}
				if !errors.Is(err, ErrSource) {
					t.Errorf("errors.Is(err, ErrSource) = false for %v", err)
				}
				var srcErr *SourceError
				if !errors.As(err, &srcErr) {
					t.Errorf("error %T is not a *SourceError", err)
				}
				if tt.wantEOF && !errors.Is(err, io.ErrUnexpectedEOF) {
					t.Errorf("error = %v, want io.ErrUnexpectedEOF", err)
				}
				if len(r.pairs) != tt.wantPairs {
					t.Errorf("dispatched %d pairs before failing, want %d", len(r.pairs), tt.wantPairs)
				}
			})
		}
	}
}

func TestWalk_TrailingInputIsNotRead(t *testing.T) {
	t.Parallel()

	var r pairRecorder
	if err := Bytes([]byte(`{"a":1} garbage`), &r); err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if len(r.pairs) != 1 {
		t.Errorf("got %d pairs, want 1", len(r.pairs))
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestReader_IOError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	r := &failingReader{data: []byte(`{"a":[1,2`), err: errBoom}

	var c Counter
	err := Reader(r, &c)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Reader() error = %v, want wrapped %v", err, errBoom)
	}
	if !errors.Is(err, ErrSource) {
		t.Errorf("Reader() error = %v, want ErrSource", err)
	}
}

// sliceSource replays a fixed token list.
type sliceSource struct {
	tokens []Token
	pos    int
}

func (s *sliceSource) Next() (Token, error) {
	if s.pos == len(s.tokens) {
		return Token{}, io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

func (s *sliceSource) InputOffset() int64 {
	return int64(s.pos)
}

// balanceChecker asserts that the walker path matches the expected depth.
type balanceChecker struct {
	t     *testing.T
	depth []int
	i     int
}

func (b *balanceChecker) VisitAny(path *Path, _ Value) {
	if path.Len() != b.depth[b.i] {
		b.t.Errorf("leaf %d: depth = %d, want %d", b.i, path.Len(), b.depth[b.i])
	}
	b.i++
}

func TestWalk_PathBalancedOnSuccessAndFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tokens  []Token
		depths  []int
		wantErr error
	}{
		{
			name: "complete",
			tokens: []Token{
				{Kind: TokenObjectStart},
				{Kind: TokenString, Str: "a"},
				{Kind: TokenArrayStart},
				{Kind: TokenNull},
				{Kind: TokenObjectStart},
				{Kind: TokenString, Str: "b"},
				{Kind: TokenBool, Bool: true},
				{Kind: TokenObjectEnd},
				{Kind: TokenArrayEnd},
				{Kind: TokenString, Str: "c"},
				{Kind: TokenInt64, Int: -1},
				{Kind: TokenObjectEnd},
			},
			depths: []int{2, 3, 1},
		},
		{
			name: "truncated",
			tokens: []Token{
				{Kind: TokenArrayStart},
				{Kind: TokenArrayStart},
				{Kind: TokenUint64, Uint: 1},
			},
			depths:  []int{2},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name: "non_string_name",
			tokens: []Token{
				{Kind: TokenObjectStart},
				{Kind: TokenString, Str: "a"},
				{Kind: TokenObjectStart},
				{Kind: TokenUint64, Uint: 1},
			},
			wantErr: ErrMalformed,
		},
		{
			name:    "stray_end",
			tokens:  []Token{{Kind: TokenArrayEnd}},
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := walker{
				src: &sliceSource{tokens: tt.tokens},
				d:   newDispatcher(&balanceChecker{t: t, depth: tt.depths}),
			}

			err := w.value()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("value() error = %v, want %v", err, tt.wantErr)
			}
			if !w.path.IsEmpty() {
				t.Errorf("path after walk = %q, want empty", w.path.String())
			}
		})
	}
}

func TestWalk_PanickingVisitorLeavesPathBalanced(t *testing.T) {
	t.Parallel()

	w := walker{
		src: NewBytesSource([]byte(`{"a":{"b":[1]}}`), false),
		d: newDispatcher(VisitorFunc(func(*Path, Value) {
			panic("visitor defect")
		})),
	}

	func() {
		defer func() { _ = recover() }()
		_ = w.value()
	}()

	if !w.path.IsEmpty() {
		t.Errorf("path after panic = %q, want empty", w.path.String())
	}
}

func TestWalk_Float32Token(t *testing.T) {
	t.Parallel()

	src := &sliceSource{tokens: []Token{{Kind: TokenFloat32, Float: 0.5}}}

	var c Collector
	if err := Walk(src, &c); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(c.Entries) != 1 || c.Entries[0].Value.Kind() != KindFloat32 {
		t.Fatalf("entries = %+v, want one f32 leaf", c.Entries)
	}
	if got := c.Entries[0].Value.String(); got != "0.5" {
		t.Errorf("value = %q, want \"0.5\"", got)
	}
}

type borrowRecorder struct {
	borrowed map[string]bool
}

func (b *borrowRecorder) VisitAny(path *Path, value Value) {
	b.borrowed[path.String()] = value.Borrowed()
}

func TestBytes_Borrowing(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"plain":"abc","escaped":"a\u0062c","empty":"","n":1}`)

	t.Run("borrow", func(t *testing.T) {
		r := &borrowRecorder{borrowed: map[string]bool{}}
		if err := Bytes(doc, r, Borrow()); err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		want := map[string]bool{"plain": true, "escaped": false, "empty": true, "n": false}
		if !reflect.DeepEqual(r.borrowed, want) {
			t.Errorf("borrowed = %v, want %v", r.borrowed, want)
		}
	})

	t.Run("owned", func(t *testing.T) {
		r := &borrowRecorder{borrowed: map[string]bool{}}
		if err := Bytes(doc, r); err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		for path, borrowed := range r.borrowed {
			if borrowed {
				t.Errorf("%s reported as borrowed without Borrow()", path)
			}
		}
	})

	t.Run("aliases_input", func(t *testing.T) {
		data := bytes.Clone(doc)
		want := unsafe.SliceData(data[bytes.Index(data, []byte("abc")):])
		aliased := false
		v := VisitorFunc(func(path *Path, value Value) {
			if path.String() == "plain" {
				s, _ := value.AsString()
				aliased = unsafe.StringData(s) == want
			}
		})
		if err := Bytes(data, v, Borrow()); err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		if !aliased {
			t.Error("borrowed string does not alias the input buffer")
		}
	})
}

func BenchmarkBytes(b *testing.B) {
	doc := []byte(`{"items":[` + strings.TrimSuffix(strings.Repeat(`{"id":1,"name":"item","tags":["a","b"],"price":12.5,"ok":true,"x":null},`, 1000), ",") + `]}`)
	b.SetBytes(int64(len(doc)))

	for _, borrow := range []bool{false, true} {
		name := "owned"
		var opts []Option
		if borrow {
			name = "borrowed"
			opts = append(opts, Borrow())
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				var c Counter
				if err := Bytes(doc, &c, opts...); err != nil {
					b.Fatal(err)
				}
			}
		})
	}

	b.Run("reader", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			var c Counter
			if err := Reader(bytes.NewReader(doc), &c); err != nil {
				b.Fatal(err)
			}
		}
	})
}
