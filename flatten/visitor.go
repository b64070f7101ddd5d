package flatten

// Visitor receives one call per JSON leaf, in document order.
//
// VisitAny is the only required hook. A visitor may also implement any of the
// typed hook interfaces below; the driver calls a typed hook when present and
// otherwise converts the leaf into a Value and calls VisitAny.
//
// The path and any borrowed strings are only valid during the call. Hooks
// cannot fail: a visitor that writes somewhere should keep its first error and
// become a no-op, see csvwriter.Writer. A visitor is never called concurrently
// with itself.
type Visitor interface {
	VisitAny(path *Path, value Value)
}

// StrVisitor receives strings that may alias the input buffer.
type StrVisitor interface {
	VisitStr(path *Path, value string)
}

// OwnedStringVisitor receives strings the visitor may keep.
type OwnedStringVisitor interface {
	VisitOwnedString(path *Path, value string)
}

type BoolVisitor interface {
	VisitBool(path *Path, value bool)
}

type Uint64Visitor interface {
	VisitUint64(path *Path, value uint64)
}

type Int64Visitor interface {
	VisitInt64(path *Path, value int64)
}

// Float32Visitor is never called by the bundled sources, which report every
// fractional number as float64. Custom sources may use it.
type Float32Visitor interface {
	VisitFloat32(path *Path, value float32)
}

type Float64Visitor interface {
	VisitFloat64(path *Path, value float64)
}

type NullVisitor interface {
	VisitNull(path *Path)
}

// VisitStr delivers a borrowed string to v.
func VisitStr(v Visitor, path *Path, value string) {
	if tv, ok := v.(StrVisitor); ok {
		tv.VisitStr(path, value)
		return
	}
	v.VisitAny(path, BorrowedString(value))
}

// VisitOwnedString delivers an owned string to v.
func VisitOwnedString(v Visitor, path *Path, value string) {
	if tv, ok := v.(OwnedStringVisitor); ok {
		tv.VisitOwnedString(path, value)
		return
	}
	v.VisitAny(path, String(value))
}

func VisitBool(v Visitor, path *Path, value bool) {
	if tv, ok := v.(BoolVisitor); ok {
		tv.VisitBool(path, value)
		return
	}
	v.VisitAny(path, Bool(value))
}

func VisitUint64(v Visitor, path *Path, value uint64) {
	if tv, ok := v.(Uint64Visitor); ok {
		tv.VisitUint64(path, value)
		return
	}
	v.VisitAny(path, Uint64(value))
}

func VisitInt64(v Visitor, path *Path, value int64) {
	if tv, ok := v.(Int64Visitor); ok {
		tv.VisitInt64(path, value)
		return
	}
	v.VisitAny(path, Int64(value))
}

func VisitFloat32(v Visitor, path *Path, value float32) {
	if tv, ok := v.(Float32Visitor); ok {
		tv.VisitFloat32(path, value)
		return
	}
	v.VisitAny(path, Float32(value))
}

func VisitFloat64(v Visitor, path *Path, value float64) {
	if tv, ok := v.(Float64Visitor); ok {
		tv.VisitFloat64(path, value)
		return
	}
	v.VisitAny(path, Float64(value))
}

func VisitNull(v Visitor, path *Path) {
	if tv, ok := v.(NullVisitor); ok {
		tv.VisitNull(path)
		return
	}
	v.VisitAny(path, Null())
}

// VisitValue routes an already built Value through the typed hooks of v, as
// if the driver had produced it.
func VisitValue(v Visitor, path *Path, value Value) {
	switch value.kind {
	case KindString:
		if value.borrowed {
			VisitStr(v, path, value.str)
		} else {
			VisitOwnedString(v, path, value.str)
		}
	case KindUint64:
		x, _ := value.AsUint64()
		VisitUint64(v, path, x)
	case KindInt64:
		x, _ := value.AsInt64()
		VisitInt64(v, path, x)
	case KindFloat32:
		x, _ := value.AsFloat32()
		VisitFloat32(v, path, x)
	case KindFloat64:
		x, _ := value.AsFloat64()
		VisitFloat64(v, path, x)
	case KindBool:
		x, _ := value.AsBool()
		VisitBool(v, path, x)
	default:
		VisitNull(v, path)
	}
}

// Forward implements every hook by delegating to Target with default
// dispatch. Embed it in a wrapper and override only the hooks the wrapper
// intercepts; everything else reaches Target exactly as if Target had been
// passed to the driver directly.
type Forward struct {
	Target Visitor
}

func (f Forward) VisitAny(path *Path, value Value) { f.Target.VisitAny(path, value) }
func (f Forward) VisitStr(path *Path, value string) { VisitStr(f.Target, path, value) }
func (f Forward) VisitOwnedString(path *Path, value string) { VisitOwnedString(f.Target, path, value) }
func (f Forward) VisitBool(path *Path, value bool) { VisitBool(f.Target, path, value) }
func (f Forward) VisitUint64(path *Path, value uint64) { VisitUint64(f.Target, path, value) }
func (f Forward) VisitInt64(path *Path, value int64) { VisitInt64(f.Target, path, value) }
func (f Forward) VisitFloat32(path *Path, value float32) { VisitFloat32(f.Target, path, value) }
func (f Forward) VisitFloat64(path *Path, value float64) { VisitFloat64(f.Target, path, value) }
func (f Forward) VisitNull(path *Path) { VisitNull(f.Target, path) }

// dispatcher resolves the typed hooks of a visitor once per walk.
type dispatcher struct {
	any      Visitor
	str      StrVisitor
	owned    OwnedStringVisitor
	boolean  BoolVisitor
	unsigned Uint64Visitor
	signed   Int64Visitor
	float    Float64Visitor
	null     NullVisitor
}

func newDispatcher(v Visitor) dispatcher {
	d := dispatcher{any: v}
	d.str, _ = v.(StrVisitor)
	d.owned, _ = v.(OwnedStringVisitor)
	d.boolean, _ = v.(BoolVisitor)
	d.unsigned, _ = v.(Uint64Visitor)
	d.signed, _ = v.(Int64Visitor)
	d.float, _ = v.(Float64Visitor)
	d.null, _ = v.(NullVisitor)
	return d
}

func (d *dispatcher) leaf(path *Path, tok Token) {
	switch tok.Kind {
	case TokenString:
		switch {
		case tok.Borrowed && d.str != nil:
			d.str.VisitStr(path, tok.Str)
		case tok.Borrowed:
			d.any.VisitAny(path, BorrowedString(tok.Str))
		case d.owned != nil:
			d.owned.VisitOwnedString(path, tok.Str)
		default:
			d.any.VisitAny(path, String(tok.Str))
		}
	case TokenUint64:
		if d.unsigned != nil {
			d.unsigned.VisitUint64(path, tok.Uint)
			return
		}
		d.any.VisitAny(path, Uint64(tok.Uint))
	case TokenInt64:
		if d.signed != nil {
			d.signed.VisitInt64(path, tok.Int)
			return
		}
		d.any.VisitAny(path, Int64(tok.Int))
	case TokenFloat64:
		if d.float != nil {
			d.float.VisitFloat64(path, tok.Float)
			return
		}
		d.any.VisitAny(path, Float64(tok.Float))
	case TokenFloat32:
		VisitFloat32(d.any, path, float32(tok.Float))
	case TokenBool:
		if d.boolean != nil {
			d.boolean.VisitBool(path, tok.Bool)
			return
		}
		d.any.VisitAny(path, Bool(tok.Bool))
	case TokenNull:
		if d.null != nil {
			d.null.VisitNull(path)
			return
		}
		d.any.VisitAny(path, Null())
	}
}
