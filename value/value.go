// Package value defines the canonical representation every input format is
// normalized into before code is emitted.
//
// A document becomes a tree of Value nodes rooted at a *Struct. Trees are
// built fresh per generation call, never contain back-references and are not
// mutated once validation starts.
package value

import "sort"

// Value is one node of the tree. The set of implementations is closed.
type Value interface {
	isValue()
}

type (
	// Unit is the "no value" placeholder.
	Unit struct{}
	Bool bool
	Char rune

	I8    int8
	I16   int16
	I32   int32
	I64   int64
	Isize int64

	U8    uint8
	U16   uint16
	U32   uint32
	U64   uint64
	Usize uint64

	F32 float32
	F64 float64

	String string

	// Option is an optional value. A nil Value means absent, which is
	// distinct from Option{Value: Unit{}}.
	Option struct {
		Value Value
	}

	// Array is an ordered sequence. Homogeneity is checked by validation,
	// not enforced here.
	Array []Value
)

func (Unit) isValue()    {}
func (Bool) isValue()    {}
func (Char) isValue()    {}
func (I8) isValue()      {}
func (I16) isValue()     {}
func (I32) isValue()     {}
func (I64) isValue()     {}
func (Isize) isValue()   {}
func (U8) isValue()      {}
func (U16) isValue()     {}
func (U32) isValue()     {}
func (U64) isValue()     {}
func (Usize) isValue()   {}
func (F32) isValue()     {}
func (F64) isValue()     {}
func (String) isValue()  {}
func (Option) isValue()  {}
func (Array) isValue()   {}
func (*Struct) isValue() {}

// Some wraps v in a present Option.
func Some(v Value) Option {
	return Option{Value: v}
}

// None is the absent Option.
func None() Option {
	return Option{}
}

// IsSome reports whether the option holds a value.
func (o Option) IsSome() bool {
	return o.Value != nil
}

// Struct is a named record. Field order is always the lexicographic order of
// the field names.
type Struct struct {
	Name   string
	Fields map[string]Value
}

// NewStruct returns an empty record called name.
func NewStruct(name string) *Struct {
	return &Struct{Name: name, Fields: make(map[string]Value)}
}

// Set stores a field, replacing any previous value under the same name.
func (s *Struct) Set(name string, v Value) {
	if s.Fields == nil {
		s.Fields = make(map[string]Value)
	}
	s.Fields[name] = v
}

// Keys returns the field names in lexicographic order.
func (s *Struct) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields.
func (s *Struct) Len() int {
	return len(s.Fields)
}

// Clone returns a deep copy of the record.
func (s *Struct) Clone() *Struct {
	if s == nil {
		return nil
	}
	out := &Struct{Name: s.Name, Fields: make(map[string]Value, len(s.Fields))}
	for k, v := range s.Fields {
		out.Fields[k] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch t := v.(type) {
	case Option:
		if t.Value == nil {
			return Option{}
		}
		return Option{Value: Clone(t.Value)}
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case *Struct:
		return t.Clone()
	default:
		return v
	}
}

// Equal reports structural equality. Floats compare by value, so NaN is never
// equal to itself.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Option:
		y, ok := b.(Option)
		if !ok {
			return false
		}
		if x.Value == nil || y.Value == nil {
			return x.Value == nil && y.Value == nil
		}
		return Equal(x.Value, y.Value)
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Struct:
		y, ok := b.(*Struct)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		if x.Name != y.Name || len(x.Fields) != len(y.Fields) {
			return false
		}
		for k, xv := range x.Fields {
			yv, ok := y.Fields[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
