// Package rust renders configuration values as Rust declarations, literals
// and load helpers.
package rust

import (
	"fmt"

	"github.com/teranos/configstruct/value"
)

// Primitive type names, one per scalar kind.
const (
	TypeUnit   = "()"
	TypeString = "Cow<'static, str>"
)

// TypeOf returns the Rust type of v.
//
// An absent Option and an empty array both take their element type from Unit,
// which keeps a field's type stable whether or not a document supplies it.
// Non-empty arrays of at most maxArraySize elements become fixed-size arrays;
// every other array becomes Cow<'static, [T]>, so the same declaration serves
// the embedded constant (borrowed) and runtime-loaded values (owned).
func TypeOf(v value.Value, maxArraySize int) string {
	switch t := v.(type) {
	case value.Unit:
		return TypeUnit
	case value.Bool:
		return "bool"
	case value.Char:
		return "char"
	case value.I8:
		return "i8"
	case value.I16:
		return "i16"
	case value.I32:
		return "i32"
	case value.I64:
		return "i64"
	case value.Isize:
		return "isize"
	case value.U8:
		return "u8"
	case value.U16:
		return "u16"
	case value.U32:
		return "u32"
	case value.U64:
		return "u64"
	case value.Usize:
		return "usize"
	case value.F32:
		return "f32"
	case value.F64:
		return "f64"
	case value.String:
		return TypeString
	case value.Option:
		inner := t.Value
		if inner == nil {
			inner = value.Unit{}
		}
		return fmt.Sprintf("Option<%s>", TypeOf(inner, maxArraySize))
	case value.Array:
		var elem value.Value = value.Unit{}
		if len(t) > 0 {
			elem = t[0]
		}
		elemType := TypeOf(elem, maxArraySize)
		if fixedSize(t, maxArraySize) {
			return fmt.Sprintf("[%s; %d]", elemType, len(t))
		}
		return fmt.Sprintf("Cow<'static, [%s]>", elemType)
	case *value.Struct:
		return t.Name
	default:
		panic(fmt.Sprintf("rust: unsupported value type %T", v))
	}
}

// fixedSize is the single array-vs-slice decision shared by types and literals.
func fixedSize(arr value.Array, maxArraySize int) bool {
	return len(arr) > 0 && len(arr) <= maxArraySize
}
