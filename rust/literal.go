package rust

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teranos/configstruct/value"
)

// Literal renders v as a Rust initializer expression usable in a const.
// indent is the column (in spaces) of the line the literal starts on; nested
// struct fields are indented four spaces deeper.
func Literal(v value.Value, indent, maxArraySize int) string {
	var b strings.Builder
	writeLiteral(&b, v, indent, maxArraySize)
	return b.String()
}

// StructLiteral renders the initializer for s, used as the const value.
func StructLiteral(s *value.Struct, indent, maxArraySize int) string {
	var b strings.Builder
	writeStruct(&b, s, indent, maxArraySize)
	return b.String()
}

func writeLiteral(b *strings.Builder, v value.Value, indent, maxArraySize int) {
	switch t := v.(type) {
	case value.Unit:
		b.WriteString("()")
	case value.Bool:
		b.WriteString(strconv.FormatBool(bool(t)))
	case value.Char:
		b.WriteString(quoteChar(rune(t)))
	case value.I8:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case value.I16:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case value.I32:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case value.I64:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case value.Isize:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case value.U8:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case value.U16:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case value.U32:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case value.U64:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case value.Usize:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case value.F32:
		b.WriteString(formatFloat(float64(t), 32))
	case value.F64:
		b.WriteString(formatFloat(float64(t), 64))
	case value.String:
		fmt.Fprintf(b, "Cow::Borrowed(%s)", quoteString(string(t)))
	case value.Option:
		if t.Value == nil {
			b.WriteString("None")
			return
		}
		b.WriteString("Some(")
		writeLiteral(b, t.Value, indent, maxArraySize)
		b.WriteByte(')')
	case value.Array:
		fixed := fixedSize(t, maxArraySize)
		if fixed {
			b.WriteByte('[')
		} else {
			b.WriteString("Cow::Borrowed(&[")
		}
		for i, elem := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			writeLiteral(b, elem, indent+4, maxArraySize)
		}
		if fixed {
			b.WriteByte(']')
		} else {
			b.WriteString("])")
		}
	case *value.Struct:
		writeStruct(b, t, indent, maxArraySize)
	default:
		panic(fmt.Sprintf("rust: unsupported value type %T", v))
	}
}

func writeStruct(b *strings.Builder, s *value.Struct, indent, maxArraySize int) {
	b.WriteString(s.Name)
	b.WriteString(" {\n")
	pad := strings.Repeat(" ", indent+4)
	for _, key := range s.Keys() {
		b.WriteString(pad)
		b.WriteString(Ident(key))
		b.WriteString(": ")
		writeLiteral(b, s.Fields[key], indent+4, maxArraySize)
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteByte('}')
}

// formatFloat always keeps a fractional part so the literal stays a float.
func formatFloat(f float64, bits int) string {
	prefix := "f64"
	if bits == 32 {
		prefix = "f32"
	}
	switch {
	case math.IsNaN(f):
		return prefix + "::NAN"
	case math.IsInf(f, 1):
		return prefix + "::INFINITY"
	case math.IsInf(f, -1):
		return prefix + "::NEG_INFINITY"
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
