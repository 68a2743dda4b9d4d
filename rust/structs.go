package rust

import (
	"strings"

	"github.com/teranos/configstruct/value"
)

// Header opens every generated file. rustfmt is told to leave the file alone
// and dead code lints are silenced because most generated items go unused.
const Header = "#![cfg_attr(rustfmt, rustfmt_skip)]\n#![allow(dead_code)]\n\n"

// CowImport brings in the copy-on-write type used by rendered literals.
const CowImport = "use std::borrow::Cow;\n\n"

// Derives lists the attributes attached to every generated declaration.
type Derives struct {
	// Traits are emitted first, in order.
	Traits      []string
	Serialize   bool
	Deserialize bool
	// SerdeDeriveCrate selects serde_derive:: paths instead of serde::.
	SerdeDeriveCrate bool
}

// Line returns the #[derive(...)] line including its newline, or "" when
// nothing is derived.
func (d Derives) Line() string {
	all := make([]string, 0, len(d.Traits)+2)
	all = append(all, d.Traits...)
	prefix := "serde::"
	if d.SerdeDeriveCrate {
		prefix = "serde_derive::"
	}
	if d.Serialize {
		all = append(all, prefix+"Serialize")
	}
	if d.Deserialize {
		all = append(all, prefix+"Deserialize")
	}
	if len(all) == 0 {
		return ""
	}
	return "#[derive(" + strings.Join(all, ", ") + ")]\n"
}

// Declarations emits one struct declaration per record in the tree, in
// pre-order: a record comes before the records nested in it.
//
// Only the first element of an array decides whether the array holds records.
// Validation guarantees the remaining elements share its type.
func Declarations(root *value.Struct, derives Derives, maxArraySize int) string {
	var b strings.Builder
	writeDeclarations(&b, root, derives.Line(), maxArraySize)
	return b.String()
}

func writeDeclarations(b *strings.Builder, s *value.Struct, deriveLine string, maxArraySize int) {
	keys := s.Keys()

	b.WriteString(deriveLine)
	b.WriteString("#[allow(non_camel_case_types)]\n")
	b.WriteString("pub struct ")
	b.WriteString(s.Name)
	b.WriteString(" {\n")
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, "    pub "+Ident(key)+": "+TypeOf(s.Fields[key], maxArraySize)+",")
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n}\n\n")

	for _, key := range keys {
		for _, nested := range nestedStructs(s.Fields[key]) {
			writeDeclarations(b, nested, deriveLine, maxArraySize)
		}
	}
}

// nestedStructs returns the records a field declares, looking through
// present options and through arrays by their first element.
func nestedStructs(v value.Value) []*value.Struct {
	switch t := v.(type) {
	case *value.Struct:
		return []*value.Struct{t}
	case value.Option:
		if t.Value == nil {
			return nil
		}
		return nestedStructs(t.Value)
	case value.Array:
		if len(t) == 0 {
			return nil
		}
		return nestedStructs(t[0])
	default:
		return nil
	}
}
