package rust

import (
	"fmt"
	"strings"
)

// rustKeywords need the r# prefix to be usable as field names.
// crate, self, Self and super cannot be raw identifiers and are left alone.
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "static": true, "struct": true,
	"trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
	// reserved for future use
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"gen": true, "macro": true, "override": true, "priv": true, "try": true,
	"typeof": true, "unsized": true, "virtual": true,
}

// Ident converts a field name to a valid Rust identifier.
// Adds r# prefix for Rust keywords.
func Ident(s string) string {
	if rustKeywords[s] {
		return "r#" + s
	}
	return s
}

// quoteString renders s as a Rust string literal.
// Content without quotes, backslashes or control characters is kept verbatim.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		writeEscaped(&b, r, '"')
	}
	b.WriteByte('"')
	return b.String()
}

// quoteChar renders r as a Rust char literal.
func quoteChar(r rune) string {
	var b strings.Builder
	b.WriteByte('\'')
	writeEscaped(&b, r, '\'')
	b.WriteByte('\'')
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune, quote rune) {
	switch r {
	case '\\':
		b.WriteString(`\\`)
	case quote:
		b.WriteByte('\\')
		b.WriteRune(r)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	case 0:
		b.WriteString(`\0`)
	default:
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(b, `\u{%x}`, r)
			return
		}
		b.WriteRune(r)
	}
}
