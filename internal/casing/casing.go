// Package casing converts file stems into enum variant names.
package casing

import (
	"strings"
	"unicode"
)

// ToPascalCase converts snake_case, kebab-case, dotted or spaced names to
// PascalCase. The first letter of every part is upper-cased, the rest is
// kept as-is.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}
