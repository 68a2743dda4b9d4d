package rust

import (
	"fmt"
	"strings"
)

// EnumConfig controls which items accompany a generated enum.
type EnumConfig struct {
	Name    string
	Derives Derives
	// AllVariantsConst names the associated const listing every variant.
	// Empty disables the const and, with it, FromStr.
	AllVariantsConst      string
	FirstVariantIsDefault bool
	ImplDisplay           bool
	ImplFromStr           bool
}

// Enum emits a complete file declaring an enum with one variant per key, in
// the order given.
func Enum(keys []string, cfg EnumConfig) string {
	var b strings.Builder
	b.WriteString(Header)

	b.WriteString(cfg.Derives.Line())
	fmt.Fprintf(&b, "pub enum %s {\n", cfg.Name)
	for _, key := range keys {
		fmt.Fprintf(&b, "    %s,\n", key)
	}
	b.WriteString("}\n")

	if cfg.AllVariantsConst != "" {
		qualified := make([]string, len(keys))
		for i, key := range keys {
			qualified[i] = cfg.Name + "::" + key
		}
		fmt.Fprintf(&b, "\nimpl %s {\n", cfg.Name)
		fmt.Fprintf(&b, "    pub const %s: &'static [%s] = &[%s];\n", cfg.AllVariantsConst, cfg.Name, strings.Join(qualified, ", "))
		b.WriteString("}\n")
	}

	if len(keys) > 0 && cfg.FirstVariantIsDefault {
		fmt.Fprintf(&b, "\nimpl Default for %s {\n", cfg.Name)
		b.WriteString("    fn default() -> Self {\n")
		fmt.Fprintf(&b, "        Self::%s\n", keys[0])
		b.WriteString("    }\n")
		b.WriteString("}\n")
	}

	if cfg.ImplDisplay {
		fmt.Fprintf(&b, "\nimpl std::fmt::Display for %s {\n", cfg.Name)
		b.WriteString("    fn fmt(&self, f: &mut std::fmt::Formatter) -> std::fmt::Result {\n")
		b.WriteString("        write!(f, \"{:?}\", self)\n")
		b.WriteString("    }\n")
		b.WriteString("}\n")
	}

	if cfg.ImplFromStr && cfg.AllVariantsConst != "" {
		quoted := make([]string, len(keys))
		for i, key := range keys {
			quoted[i] = quoteString(key)
		}
		fmt.Fprintf(&b, "\nimpl std::str::FromStr for %s {\n", cfg.Name)
		b.WriteString("    type Err = ();\n\n")
		b.WriteString("    fn from_str(s: &str) -> Result<Self, Self::Err> {\n")
		fmt.Fprintf(&b, "        const STRINGS: &'static [&'static str] = &[%s];\n\n", strings.Join(quoted, ", "))
		b.WriteString("        for (index, &key) in STRINGS.iter().enumerate() {\n")
		b.WriteString("            if key == s {\n")
		fmt.Fprintf(&b, "                return Ok(%s::%s[index]);\n", cfg.Name, cfg.AllVariantsConst)
		b.WriteString("            }\n")
		b.WriteString("        }\n\n")
		b.WriteString("        Err(())\n")
		b.WriteString("    }\n")
		b.WriteString("}\n")
	}

	return b.String()
}
