package rust

import (
	"fmt"
	"path/filepath"

	"github.com/teranos/configstruct/format"
)

// deserializer returns the expression that parses file_contents into Self.
func deserializer(f format.Format) string {
	switch f {
	case format.JSON:
		return "::serde_json::from_str(&file_contents)"
	case format.RON:
		return "::ron::de::from_str(&file_contents)"
	case format.TOML:
		return "::toml::from_str(&file_contents)"
	case format.YAML:
		return "::serde_yaml::from_str(&file_contents)"
	case format.HCL:
		return "::hcl::from_str(&file_contents)"
	default:
		panic(fmt.Sprintf("rust: no deserializer for format %s", f))
	}
}

// DynamicLoadImpl emits load functions that re-read path on every call.
// path is embedded relative to CARGO_MANIFEST_DIR.
func DynamicLoadImpl(f format.Format, structName, path string) string {
	return fmt.Sprintf(`impl %[1]s {
    pub fn load() -> Cow<'static, Self> {
        let filepath = concat!(env!("CARGO_MANIFEST_DIR"), "/%[2]s");
        Self::load_from(filepath.as_ref()).expect("Failed to load %[1]s.")
    }

    pub fn load_from(filepath: &::std::path::Path) -> Result<Cow<'static, Self>, Box<dyn ::std::error::Error>> {
        let file_contents = ::std::fs::read_to_string(filepath)?;
        let result: Self = %[3]s?;
        Ok(Cow::Owned(result))
    }
}`, structName, escapeInString(filepath.ToSlash(path)), deserializer(f))
}

// StaticLoadImpl emits load functions that always return the embedded const.
func StaticLoadImpl(structName, constName string) string {
	return fmt.Sprintf(`impl %[1]s {
    #[inline(always)]
    pub fn load() -> Cow<'static, Self> {
        Cow::Borrowed(&%[2]s)
    }

    #[inline(always)]
    pub fn load_from(_: &::std::path::Path) -> Result<Cow<'static, Self>, Box<dyn ::std::error::Error>> {
        Ok(Cow::Borrowed(&%[2]s))
    }
}`, structName, constName)
}

// DebugOnlyLoadImpl selects the dynamic functions in debug builds and the
// static ones otherwise.
func DebugOnlyLoadImpl(dynamicImpl, staticImpl string) string {
	return fmt.Sprintf("\n#[cfg(debug_assertions)]\n%s\n\n#[cfg(not(debug_assertions))]\n%s\n", dynamicImpl, staticImpl)
}

// Const emits the embedded constant holding the document's values.
func Const(constName, structName, literal string) string {
	return fmt.Sprintf("pub const %s: %s = %s;\n", constName, structName, literal)
}

// escapeInString drops the surrounding quotes of a string literal so the text
// can be spliced into an existing literal.
func escapeInString(s string) string {
	quoted := quoteString(s)
	return quoted[1 : len(quoted)-1]
}
