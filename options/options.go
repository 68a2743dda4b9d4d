// Package options holds the settings of the struct and enum pipelines.
//
// Start from DefaultStructOptions or DefaultEnumOptions and override fields;
// the zero values are not the defaults.
package options

import (
	"fmt"
	"strings"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/format"
	"github.com/teranos/configstruct/rust"
	"github.com/teranos/configstruct/validation"
	"github.com/teranos/configstruct/value"
)

// SerdeSupport selects the serde derives added to generated types.
type SerdeSupport struct {
	Serialize   bool
	Deserialize bool
}

var (
	SerdeNone = SerdeSupport{}
	SerdeYes  = SerdeSupport{Serialize: true, Deserialize: true}
)

// SerdeMixed picks each derive independently. Both false is the same as
// SerdeNone.
func SerdeMixed(serialize, deserialize bool) SerdeSupport {
	return SerdeSupport{Serialize: serialize, Deserialize: deserialize}
}

// IsNone reports whether no serde derive is requested.
func (s SerdeSupport) IsNone() bool {
	return !s.Serialize && !s.Deserialize
}

func (s SerdeSupport) String() string {
	switch {
	case s.Serialize && s.Deserialize:
		return "yes"
	case s.Serialize:
		return "serialize"
	case s.Deserialize:
		return "deserialize"
	default:
		return "none"
	}
}

// ParseSerdeSupport accepts "none", "yes" (or "both", "full"), "serialize"
// and "deserialize".
func ParseSerdeSupport(s string) (SerdeSupport, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "no", "false":
		return SerdeNone, nil
	case "yes", "both", "full", "true":
		return SerdeYes, nil
	case "serialize", "ser":
		return SerdeMixed(true, false), nil
	case "deserialize", "de":
		return SerdeMixed(false, true), nil
	default:
		return SerdeNone, fmt.Errorf("unknown serde support %q", s)
	}
}

func (s SerdeSupport) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SerdeSupport) UnmarshalText(text []byte) error {
	parsed, err := ParseSerdeSupport(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DynamicLoading decides whether generated load functions read the source
// file at run time.
type DynamicLoading int

const (
	// DebugOnly reads the file in debug builds and uses the const otherwise.
	DebugOnly DynamicLoading = iota
	// Always reads the file on every call.
	Always
	// Never returns the embedded const.
	Never
)

func (d DynamicLoading) String() string {
	switch d {
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "debug_only"
	}
}

// ParseDynamicLoading accepts "always", "debug_only" (or "debug-only",
// "debug") and "never".
func ParseDynamicLoading(s string) (DynamicLoading, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return Always, nil
	case "", "debug_only", "debug-only", "debugonly", "debug":
		return DebugOnly, nil
	case "never":
		return Never, nil
	default:
		return DebugOnly, fmt.Errorf("unknown dynamic loading mode %q", s)
	}
}

func (d DynamicLoading) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DynamicLoading) UnmarshalText(text []byte) error {
	parsed, err := ParseDynamicLoading(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StructOptions configures struct generation.
type StructOptions struct {
	// Format of the source. Auto detects it from the file name.
	Format format.Format
	// StructName is the name of the root type.
	StructName string
	// ConstName names the generated const. Empty means the upper-cased
	// struct name.
	ConstName string
	// GenerateConst emits the const. It is also emitted whenever static load
	// functions need it.
	GenerateConst bool
	// DerivedTraits are derived on every generated type, in order.
	DerivedTraits []string
	Serde         SerdeSupport
	// UseSerdeDeriveCrate derives through serde_derive:: instead of serde::.
	UseSerdeDeriveCrate bool
	// GenerateLoadFns emits load() and load_from() on the root type.
	GenerateLoadFns bool
	DynamicLoading  DynamicLoading
	// CreateDirs creates missing parent directories of the destination.
	CreateDirs bool
	// WriteOnlyIfChanged skips writing when the destination already holds
	// the generated text, so build tools see no change.
	WriteOnlyIfChanged bool
	DefaultFloatSize   value.FloatSize
	DefaultIntSize     value.IntSize
	// MaxArraySize is the longest array rendered as a fixed-size array.
	// 0 renders every array as a slice.
	MaxArraySize int
}

// DefaultStructOptions returns the documented defaults.
func DefaultStructOptions() StructOptions {
	return StructOptions{
		Format:             format.Auto,
		StructName:         "Config",
		GenerateConst:      true,
		DerivedTraits:      []string{"Debug", "Clone"},
		Serde:              SerdeNone,
		DynamicLoading:     DebugOnly,
		CreateDirs:         true,
		WriteOnlyIfChanged: true,
		DefaultFloatSize:   value.FloatF64,
		DefaultIntSize:     value.IntI64,
	}
}

// RealConstName returns ConstName, or the upper-cased struct name when it is
// empty.
func (o StructOptions) RealConstName() string {
	if o.ConstName != "" {
		return o.ConstName
	}
	return strings.ToUpper(o.StructName)
}

// NeedsConst reports whether the const is emitted.
func (o StructOptions) NeedsConst() bool {
	return o.GenerateConst || (o.GenerateLoadFns && o.DynamicLoading != Always)
}

// NeedsFilePath reports whether the output embeds the source path.
func (o StructOptions) NeedsFilePath() bool {
	return o.GenerateLoadFns && o.DynamicLoading != Never
}

// Derives converts the trait and serde settings for the emitter.
func (o StructOptions) Derives() rust.Derives {
	return rust.Derives{
		Traits:           o.DerivedTraits,
		Serialize:        o.Serde.Serialize,
		Deserialize:      o.Serde.Deserialize,
		SerdeDeriveCrate: o.UseSerdeDeriveCrate,
	}
}

// Validate checks the names before any parsing happens.
func (o StructOptions) Validate() error {
	if !validation.IsIdentifier(o.StructName) {
		return &errors.OptionsError{Kind: errors.InvalidStructName, Name: o.StructName}
	}
	if !validation.IsIdentifier(o.RealConstName()) {
		return &errors.OptionsError{Kind: errors.InvalidConstName, Name: o.RealConstName()}
	}
	return nil
}

// EnumOptions configures enum generation.
type EnumOptions struct {
	// Format of the source. Auto detects it from the file name.
	Format format.Format
	// EnumName is the name of the generated enum.
	EnumName string
	// AllVariantsConst names the const listing every variant. Empty disables
	// it, and FromStr with it.
	AllVariantsConst      string
	DerivedTraits         []string
	FirstVariantIsDefault bool
	ImplDisplay           bool
	ImplFromStr           bool
	Serde                 SerdeSupport
	UseSerdeDeriveCrate   bool
	CreateDirs            bool
	WriteOnlyIfChanged    bool
}

// DefaultEnumOptions returns the documented defaults.
func DefaultEnumOptions() EnumOptions {
	return EnumOptions{
		Format:                format.Auto,
		EnumName:              "Key",
		AllVariantsConst:      "ALL",
		DerivedTraits:         []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "PartialOrd", "Ord", "Hash"},
		FirstVariantIsDefault: true,
		ImplDisplay:           true,
		ImplFromStr:           true,
		Serde:                 SerdeNone,
		CreateDirs:            true,
		WriteOnlyIfChanged:    true,
	}
}

// EnumConfig converts the options for the emitter.
func (o EnumOptions) EnumConfig() rust.EnumConfig {
	return rust.EnumConfig{
		Name: o.EnumName,
		Derives: rust.Derives{
			Traits:           o.DerivedTraits,
			Serialize:        o.Serde.Serialize,
			Deserialize:      o.Serde.Deserialize,
			SerdeDeriveCrate: o.UseSerdeDeriveCrate,
		},
		AllVariantsConst:      o.AllVariantsConst,
		FirstVariantIsDefault: o.FirstVariantIsDefault,
		ImplDisplay:           o.ImplDisplay,
		ImplFromStr:           o.ImplFromStr,
	}
}

// Validate checks the enum and const names.
func (o EnumOptions) Validate() error {
	if !validation.IsIdentifier(o.EnumName) {
		return &errors.OptionsError{Kind: errors.InvalidEnumName, Name: o.EnumName}
	}
	if o.AllVariantsConst != "" && !validation.IsIdentifier(o.AllVariantsConst) {
		return &errors.OptionsError{Kind: errors.InvalidConstName, Name: o.AllVariantsConst}
	}
	return nil
}
