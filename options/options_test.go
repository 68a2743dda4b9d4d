package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/format"
	"github.com/teranos/configstruct/value"
)

func TestDefaultStructOptions(t *testing.T) {
	o := DefaultStructOptions()

	assert.Equal(t, format.Auto, o.Format)
	assert.Equal(t, "Config", o.StructName)
	assert.Equal(t, "CONFIG", o.RealConstName())
	assert.True(t, o.GenerateConst)
	assert.Equal(t, []string{"Debug", "Clone"}, o.DerivedTraits)
	assert.True(t, o.Serde.IsNone())
	assert.False(t, o.UseSerdeDeriveCrate)
	assert.False(t, o.GenerateLoadFns)
	assert.Equal(t, DebugOnly, o.DynamicLoading)
	assert.True(t, o.CreateDirs)
	assert.True(t, o.WriteOnlyIfChanged)
	assert.Equal(t, value.FloatF64, o.DefaultFloatSize)
	assert.Equal(t, value.IntI64, o.DefaultIntSize)
	assert.Equal(t, 0, o.MaxArraySize)
	assert.NoError(t, o.Validate())
}

func TestDefaultEnumOptions(t *testing.T) {
	o := DefaultEnumOptions()

	assert.Equal(t, "Key", o.EnumName)
	assert.Equal(t, "ALL", o.AllVariantsConst)
	assert.Equal(t, []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "PartialOrd", "Ord", "Hash"}, o.DerivedTraits)
	assert.True(t, o.FirstVariantIsDefault)
	assert.True(t, o.ImplDisplay)
	assert.True(t, o.ImplFromStr)
	assert.True(t, o.Serde.IsNone())
	assert.NoError(t, o.Validate())
}

func TestStructOptionsValidate(t *testing.T) {
	o := DefaultStructOptions()
	o.StructName = "bad name"
	err := o.Validate()
	require.Error(t, err)
	assert.Equal(t, "Invalid name for a struct: `bad name`.", err.Error())

	o = DefaultStructOptions()
	o.ConstName = "_"
	err = o.Validate()
	var optErr *errors.OptionsError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, errors.InvalidConstName, optErr.Kind)

	o = DefaultStructOptions()
	o.StructName = "ÜberConfig"
	assert.Error(t, o.Validate())
}

func TestEnumOptionsValidate(t *testing.T) {
	o := DefaultEnumOptions()
	o.EnumName = "1Key"
	assert.Equal(t, "Invalid name for an enum: `1Key`.", o.Validate().Error())

	o = DefaultEnumOptions()
	o.AllVariantsConst = ""
	assert.NoError(t, o.Validate(), "an empty const name disables the const")

	o.AllVariantsConst = "ALL VARIANTS"
	assert.Error(t, o.Validate())
}

func TestNeedsConst(t *testing.T) {
	o := DefaultStructOptions()
	o.GenerateConst = false
	assert.False(t, o.NeedsConst())

	o.GenerateLoadFns = true
	for mode, want := range map[DynamicLoading]bool{Always: false, DebugOnly: true, Never: true} {
		o.DynamicLoading = mode
		assert.Equal(t, want, o.NeedsConst(), mode.String())
	}
}

func TestNeedsFilePath(t *testing.T) {
	o := DefaultStructOptions()
	assert.False(t, o.NeedsFilePath())

	o.GenerateLoadFns = true
	for mode, want := range map[DynamicLoading]bool{Always: true, DebugOnly: true, Never: false} {
		o.DynamicLoading = mode
		assert.Equal(t, want, o.NeedsFilePath(), mode.String())
	}
}

func TestSerdeSupport(t *testing.T) {
	assert.True(t, SerdeMixed(false, false).IsNone())
	assert.Equal(t, SerdeNone, SerdeMixed(false, false))
	assert.False(t, SerdeMixed(true, false).IsNone())

	for _, s := range []SerdeSupport{SerdeNone, SerdeYes, SerdeMixed(true, false), SerdeMixed(false, true)} {
		parsed, err := ParseSerdeSupport(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseSerdeSupport("maybe")
	assert.Error(t, err)
}

func TestDynamicLoadingText(t *testing.T) {
	for _, d := range []DynamicLoading{Always, DebugOnly, Never} {
		var parsed DynamicLoading
		text, err := d.MarshalText()
		require.NoError(t, err)
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, d, parsed)
	}

	parsed, err := ParseDynamicLoading("debug-only")
	require.NoError(t, err)
	assert.Equal(t, DebugOnly, parsed)
}

func TestDerives(t *testing.T) {
	o := DefaultStructOptions()
	o.Serde = SerdeYes
	o.UseSerdeDeriveCrate = true

	assert.Equal(t, "#[derive(Debug, Clone, serde_derive::Serialize, serde_derive::Deserialize)]\n", o.Derives().Line())

	e := DefaultEnumOptions()
	cfg := e.EnumConfig()
	assert.Equal(t, "Key", cfg.Name)
	assert.Equal(t, "ALL", cfg.AllVariantsConst)
	assert.Len(t, cfg.Derives.Traits, 8)
}
