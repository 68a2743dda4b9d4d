// Package manifest describes the generation jobs of a project.
//
// A manifest is a configstruct.toml (YAML and JSON work too, chosen by
// extension) at the crate root:
//
//	parallelism = 4
//
//	[[struct]]
//	source = "config/app.toml"
//	destination = "src/config.rs"
//	generate_load_fns = true
//
//	[[enum]]
//	source = "config/app.toml"
//	destination = "src/keys.rs"
//	enum_name = "Section"
//
//	[[files_enum]]
//	directory = "assets"
//	destination = "src/assets.rs"
//
// Job paths are relative to the directory holding the manifest, which is
// also the directory generated load functions resolve against. Fields left
// out of a job keep the library defaults.
package manifest

import (
	"github.com/teranos/configstruct/format"
	"github.com/teranos/configstruct/options"
	"github.com/teranos/configstruct/value"
)

// DefaultFileName is looked up when no manifest path is given.
const DefaultFileName = "configstruct.toml"

// Manifest is the decoded project manifest.
type Manifest struct {
	// Parallelism limits how many jobs run at once.
	Parallelism int            `mapstructure:"parallelism" toml:"parallelism" yaml:"parallelism" json:"parallelism"`
	Structs     []StructJob    `mapstructure:"struct" toml:"struct,omitempty" yaml:"struct,omitempty" json:"struct,omitempty"`
	Enums       []EnumJob      `mapstructure:"enum" toml:"enum,omitempty" yaml:"enum,omitempty" json:"enum,omitempty"`
	FilesEnums  []FilesEnumJob `mapstructure:"files_enum" toml:"files_enum,omitempty" yaml:"files_enum,omitempty" json:"files_enum,omitempty"`

	// Dir is the directory the manifest was loaded from. Job paths are
	// relative to it.
	Dir string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
	// Path is the manifest file itself, empty when it was not read from disk.
	Path string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// StructJob generates a struct module. Pointer fields distinguish "not set"
// from an explicit zero value.
type StructJob struct {
	Source              string   `mapstructure:"source" toml:"source,omitempty" yaml:"source,omitempty" json:"source,omitempty"`
	Destination         string   `mapstructure:"destination" toml:"destination,omitempty" yaml:"destination,omitempty" json:"destination,omitempty"`
	Format              string   `mapstructure:"format" toml:"format,omitempty" yaml:"format,omitempty" json:"format,omitempty"`
	StructName          *string  `mapstructure:"struct_name" toml:"struct_name,omitempty" yaml:"struct_name,omitempty" json:"struct_name,omitempty"`
	ConstName           *string  `mapstructure:"const_name" toml:"const_name,omitempty" yaml:"const_name,omitempty" json:"const_name,omitempty"`
	GenerateConst       *bool    `mapstructure:"generate_const" toml:"generate_const,omitempty" yaml:"generate_const,omitempty" json:"generate_const,omitempty"`
	DerivedTraits       []string `mapstructure:"derived_traits" toml:"derived_traits,omitempty" yaml:"derived_traits,omitempty" json:"derived_traits,omitempty"`
	Serde               string   `mapstructure:"serde" toml:"serde,omitempty" yaml:"serde,omitempty" json:"serde,omitempty"`
	UseSerdeDeriveCrate *bool    `mapstructure:"use_serde_derive_crate" toml:"use_serde_derive_crate,omitempty" yaml:"use_serde_derive_crate,omitempty" json:"use_serde_derive_crate,omitempty"`
	GenerateLoadFns     *bool    `mapstructure:"generate_load_fns" toml:"generate_load_fns,omitempty" yaml:"generate_load_fns,omitempty" json:"generate_load_fns,omitempty"`
	DynamicLoading      string   `mapstructure:"dynamic_loading" toml:"dynamic_loading,omitempty" yaml:"dynamic_loading,omitempty" json:"dynamic_loading,omitempty"`
	CreateDirs          *bool    `mapstructure:"create_dirs" toml:"create_dirs,omitempty" yaml:"create_dirs,omitempty" json:"create_dirs,omitempty"`
	WriteOnlyIfChanged  *bool    `mapstructure:"write_only_if_changed" toml:"write_only_if_changed,omitempty" yaml:"write_only_if_changed,omitempty" json:"write_only_if_changed,omitempty"`
	DefaultFloatSize    string   `mapstructure:"default_float_size" toml:"default_float_size,omitempty" yaml:"default_float_size,omitempty" json:"default_float_size,omitempty"`
	DefaultIntSize      string   `mapstructure:"default_int_size" toml:"default_int_size,omitempty" yaml:"default_int_size,omitempty" json:"default_int_size,omitempty"`
	MaxArraySize        *int     `mapstructure:"max_array_size" toml:"max_array_size,omitempty" yaml:"max_array_size,omitempty" json:"max_array_size,omitempty"`
}

// EnumOverrides are the enum settings shared by enum and files_enum jobs.
type EnumOverrides struct {
	EnumName              *string  `mapstructure:"enum_name" toml:"enum_name,omitempty" yaml:"enum_name,omitempty" json:"enum_name,omitempty"`
	AllVariantsConst      *string  `mapstructure:"all_variants_const" toml:"all_variants_const,omitempty" yaml:"all_variants_const,omitempty" json:"all_variants_const,omitempty"`
	DerivedTraits         []string `mapstructure:"derived_traits" toml:"derived_traits,omitempty" yaml:"derived_traits,omitempty" json:"derived_traits,omitempty"`
	FirstVariantIsDefault *bool    `mapstructure:"first_variant_is_default" toml:"first_variant_is_default,omitempty" yaml:"first_variant_is_default,omitempty" json:"first_variant_is_default,omitempty"`
	ImplDisplay           *bool    `mapstructure:"impl_display" toml:"impl_display,omitempty" yaml:"impl_display,omitempty" json:"impl_display,omitempty"`
	ImplFromStr           *bool    `mapstructure:"impl_from_str" toml:"impl_from_str,omitempty" yaml:"impl_from_str,omitempty" json:"impl_from_str,omitempty"`
	Serde                 string   `mapstructure:"serde" toml:"serde,omitempty" yaml:"serde,omitempty" json:"serde,omitempty"`
	UseSerdeDeriveCrate   *bool    `mapstructure:"use_serde_derive_crate" toml:"use_serde_derive_crate,omitempty" yaml:"use_serde_derive_crate,omitempty" json:"use_serde_derive_crate,omitempty"`
	CreateDirs            *bool    `mapstructure:"create_dirs" toml:"create_dirs,omitempty" yaml:"create_dirs,omitempty" json:"create_dirs,omitempty"`
	WriteOnlyIfChanged    *bool    `mapstructure:"write_only_if_changed" toml:"write_only_if_changed,omitempty" yaml:"write_only_if_changed,omitempty" json:"write_only_if_changed,omitempty"`
}

// EnumJob generates an enum from the top-level keys of a document.
type EnumJob struct {
	Source        string `mapstructure:"source" toml:"source,omitempty" yaml:"source,omitempty" json:"source,omitempty"`
	Destination   string `mapstructure:"destination" toml:"destination,omitempty" yaml:"destination,omitempty" json:"destination,omitempty"`
	Format        string `mapstructure:"format" toml:"format,omitempty" yaml:"format,omitempty" json:"format,omitempty"`
	EnumOverrides `mapstructure:",squash" yaml:",inline"`
}

// FilesEnumJob generates an enum from the files in a directory.
type FilesEnumJob struct {
	Directory     string `mapstructure:"directory" toml:"directory,omitempty" yaml:"directory,omitempty" json:"directory,omitempty"`
	Destination   string `mapstructure:"destination" toml:"destination,omitempty" yaml:"destination,omitempty" json:"destination,omitempty"`
	EnumOverrides `mapstructure:",squash" yaml:",inline"`
}

// ToOptions overlays the job on options.DefaultStructOptions.
func (j StructJob) ToOptions() (options.StructOptions, error) {
	opts := options.DefaultStructOptions()
	var err error

	if opts.Format, err = format.Parse(j.Format); err != nil {
		return opts, err
	}
	setString(&opts.StructName, j.StructName)
	setString(&opts.ConstName, j.ConstName)
	setBool(&opts.GenerateConst, j.GenerateConst)
	if j.DerivedTraits != nil {
		opts.DerivedTraits = j.DerivedTraits
	}
	if opts.Serde, err = options.ParseSerdeSupport(j.Serde); err != nil {
		return opts, err
	}
	setBool(&opts.UseSerdeDeriveCrate, j.UseSerdeDeriveCrate)
	setBool(&opts.GenerateLoadFns, j.GenerateLoadFns)
	if opts.DynamicLoading, err = options.ParseDynamicLoading(j.DynamicLoading); err != nil {
		return opts, err
	}
	setBool(&opts.CreateDirs, j.CreateDirs)
	setBool(&opts.WriteOnlyIfChanged, j.WriteOnlyIfChanged)
	if opts.DefaultFloatSize, err = value.ParseFloatSize(j.DefaultFloatSize); err != nil {
		return opts, err
	}
	if opts.DefaultIntSize, err = value.ParseIntSize(j.DefaultIntSize); err != nil {
		return opts, err
	}
	if j.MaxArraySize != nil {
		opts.MaxArraySize = *j.MaxArraySize
	}
	return opts, nil
}

// ToOptions overlays the job on options.DefaultEnumOptions.
func (j EnumJob) ToOptions() (options.EnumOptions, error) {
	opts, err := j.EnumOverrides.apply()
	if err != nil {
		return opts, err
	}
	if opts.Format, err = format.Parse(j.Format); err != nil {
		return opts, err
	}
	return opts, nil
}

// ToOptions overlays the job on options.DefaultEnumOptions.
func (j FilesEnumJob) ToOptions() (options.EnumOptions, error) {
	return j.EnumOverrides.apply()
}

func (o EnumOverrides) apply() (options.EnumOptions, error) {
	opts := options.DefaultEnumOptions()
	var err error

	setString(&opts.EnumName, o.EnumName)
	setString(&opts.AllVariantsConst, o.AllVariantsConst)
	if o.DerivedTraits != nil {
		opts.DerivedTraits = o.DerivedTraits
	}
	setBool(&opts.FirstVariantIsDefault, o.FirstVariantIsDefault)
	setBool(&opts.ImplDisplay, o.ImplDisplay)
	setBool(&opts.ImplFromStr, o.ImplFromStr)
	if opts.Serde, err = options.ParseSerdeSupport(o.Serde); err != nil {
		return opts, err
	}
	setBool(&opts.UseSerdeDeriveCrate, o.UseSerdeDeriveCrate)
	setBool(&opts.CreateDirs, o.CreateDirs)
	setBool(&opts.WriteOnlyIfChanged, o.WriteOnlyIfChanged)
	return opts, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
