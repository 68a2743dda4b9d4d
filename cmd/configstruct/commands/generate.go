package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/configstruct/format"
	"github.com/teranos/configstruct/generate"
	"github.com/teranos/configstruct/options"
	"github.com/teranos/configstruct/value"
)

// StructCmd generates a struct module from one document.
var StructCmd = &cobra.Command{
	Use:   "struct <file>",
	Short: "Generate a Rust struct module from a configuration file",
	Long: `Generate Rust struct declarations and a const holding the values of a
configuration file. Use - to read the document from stdin (requires --format).

Examples:
  configstruct struct config.toml                       # Print to stdout
  configstruct struct config.toml -o src/config.rs      # Write, only if changed
  configstruct struct config.yaml --load-fns --serde yes
  cat config.json | configstruct struct - --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runStruct,
}

// EnumCmd generates an enum of a document's top-level keys.
var EnumCmd = &cobra.Command{
	Use:   "enum <file>",
	Short: "Generate a Rust enum of a configuration file's top-level keys",
	Long: `Generate a Rust enum with one variant per top-level key, in document order.
Use - to read the document from stdin (requires --format).`,
	Args: cobra.ExactArgs(1),
	RunE: runEnum,
}

// FilesEnumCmd generates an enum of the files in a directory.
var FilesEnumCmd = &cobra.Command{
	Use:   "files-enum <dir>",
	Short: "Generate a Rust enum of the files in a directory",
	Long: `Generate a Rust enum with one variant per regular file in a directory.
Variants are the PascalCase file names without their last extension, sorted.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilesEnum,
}

var (
	outputPath string
	formatName string
)

var structFlags struct {
	name, constName, serde, dynamicLoading string
	intSize, floatSize                     string
	noConst, serdeDeriveCrate, loadFns     bool
	noCreateDirs, always                   bool
	derives                                []string
	maxArraySize                           int
}

var enumFlags struct {
	name, allConst, serde           string
	noDefault, noDisplay, noFromStr bool
	serdeDeriveCrate, noCreateDirs  bool
	always                          bool
	derives                         []string
}

func init() {
	for _, cmd := range []*cobra.Command{StructCmd, EnumCmd, FilesEnumCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default: stdout)")
	}
	for _, cmd := range []*cobra.Command{StructCmd, EnumCmd} {
		cmd.Flags().StringVarP(&formatName, "format", "f", "auto", "Input format: auto, json, ron, toml, yaml, hcl")
	}

	sd := options.DefaultStructOptions()
	sf := StructCmd.Flags()
	sf.StringVarP(&structFlags.name, "name", "n", sd.StructName, "Name of the root struct")
	sf.StringVar(&structFlags.constName, "const-name", "", "Name of the const (default: upper-cased struct name)")
	sf.BoolVar(&structFlags.noConst, "no-const", false, "Only emit the const when load functions need it")
	sf.StringSliceVar(&structFlags.derives, "derive", sd.DerivedTraits, "Traits to derive")
	sf.StringVar(&structFlags.serde, "serde", sd.Serde.String(), "Serde derives: none, yes, serialize, deserialize")
	sf.BoolVar(&structFlags.serdeDeriveCrate, "serde-derive-crate", false, "Derive through serde_derive:: instead of serde::")
	sf.BoolVar(&structFlags.loadFns, "load-fns", false, "Emit load() and load_from()")
	sf.StringVar(&structFlags.dynamicLoading, "dynamic-loading", sd.DynamicLoading.String(), "When load functions read the file: always, debug_only, never")
	sf.StringVar(&structFlags.intSize, "int-size", sd.DefaultIntSize.String(), "Integer type when the format has none: i8, i16, i32, i64, isize")
	sf.StringVar(&structFlags.floatSize, "float-size", sd.DefaultFloatSize.String(), "Float type when the format has none: f32, f64")
	sf.IntVar(&structFlags.maxArraySize, "max-array-size", sd.MaxArraySize, "Longest array emitted as a fixed-size array (0: always slices)")
	addWriteFlags(sf, &structFlags.noCreateDirs, &structFlags.always)

	ed := options.DefaultEnumOptions()
	for _, cmd := range []*cobra.Command{EnumCmd, FilesEnumCmd} {
		ef := cmd.Flags()
		ef.StringVarP(&enumFlags.name, "name", "n", ed.EnumName, "Name of the enum")
		ef.StringVar(&enumFlags.allConst, "all-const", ed.AllVariantsConst, "Name of the const listing all variants (empty disables it and FromStr)")
		ef.StringSliceVar(&enumFlags.derives, "derive", ed.DerivedTraits, "Traits to derive")
		ef.BoolVar(&enumFlags.noDefault, "no-default", false, "Do not implement Default")
		ef.BoolVar(&enumFlags.noDisplay, "no-display", false, "Do not implement Display")
		ef.BoolVar(&enumFlags.noFromStr, "no-from-str", false, "Do not implement FromStr")
		ef.StringVar(&enumFlags.serde, "serde", ed.Serde.String(), "Serde derives: none, yes, serialize, deserialize")
		ef.BoolVar(&enumFlags.serdeDeriveCrate, "serde-derive-crate", false, "Derive through serde_derive:: instead of serde::")
		addWriteFlags(ef, &enumFlags.noCreateDirs, &enumFlags.always)
	}
}

func addWriteFlags(fs *pflag.FlagSet, noCreateDirs, always *bool) {
	fs.BoolVar(noCreateDirs, "no-create-dirs", false, "Fail instead of creating missing destination directories")
	fs.BoolVar(always, "always-write", false, "Write the destination even when it is unchanged")
}

func structOptions() (options.StructOptions, error) {
	opts := options.DefaultStructOptions()
	var err error

	if opts.Format, err = format.Parse(formatName); err != nil {
		return opts, err
	}
	opts.StructName = structFlags.name
	opts.ConstName = structFlags.constName
	opts.GenerateConst = !structFlags.noConst
	opts.DerivedTraits = structFlags.derives
	if opts.Serde, err = options.ParseSerdeSupport(structFlags.serde); err != nil {
		return opts, err
	}
	opts.UseSerdeDeriveCrate = structFlags.serdeDeriveCrate
	opts.GenerateLoadFns = structFlags.loadFns
	if opts.DynamicLoading, err = options.ParseDynamicLoading(structFlags.dynamicLoading); err != nil {
		return opts, err
	}
	if opts.DefaultIntSize, err = value.ParseIntSize(structFlags.intSize); err != nil {
		return opts, err
	}
	if opts.DefaultFloatSize, err = value.ParseFloatSize(structFlags.floatSize); err != nil {
		return opts, err
	}
	opts.MaxArraySize = structFlags.maxArraySize
	opts.CreateDirs = !structFlags.noCreateDirs
	opts.WriteOnlyIfChanged = !structFlags.always
	return opts, nil
}

func enumOptions() (options.EnumOptions, error) {
	opts := options.DefaultEnumOptions()
	var err error

	if opts.Format, err = format.Parse(formatName); err != nil {
		return opts, err
	}
	opts.EnumName = enumFlags.name
	opts.AllVariantsConst = enumFlags.allConst
	opts.DerivedTraits = enumFlags.derives
	opts.FirstVariantIsDefault = !enumFlags.noDefault
	opts.ImplDisplay = !enumFlags.noDisplay
	opts.ImplFromStr = !enumFlags.noFromStr
	if opts.Serde, err = options.ParseSerdeSupport(enumFlags.serde); err != nil {
		return opts, err
	}
	opts.UseSerdeDeriveCrate = enumFlags.serdeDeriveCrate
	opts.CreateDirs = !enumFlags.noCreateDirs
	opts.WriteOnlyIfChanged = !enumFlags.always
	return opts, nil
}

func runStruct(cmd *cobra.Command, args []string) error {
	opts, err := structOptions()
	if err != nil {
		return err
	}
	g := generate.New(filesystem)
	src := args[0]

	if src == "-" {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if outputPath == "" {
			out, err := g.StructFromSource(string(source), opts)
			return emit(cmd, out, err)
		}
		written, err := g.WriteStructFromSource(string(source), outputPath, opts)
		return reportWrite(outputPath, written, err)
	}

	if outputPath == "" {
		out, err := g.Struct(src, opts)
		return emit(cmd, out, err)
	}
	written, err := g.WriteStruct(src, outputPath, opts)
	return reportWrite(outputPath, written, err)
}

func runEnum(cmd *cobra.Command, args []string) error {
	opts, err := enumOptions()
	if err != nil {
		return err
	}
	g := generate.New(filesystem)
	src := args[0]

	if src == "-" {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if outputPath == "" {
			out, err := g.EnumFromSource(string(source), opts)
			return emit(cmd, out, err)
		}
		written, err := g.WriteEnumFromSource(string(source), outputPath, opts)
		return reportWrite(outputPath, written, err)
	}

	if outputPath == "" {
		out, err := g.Enum(src, opts)
		return emit(cmd, out, err)
	}
	written, err := g.WriteEnum(src, outputPath, opts)
	return reportWrite(outputPath, written, err)
}

func runFilesEnum(cmd *cobra.Command, args []string) error {
	opts, err := enumOptions()
	if err != nil {
		return err
	}
	g := generate.New(filesystem)

	if outputPath == "" {
		out, err := g.FilesEnum(args[0], opts)
		return emit(cmd, out, err)
	}
	written, err := g.WriteFilesEnum(args[0], outputPath, opts)
	return reportWrite(outputPath, written, err)
}

func emit(cmd *cobra.Command, output string, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}

func reportWrite(path string, written bool, err error) error {
	if err != nil {
		return err
	}
	if written {
		pterm.Success.Printfln("Generated %s", path)
	} else {
		pterm.Info.Printfln("%s is up to date", path)
	}
	return nil
}
