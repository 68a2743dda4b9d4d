// Package generate turns configuration documents into Rust source.
//
// A Generator reads and writes through an afero.Fs. The package-level
// functions use the operating system's filesystem.
package generate

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/files"
	"github.com/teranos/configstruct/internal/casing"
	"github.com/teranos/configstruct/logger"
	"github.com/teranos/configstruct/options"
	"github.com/teranos/configstruct/parsing"
	"github.com/teranos/configstruct/rust"
	"github.com/teranos/configstruct/validation"
)

// Generator runs the struct and enum pipelines.
type Generator struct {
	fs  afero.Fs
	log *zap.SugaredLogger
}

// New creates a Generator on fs.
func New(fs afero.Fs) *Generator {
	return &Generator{fs: fs, log: logger.ComponentLogger("generate")}
}

// Fs returns the filesystem the generator works on.
func (g *Generator) Fs() afero.Fs {
	return g.fs
}

// StructFromSource generates a struct module from source. There is no file
// name to detect the format from, so opts.Format must be set, and load
// functions that read the file at run time cannot be generated.
func (g *Generator) StructFromSource(source string, opts options.StructOptions) (string, error) {
	return g.structCode(source, opts, "")
}

// Struct generates a struct module from the file at path. The format is
// detected from the extension unless opts.Format is set.
func (g *Generator) Struct(path string, opts options.StructOptions) (string, error) {
	source, err := files.ReadSource(g.fs, path)
	if err != nil {
		return "", err
	}
	output, err := g.structCode(source, opts, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to generate struct from %s", path)
	}
	return output, nil
}

// WriteStruct generates a struct module from src and writes it to dst.
func (g *Generator) WriteStruct(src, dst string, opts options.StructOptions) (written bool, err error) {
	output, err := g.Struct(src, opts)
	if err != nil {
		return false, err
	}
	return g.write(dst, output, opts.CreateDirs, opts.WriteOnlyIfChanged)
}

// WriteStructFromSource generates a struct module from source and writes it
// to dst.
func (g *Generator) WriteStructFromSource(source, dst string, opts options.StructOptions) (written bool, err error) {
	output, err := g.StructFromSource(source, opts)
	if err != nil {
		return false, err
	}
	return g.write(dst, output, opts.CreateDirs, opts.WriteOnlyIfChanged)
}

func (g *Generator) structCode(source string, opts options.StructOptions, path string) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", optionsError(err)
	}

	f, err := opts.Format.Resolve(path)
	if err != nil {
		return "", err
	}

	root, err := parsing.Parse(f, source, parsing.Config{
		RootName:  opts.StructName,
		IntSize:   opts.DefaultIntSize,
		FloatSize: opts.DefaultFloatSize,
	})
	if err != nil {
		return "", err
	}
	root.Name = opts.StructName
	g.log.Debugw("parsed source", logger.FieldFormat, f.String(), logger.FieldStruct, root.Name, logger.FieldCount, root.Len())

	if err := validation.ValidateWithArraySize(root, opts.MaxArraySize); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(rust.Header)
	b.WriteString(rust.CowImport)
	b.WriteString(rust.Declarations(root, opts.Derives(), opts.MaxArraySize))

	constName := opts.RealConstName()
	if opts.NeedsConst() {
		b.WriteString(rust.Const(constName, opts.StructName, rust.StructLiteral(root, 0, opts.MaxArraySize)))
	}

	if opts.GenerateLoadFns {
		if opts.NeedsFilePath() && path == "" {
			return "", errors.NewGeneration(errors.MissingFilePath, "")
		}
		switch opts.DynamicLoading {
		case options.Always:
			b.WriteString("\n" + rust.DynamicLoadImpl(f, opts.StructName, path) + "\n")
		case options.Never:
			b.WriteString("\n" + rust.StaticLoadImpl(opts.StructName, constName) + "\n")
		default:
			b.WriteString(rust.DebugOnlyLoadImpl(
				rust.DynamicLoadImpl(f, opts.StructName, path),
				rust.StaticLoadImpl(opts.StructName, constName),
			))
		}
	}

	return b.String(), nil
}

// EnumFromSource generates an enum with one variant per top-level key of
// source, in source order. opts.Format must be set.
func (g *Generator) EnumFromSource(source string, opts options.EnumOptions) (string, error) {
	return g.enumCode(source, opts, "")
}

// Enum generates an enum from the top-level keys of the file at path.
func (g *Generator) Enum(path string, opts options.EnumOptions) (string, error) {
	source, err := files.ReadSource(g.fs, path)
	if err != nil {
		return "", err
	}
	output, err := g.enumCode(source, opts, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to generate enum from %s", path)
	}
	return output, nil
}

// WriteEnum generates an enum from src and writes it to dst.
func (g *Generator) WriteEnum(src, dst string, opts options.EnumOptions) (written bool, err error) {
	output, err := g.Enum(src, opts)
	if err != nil {
		return false, err
	}
	return g.write(dst, output, opts.CreateDirs, opts.WriteOnlyIfChanged)
}

// WriteEnumFromSource generates an enum from source and writes it to dst.
func (g *Generator) WriteEnumFromSource(source, dst string, opts options.EnumOptions) (written bool, err error) {
	output, err := g.EnumFromSource(source, opts)
	if err != nil {
		return false, err
	}
	return g.write(dst, output, opts.CreateDirs, opts.WriteOnlyIfChanged)
}

func (g *Generator) enumCode(source string, opts options.EnumOptions, path string) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", optionsError(err)
	}

	f, err := opts.Format.Resolve(path)
	if err != nil {
		return "", err
	}

	keys, err := parsing.ParseMapKeys(f, source)
	if err != nil {
		return "", err
	}
	g.log.Debugw("parsed keys", logger.FieldFormat, f.String(), logger.FieldEnum, opts.EnumName, logger.FieldCount, len(keys))

	return enumOutput(keys, opts)
}

// FilesEnum generates an enum with one variant per regular file in dir. The
// variant is the PascalCase file stem; variants are sorted.
func (g *Generator) FilesEnum(dir string, opts options.EnumOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", optionsError(err)
	}

	entries, err := afero.ReadDir(g.fs, dir)
	if err != nil {
		return "", errors.NewIO("read directory", dir, err)
	}

	var keys []string
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		keys = append(keys, casing.ToPascalCase(fileStem(entry.Name())))
	}
	sort.Strings(keys)
	g.log.Debugw("listed files", logger.FieldSource, dir, logger.FieldEnum, opts.EnumName, logger.FieldCount, len(keys))

	output, err := enumOutput(keys, opts)
	if err != nil {
		return "", errors.Wrapf(err, "failed to generate enum from files in %s", dir)
	}
	return output, nil
}

// WriteFilesEnum generates an enum from the files in dir and writes it to dst.
func (g *Generator) WriteFilesEnum(dir, dst string, opts options.EnumOptions) (written bool, err error) {
	output, err := g.FilesEnum(dir, opts)
	if err != nil {
		return false, err
	}
	return g.write(dst, output, opts.CreateDirs, opts.WriteOnlyIfChanged)
}

func enumOutput(keys []string, opts options.EnumOptions) (string, error) {
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !validation.IsIdentifier(key) {
			return "", errors.NewGeneration(errors.InvalidVariantName, key)
		}
		if seen[key] {
			return "", errors.WithHintf(errors.NewGeneration(errors.InvalidVariantName, key),
				"variant `%s` would be declared twice", key)
		}
		seen[key] = true
	}
	return rust.Enum(keys, opts.EnumConfig()), nil
}

func (g *Generator) write(dst, output string, createDirs, onlyIfChanged bool) (bool, error) {
	if err := files.EnsureDestination(g.fs, dst, createDirs); err != nil {
		return false, err
	}
	written, err := files.WriteDestination(g.fs, dst, output, onlyIfChanged)
	if err != nil {
		return false, err
	}
	g.log.Debugw("destination", logger.FieldDestination, dst, logger.FieldWritten, written)
	return written, nil
}

// fileStem drops the last extension. Dot files keep their whole name.
func fileStem(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		return name
	}
	return stem
}

func optionsError(err error) error {
	var optErr *errors.OptionsError
	if errors.As(err, &optErr) {
		return errors.FromOptions(optErr)
	}
	return err
}

// osGenerator is built per call so it picks up the logger installed by
// logger.Initialize.
func osGenerator() *Generator {
	return New(afero.NewOsFs())
}

// StructFromSource generates a struct module from source.
func StructFromSource(source string, opts options.StructOptions) (string, error) {
	return osGenerator().StructFromSource(source, opts)
}

// Struct generates a struct module from the file at path.
func Struct(path string, opts options.StructOptions) (string, error) {
	return osGenerator().Struct(path, opts)
}

// WriteStruct generates a struct module from src and writes it to dst.
func WriteStruct(src, dst string, opts options.StructOptions) (bool, error) {
	return osGenerator().WriteStruct(src, dst, opts)
}

// WriteStructFromSource generates a struct module from source and writes it to dst.
func WriteStructFromSource(source, dst string, opts options.StructOptions) (bool, error) {
	return osGenerator().WriteStructFromSource(source, dst, opts)
}

// EnumFromSource generates an enum from the top-level keys of source.
func EnumFromSource(source string, opts options.EnumOptions) (string, error) {
	return osGenerator().EnumFromSource(source, opts)
}

// Enum generates an enum from the top-level keys of the file at path.
func Enum(path string, opts options.EnumOptions) (string, error) {
	return osGenerator().Enum(path, opts)
}

// WriteEnum generates an enum from src and writes it to dst.
func WriteEnum(src, dst string, opts options.EnumOptions) (bool, error) {
	return osGenerator().WriteEnum(src, dst, opts)
}

// WriteEnumFromSource generates an enum from source and writes it to dst.
func WriteEnumFromSource(source, dst string, opts options.EnumOptions) (bool, error) {
	return osGenerator().WriteEnumFromSource(source, dst, opts)
}

// FilesEnum generates an enum from the files in dir.
func FilesEnum(dir string, opts options.EnumOptions) (string, error) {
	return osGenerator().FilesEnum(dir, opts)
}

// WriteFilesEnum generates an enum from the files in dir and writes it to dst.
func WriteFilesEnum(dir, dst string, opts options.EnumOptions) (bool, error) {
	return osGenerator().WriteFilesEnum(dir, dst, opts)
}
