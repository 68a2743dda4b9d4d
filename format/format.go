// Package format names the supported input notations and detects them from
// file names.
package format

import (
	"path/filepath"
	"strings"

	"github.com/teranos/configstruct/errors"
)

// Format is an input notation. The zero value means "detect from the file
// name".
type Format int

const (
	Auto Format = iota
	JSON
	RON
	TOML
	YAML
	HCL
)

// All lists every concrete format, in the order they are documented.
var All = []Format{JSON, RON, TOML, YAML, HCL}

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case RON:
		return "ron"
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	case HCL:
		return "hcl"
	default:
		return "auto"
	}
}

// FromExtension maps a file extension (with or without the leading dot,
// case-insensitive) to its format.
func FromExtension(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "json":
		return JSON, nil
	case "ron":
		return RON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "hcl":
		return HCL, nil
	case "":
		return Auto, errors.NewGeneration(errors.UnknownInputFormat, "<none>")
	default:
		return Auto, errors.NewGeneration(errors.UnknownInputFormat, ext)
	}
}

// FromFilename detects the format of path from its extension.
func FromFilename(path string) (Format, error) {
	return FromExtension(filepath.Ext(path))
}

// Parse reads a format name as given on the command line or in a manifest.
// "auto" and "" yield Auto.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Auto, nil
	}
	return FromExtension(name)
}

// Resolve returns f unless it is Auto, in which case the format is detected
// from path. An empty path cannot be detected.
func (f Format) Resolve(path string) (Format, error) {
	if f != Auto {
		return f, nil
	}
	if path == "" {
		return Auto, errors.NewGeneration(errors.UnknownInputFormat, "<none>")
	}
	return FromFilename(path)
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
