// Package parsing converts source documents into value trees.
//
// Every format implements Parser. Records nested under a key are named
// "{parent}__{key}", where the root's children use "_" + the root name as
// their parent. Absent and null values become empty options.
package parsing

import (
	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/format"
	"github.com/teranos/configstruct/value"
)

// Config carries the settings every adapter needs.
type Config struct {
	// RootName names the root record. Empty means "Config".
	RootName string
	// IntSize is used for integers when the format has no width of its own.
	IntSize value.IntSize
	// FloatSize is used for floats when the format has no width of its own.
	FloatSize value.FloatSize
}

func (c Config) rootName() string {
	if c.RootName == "" {
		return "Config"
	}
	return c.RootName
}

// rootParent is the naming prefix for records directly under the root.
func (c Config) rootParent() string {
	return "_" + c.rootName()
}

func (c Config) number(raw string) (value.Value, error) {
	return value.Number(raw, c.IntSize, c.FloatSize)
}

// Parser is a format adapter.
type Parser interface {
	// Parse converts a whole document. The top level must be a map.
	Parse(source string, cfg Config) (*value.Struct, error)
	// ParseMapKeys returns the top-level keys in source order, without
	// duplicates.
	ParseMapKeys(source string) ([]string, error)
}

var parsers = map[format.Format]Parser{
	format.JSON: JSONParser{},
	format.RON:  RONParser{},
	format.TOML: TOMLParser{},
	format.YAML: YAMLParser{},
	format.HCL:  HCLParser{},
}

// For returns the adapter for f.
func For(f format.Format) (Parser, error) {
	p, ok := parsers[f]
	if !ok {
		return nil, errors.NewGeneration(errors.UnknownInputFormat, f.String())
	}
	return p, nil
}

// Parse converts source with the adapter for f.
func Parse(f format.Format, source string, cfg Config) (*value.Struct, error) {
	p, err := For(f)
	if err != nil {
		return nil, err
	}
	return p.Parse(source, cfg)
}

// ParseMapKeys extracts the top-level keys of source with the adapter for f.
func ParseMapKeys(f format.Format, source string) ([]string, error) {
	p, err := For(f)
	if err != nil {
		return nil, err
	}
	return p.ParseMapKeys(source)
}

func nestedName(parent, key string) string {
	return parent + "__" + key
}

// orderedKeys collects keys in first-seen order.
type orderedKeys struct {
	seen map[string]bool
	keys []string
}

func (o *orderedKeys) add(key string) {
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}
	if o.seen[key] {
		return
	}
	o.seen[key] = true
	o.keys = append(o.keys, key)
}

func (o *orderedKeys) list() []string {
	if o.keys == nil {
		return []string{}
	}
	return o.keys
}
