package parsing

import (
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

// YAMLParser reads the first document of a YAML stream. Aliases are expanded
// and merge keys (<<) are applied. Mapping keys must be strings.
type YAMLParser struct{}

func (YAMLParser) Parse(source string, cfg Config) (*value.Struct, error) {
	top, err := yamlTopMapping(source)
	if err != nil {
		return nil, err
	}

	root := value.NewStruct(cfg.rootName())
	if err := yamlMapping(root, top, cfg.rootParent(), cfg, 0); err != nil {
		return nil, err
	}
	return root, nil
}

func (YAMLParser) ParseMapKeys(source string) ([]string, error) {
	top, err := yamlTopMapping(source)
	if err != nil {
		return nil, err
	}

	var keys orderedKeys
	pairs, err := yamlPairs(top, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		keys.add(p.key)
	}
	return keys.list(), nil
}

// maxAliasDepth stops alias chains that refer back to themselves.
const maxAliasDepth = 64

func yamlTopMapping(source string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
		return nil, errors.Deserialization(err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		top := resolveAlias(doc.Content[0])
		if top.Kind == yaml.MappingNode {
			return top, nil
		}
	}
	return nil, errors.Deserializationf("expected a YAML mapping at the top level")
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for i := 0; n.Kind == yaml.AliasNode && n.Alias != nil && i < maxAliasDepth; i++ {
		n = n.Alias
	}
	return n
}

type yamlPair struct {
	key   string
	value *yaml.Node
}

// yamlPairs flattens a mapping into key/value pairs, applying merge keys.
// Explicit keys win over merged ones.
func yamlPairs(m *yaml.Node, depth int) ([]yamlPair, error) {
	if depth > maxAliasDepth {
		return nil, errors.Deserializationf("YAML aliases nested too deeply")
	}

	var own, merged []yamlPair
	for i := 0; i+1 < len(m.Content); i += 2 {
		keyNode := resolveAlias(m.Content[i])
		valueNode := m.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			sources := []*yaml.Node{resolveAlias(valueNode)}
			if sources[0].Kind == yaml.SequenceNode {
				sources = sources[0].Content
			}
			for _, src := range sources {
				src = resolveAlias(src)
				if src.Kind != yaml.MappingNode {
					return nil, errors.Deserializationf("line %d: merge key needs a mapping", src.Line)
				}
				pairs, err := yamlPairs(src, depth+1)
				if err != nil {
					return nil, err
				}
				merged = append(merged, pairs...)
			}
			continue
		}

		if keyNode.Kind != yaml.ScalarNode || keyNode.ShortTag() != "!!str" {
			return nil, errors.Deserializationf("line %d: mapping keys must be strings, found `%s`", keyNode.Line, keyNode.Value)
		}
		own = append(own, yamlPair{key: keyNode.Value, value: valueNode})
	}

	explicit := make(map[string]bool, len(own))
	for _, p := range own {
		explicit[p.key] = true
	}
	out := own
	for _, p := range merged {
		if !explicit[p.key] {
			out = append(out, p)
		}
	}
	return out, nil
}

func yamlMapping(s *value.Struct, m *yaml.Node, namePrefix string, cfg Config, depth int) error {
	pairs, err := yamlPairs(m, depth)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if _, exists := s.Fields[p.key]; exists {
			continue
		}
		v, err := yamlValue(p.value, namePrefix, p.key, cfg, depth)
		if err != nil {
			return err
		}
		s.Set(p.key, v)
	}
	return nil
}

func yamlValue(n *yaml.Node, parent, key string, cfg Config, depth int) (value.Value, error) {
	if n.Kind == yaml.AliasNode {
		depth++
		if depth > maxAliasDepth {
			return nil, errors.Deserializationf("YAML aliases nested too deeply")
		}
		n = resolveAlias(n)
	}

	switch n.Kind {
	case yaml.MappingNode:
		name := nestedName(parent, key)
		nested := value.NewStruct(name)
		if err := yamlMapping(nested, n, name, cfg, depth); err != nil {
			return nil, err
		}
		return nested, nil
	case yaml.SequenceNode:
		arr := make(value.Array, 0, len(n.Content))
		for _, elem := range n.Content {
			v, err := yamlValue(elem, parent, key, cfg, depth)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n, cfg)
	default:
		return nil, errors.Deserializationf("line %d: unsupported YAML node under key `%s`", n.Line, key)
	}
}

func yamlScalar(n *yaml.Node, cfg Config) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.None(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.Deserialization(err)
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i, cfg.IntSize), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return value.U64(u), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.Deserialization(err)
		}
		return value.Float(f, cfg.FloatSize), nil
	case "!!float":
		f, err := yamlFloat(n)
		if err != nil {
			return nil, err
		}
		return value.Float(f, cfg.FloatSize), nil
	default:
		return value.String(n.Value), nil
	}
}

func yamlFloat(n *yaml.Node) (float64, error) {
	switch strings.ToLower(n.Value) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, errors.Deserialization(err)
	}
	return f, nil
}
