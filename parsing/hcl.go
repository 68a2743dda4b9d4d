package parsing

import (
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

// HCLParser reads native HCL syntax. Attribute expressions are evaluated
// without variables or functions.
//
// An unlabeled block becomes a record under its type name, repeated unlabeled
// blocks an array of records. A labeled block is nested one record per label:
// `service "web" { ... }` becomes service.web.
type HCLParser struct{}

const hclFilename = "config.hcl"

func (HCLParser) Parse(source string, cfg Config) (*value.Struct, error) {
	body, err := hclBody(source)
	if err != nil {
		return nil, err
	}

	root := value.NewStruct(cfg.rootName())
	if err := hclFields(root, body, cfg.rootParent(), cfg); err != nil {
		return nil, err
	}
	return root, nil
}

func (HCLParser) ParseMapKeys(source string) ([]string, error) {
	body, err := hclBody(source)
	if err != nil {
		return nil, err
	}

	type located struct {
		key  string
		byte int
	}
	var items []located
	for name, attr := range body.Attributes {
		items = append(items, located{name, attr.SrcRange.Start.Byte})
	}
	for _, blk := range body.Blocks {
		items = append(items, located{blk.Type, blk.TypeRange.Start.Byte})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].byte < items[j].byte })

	var keys orderedKeys
	for _, item := range items {
		keys.add(item.key)
	}
	return keys.list(), nil
}

func hclBody(source string) (*hclsyntax.Body, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(source), hclFilename)
	if diags.HasErrors() {
		return nil, errors.Deserialization(diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, errors.Deserializationf("expected native HCL syntax")
	}
	return body, nil
}

func hclFields(s *value.Struct, body *hclsyntax.Body, namePrefix string, cfg Config) error {
	for name, attr := range body.Attributes {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return errors.Deserialization(diags)
		}
		converted, err := ctyValue(v, namePrefix, name, cfg)
		if err != nil {
			return err
		}
		s.Set(name, converted)
	}

	// Blocks of one type are grouped in source order.
	var order []string
	grouped := make(map[string][]*hclsyntax.Block)
	for _, blk := range body.Blocks {
		if _, ok := grouped[blk.Type]; !ok {
			order = append(order, blk.Type)
		}
		grouped[blk.Type] = append(grouped[blk.Type], blk)
	}

	for _, blockType := range order {
		if _, clash := s.Fields[blockType]; clash {
			return errors.Deserializationf("`%s` is defined both as an attribute and as a block", blockType)
		}
		v, err := hclBlocks(grouped[blockType], namePrefix, blockType, cfg)
		if err != nil {
			return err
		}
		s.Set(blockType, v)
	}
	return nil
}

func hclBlocks(blocks []*hclsyntax.Block, parent, blockType string, cfg Config) (value.Value, error) {
	name := nestedName(parent, blockType)

	if len(blocks[0].Labels) == 0 {
		records := make(value.Array, 0, len(blocks))
		for _, blk := range blocks {
			if len(blk.Labels) != 0 {
				return nil, hclBlockError(blk, "mixes labeled and unlabeled blocks")
			}
			record := value.NewStruct(name)
			if err := hclFields(record, blk.Body, name, cfg); err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		if len(records) == 1 {
			return records[0], nil
		}
		return records, nil
	}

	top := value.NewStruct(name)
	for _, blk := range blocks {
		if len(blk.Labels) == 0 {
			return nil, hclBlockError(blk, "mixes labeled and unlabeled blocks")
		}
		cur := top
		for i, label := range blk.Labels {
			childName := nestedName(cur.Name, label)
			last := i == len(blk.Labels)-1
			existing, ok := cur.Fields[label]
			if last {
				if ok {
					return nil, hclBlockError(blk, "is defined more than once")
				}
				record := value.NewStruct(childName)
				if err := hclFields(record, blk.Body, childName, cfg); err != nil {
					return nil, err
				}
				cur.Set(label, record)
				break
			}
			next, isStruct := existing.(*value.Struct)
			if !ok {
				next = value.NewStruct(childName)
				cur.Set(label, next)
			} else if !isStruct {
				return nil, hclBlockError(blk, "has inconsistent labels")
			}
			cur = next
		}
	}
	return top, nil
}

func hclBlockError(blk *hclsyntax.Block, problem string) error {
	return errors.Deserializationf("%s: block `%s` %s", blk.TypeRange.String(), blk.Type, problem)
}

func ctyValue(v cty.Value, parent, key string, cfg Config) (value.Value, error) {
	if v.IsNull() {
		return value.None(), nil
	}
	if !v.IsKnown() {
		return nil, errors.Deserializationf("value of `%s` is not known", key)
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return value.Bool(v.True()), nil
	case ty == cty.String:
		return value.String(v.AsString()), nil
	case ty == cty.Number:
		return ctyNumber(v.AsBigFloat(), cfg), nil
	case ty.IsObjectType() || ty.IsMapType():
		name := nestedName(parent, key)
		record := value.NewStruct(name)
		for it := v.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			field := k.AsString()
			converted, err := ctyValue(elem, name, field, cfg)
			if err != nil {
				return nil, err
			}
			record.Set(field, converted)
		}
		return record, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		arr := make(value.Array, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			converted, err := ctyValue(elem, parent, key, cfg)
			if err != nil {
				return nil, err
			}
			arr = append(arr, converted)
		}
		return arr, nil
	default:
		return nil, errors.Deserializationf("unsupported HCL value of type %s under key `%s`", ty.FriendlyName(), key)
	}
}

// ctyNumber follows the same rules as untyped JSON numbers.
func ctyNumber(bf *big.Float, cfg Config) value.Value {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return value.Int(i, cfg.IntSize)
		}
		if u, acc := bf.Uint64(); acc == big.Exact {
			return value.U64(u)
		}
	}
	f, _ := bf.Float64()
	return value.Float(f, cfg.FloatSize)
}
