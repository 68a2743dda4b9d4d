package parsing

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

// JSONParser reads JSON documents. Numbers carry no width, so integers use
// the configured size, integers beyond int64 become u64 and everything else a
// float of the configured size.
type JSONParser struct{}

func (JSONParser) Parse(source string, cfg Config) (*value.Struct, error) {
	doc, err := jsonObject(source)
	if err != nil {
		return nil, err
	}

	root := value.NewStruct(cfg.rootName())
	if err := jsonFields(root, doc, cfg.rootParent(), cfg); err != nil {
		return nil, err
	}
	return root, nil
}

func (JSONParser) ParseMapKeys(source string) ([]string, error) {
	doc, err := jsonObject(source)
	if err != nil {
		return nil, err
	}

	var keys orderedKeys
	doc.ForEach(func(key, _ gjson.Result) bool {
		keys.add(key.String())
		return true
	})
	return keys.list(), nil
}

func jsonObject(source string) (gjson.Result, error) {
	if !gjson.Valid(source) {
		return gjson.Result{}, jsonSyntaxError(source)
	}
	doc := gjson.Parse(source)
	if !doc.IsObject() {
		return gjson.Result{}, errors.Deserializationf("expected a JSON object at the top level")
	}
	return doc, nil
}

// jsonSyntaxError describes why source is not JSON. gjson only reports
// validity, so the position comes from encoding/json.
func jsonSyntaxError(source string) error {
	var raw json.RawMessage
	err := json.Unmarshal([]byte(source), &raw)

	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return errors.Deserializationf("invalid JSON document at offset %d: %v", syntaxErr.Offset, syntaxErr)
	case err != nil:
		return errors.Deserialization(err)
	default:
		return errors.Deserializationf("invalid JSON document")
	}
}

// jsonFields copies the members of obj into s. namePrefix is the name nested
// records are derived from.
func jsonFields(s *value.Struct, obj gjson.Result, namePrefix string, cfg Config) error {
	var err error
	obj.ForEach(func(key, member gjson.Result) bool {
		var v value.Value
		v, err = jsonValue(member, namePrefix, key.String(), cfg)
		if err != nil {
			return false
		}
		s.Set(key.String(), v)
		return true
	})
	return err
}

func jsonValue(r gjson.Result, parent, key string, cfg Config) (value.Value, error) {
	switch r.Type {
	case gjson.Null:
		return value.None(), nil
	case gjson.True:
		return value.Bool(true), nil
	case gjson.False:
		return value.Bool(false), nil
	case gjson.Number:
		// serde_json refuses numbers beyond f64, so the generated loader
		// could never read them back.
		if f, err := strconv.ParseFloat(r.Raw, 64); err != nil && math.IsInf(f, 0) {
			return nil, errors.Deserializationf("number `%s` under key `%s` is out of range", r.Raw, key)
		}
		v, err := cfg.number(r.Raw)
		if err != nil {
			return nil, errors.Deserialization(err)
		}
		return v, nil
	case gjson.String:
		return value.String(r.String()), nil
	}

	if r.IsArray() {
		elems := r.Array()
		arr := make(value.Array, 0, len(elems))
		for _, elem := range elems {
			v, err := jsonValue(elem, parent, key, cfg)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	}

	name := nestedName(parent, key)
	nested := value.NewStruct(name)
	if err := jsonFields(nested, r, name, cfg); err != nil {
		return nil, err
	}
	return nested, nil
}
