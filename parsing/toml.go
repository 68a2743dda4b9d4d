package parsing

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

// TOMLParser reads TOML documents. Datetimes become strings in their TOML
// text form.
type TOMLParser struct{}

func (TOMLParser) Parse(source string, cfg Config) (*value.Struct, error) {
	var doc map[string]interface{}
	if _, err := toml.Decode(source, &doc); err != nil {
		return nil, errors.Deserialization(err)
	}

	return tomlTable(cfg.rootName(), cfg.rootParent(), doc, cfg)
}

func (TOMLParser) ParseMapKeys(source string) ([]string, error) {
	var doc map[string]interface{}
	md, err := toml.Decode(source, &doc)
	if err != nil {
		return nil, errors.Deserialization(err)
	}

	var keys orderedKeys
	for _, key := range md.Keys() {
		if len(key) > 0 {
			keys.add(key[0])
		}
	}
	return keys.list(), nil
}

func tomlTable(name, namePrefix string, table map[string]interface{}, cfg Config) (*value.Struct, error) {
	s := value.NewStruct(name)
	for key, raw := range table {
		v, err := tomlValue(raw, namePrefix, key, cfg)
		if err != nil {
			return nil, err
		}
		s.Set(key, v)
	}
	return s, nil
}

func tomlValue(raw interface{}, parent, key string, cfg Config) (value.Value, error) {
	switch t := raw.(type) {
	case bool:
		return value.Bool(t), nil
	case int64:
		return value.Int(t, cfg.IntSize), nil
	case float64:
		return value.Float(t, cfg.FloatSize), nil
	case string:
		return value.String(t), nil
	case time.Time:
		return value.String(tomlDatetime(t)), nil
	case []interface{}:
		arr := make(value.Array, 0, len(t))
		for _, elem := range t {
			v, err := tomlValue(elem, parent, key, cfg)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case []map[string]interface{}:
		arr := make(value.Array, 0, len(t))
		for _, elem := range t {
			v, err := tomlValue(elem, parent, key, cfg)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case map[string]interface{}:
		name := nestedName(parent, key)
		return tomlTable(name, name, t, cfg)
	default:
		return nil, errors.Deserializationf("unsupported TOML value %T under key `%s`", raw, key)
	}
}

// tomlDatetime renders t the way it is written in TOML. The decoder marks
// local dates and times with dedicated zones, which are matched by name.
func tomlDatetime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}
