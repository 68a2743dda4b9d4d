// Package validation rejects value trees that cannot be emitted as legal
// declarations.
package validation

import (
	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/rust"
	"github.com/teranos/configstruct/value"
)

// IsIdentifier reports whether name can be used as a field, type, const or
// variant name. It must start with '_' or an ASCII letter and contain only
// '_', ASCII letters and digits. A lone "_" is rejected.
func IsIdentifier(name string) bool {
	if name == "" || name == "_" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Validate checks root as if every array were rendered as a slice.
func Validate(root *value.Struct) error {
	return ValidateWithArraySize(root, 0)
}

// ValidateWithArraySize checks every field name and every array in the tree.
// maxArraySize must match the value used for rendering, since it decides the
// type strings compared for homogeneity. The first violation is returned.
func ValidateWithArraySize(root *value.Struct, maxArraySize int) error {
	return validateStruct(root, maxArraySize)
}

func validateStruct(s *value.Struct, maxArraySize int) error {
	for _, key := range s.Keys() {
		if !IsIdentifier(key) {
			return errors.NewGeneration(errors.InvalidFieldName, key)
		}
		if err := validateValue(s.Fields[key], key, maxArraySize); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(v value.Value, key string, maxArraySize int) error {
	switch t := v.(type) {
	case value.Option:
		if t.Value != nil {
			return validateValue(t.Value, key, maxArraySize)
		}
	case value.Array:
		if err := validateArray(t, key, maxArraySize); err != nil {
			return err
		}
		for _, elem := range t {
			if err := validateValue(elem, key, maxArraySize); err != nil {
				return err
			}
		}
	case *value.Struct:
		return validateStruct(t, maxArraySize)
	}
	return nil
}

func validateArray(arr value.Array, key string, maxArraySize int) error {
	if len(arr) < 2 {
		return nil
	}
	first := rust.TypeOf(arr[0], maxArraySize)
	for _, elem := range arr[1:] {
		if rust.TypeOf(elem, maxArraySize) != first {
			return errors.NewGeneration(errors.HeterogenousArray, key)
		}
	}
	return nil
}
