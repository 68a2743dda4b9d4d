package errors

import (
	"fmt"
	"io/fs"
)

// OptionsKind identifies which option failed validation.
type OptionsKind int

const (
	InvalidStructName OptionsKind = iota + 1
	InvalidConstName
	InvalidEnumName
)

// OptionsError is raised before any parsing happens when a name option is
// not a legal identifier.
type OptionsError struct {
	Kind OptionsKind
	Name string
}

func (e *OptionsError) Error() string {
	switch e.Kind {
	case InvalidStructName:
		return fmt.Sprintf("Invalid name for a struct: `%s`.", e.Name)
	case InvalidConstName:
		return fmt.Sprintf("Invalid name for a const: `%s`.", e.Name)
	case InvalidEnumName:
		return fmt.Sprintf("Invalid name for an enum: `%s`.", e.Name)
	default:
		return fmt.Sprintf("Invalid name: `%s`.", e.Name)
	}
}

// GenerationKind identifies the class of a generation failure.
type GenerationKind int

const (
	UnknownInputFormat GenerationKind = iota + 1
	InvalidFieldName
	HeterogenousArray
	DeserializationFailed
	MissingFilePath
	InvalidVariantName
	Options
)

func (k GenerationKind) String() string {
	switch k {
	case UnknownInputFormat:
		return "unknown_input_format"
	case InvalidFieldName:
		return "invalid_field_name"
	case HeterogenousArray:
		return "heterogenous_array"
	case DeserializationFailed:
		return "deserialization_failed"
	case MissingFilePath:
		return "missing_file_path"
	case InvalidVariantName:
		return "invalid_variant_name"
	case Options:
		return "options"
	default:
		return "unknown"
	}
}

// GenerationError means the input document (or the options) cannot produce
// legal output. Retrying will not help.
type GenerationError struct {
	Kind GenerationKind
	// Subject is the offending extension, field name, key or parser message.
	Subject string
	// Err is the underlying cause, when there is one.
	Err error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case UnknownInputFormat:
		return fmt.Sprintf("Unknown input format: `%s`.", e.Subject)
	case InvalidFieldName:
		return fmt.Sprintf("Invalid field name: `%s`.", e.Subject)
	case HeterogenousArray:
		return fmt.Sprintf("Array under key `%s` has elements of different types. Arrays must be homogenous.", e.Subject)
	case DeserializationFailed:
		return fmt.Sprintf("Deserialization failed: %s", e.Subject)
	case MissingFilePath:
		return "No file path was provided, but one is required to generate dynamic load functions."
	case InvalidVariantName:
		return fmt.Sprintf("Invalid enum variant name: `%s`.", e.Subject)
	case Options:
		return fmt.Sprintf("Invalid options error: %v", e.Err)
	default:
		return "generation failed: " + e.Subject
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGeneration builds a GenerationError without a cause.
func NewGeneration(kind GenerationKind, subject string) *GenerationError {
	return &GenerationError{Kind: kind, Subject: subject}
}

// Deserialization wraps a format adapter's parse failure. The adapter's
// message is kept as text, the cause stays reachable through Unwrap.
func Deserialization(err error) *GenerationError {
	return &GenerationError{Kind: DeserializationFailed, Subject: err.Error(), Err: err}
}

// Deserializationf reports a structural problem found after parsing, for
// example a top-level document that is not a map.
func Deserializationf(format string, args ...interface{}) *GenerationError {
	return &GenerationError{Kind: DeserializationFailed, Subject: fmt.Sprintf(format, args...)}
}

// FromOptions lifts an options failure into the generation taxonomy.
func FromOptions(err *OptionsError) *GenerationError {
	return &GenerationError{Kind: Options, Subject: err.Name, Err: err}
}

// IOError is a filesystem failure while reading a source or writing a
// destination. It is never used for bad document content.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("IO error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match missing files.
func (e *IOError) Is(target error) bool {
	return target == ErrNotFound && Is(e.Err, fs.ErrNotExist)
}

// NewIO wraps a filesystem error; nil stays nil.
func NewIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// IsIO reports whether err is, or wraps, an I/O failure.
func IsIO(err error) bool {
	var ioErr *IOError
	return As(err, &ioErr)
}

// IsGeneration reports whether err is, or wraps, a generation failure.
func IsGeneration(err error) bool {
	var genErr *GenerationError
	return As(err, &genErr)
}

// IsOptions reports whether err is, or wraps, an options failure.
func IsOptions(err error) bool {
	var optErr *OptionsError
	return As(err, &optErr)
}

// GenerationKindOf returns the kind of the first GenerationError in the
// chain, or 0 when there is none.
func GenerationKindOf(err error) GenerationKind {
	var genErr *GenerationError
	if As(err, &genErr) {
		return genErr.Kind
	}
	return 0
}
