package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IntSize is the integer width used when a format does not carry one.
type IntSize int

const (
	IntI64 IntSize = iota
	IntI8
	IntI16
	IntI32
	IntIsize
)

func (s IntSize) String() string {
	switch s {
	case IntI8:
		return "i8"
	case IntI16:
		return "i16"
	case IntI32:
		return "i32"
	case IntIsize:
		return "isize"
	default:
		return "i64"
	}
}

// ParseIntSize accepts "i8", "i16", "i32", "i64" or "isize" (the leading i is
// optional, "8" means i8).
func ParseIntSize(s string) (IntSize, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "i") {
	case "8":
		return IntI8, nil
	case "16":
		return IntI16, nil
	case "32":
		return IntI32, nil
	case "64", "":
		return IntI64, nil
	case "size":
		return IntIsize, nil
	default:
		return IntI64, fmt.Errorf("unknown integer size %q", s)
	}
}

// MarshalText lets width options round-trip through config files.
func (s IntSize) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *IntSize) UnmarshalText(text []byte) error {
	parsed, err := ParseIntSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FloatSize is the float width used when a format does not carry one.
type FloatSize int

const (
	FloatF64 FloatSize = iota
	FloatF32
)

func (s FloatSize) String() string {
	if s == FloatF32 {
		return "f32"
	}
	return "f64"
}

// ParseFloatSize accepts "f32" or "f64" (the leading f is optional).
func ParseFloatSize(s string) (FloatSize, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "f") {
	case "32":
		return FloatF32, nil
	case "64", "":
		return FloatF64, nil
	default:
		return FloatF64, fmt.Errorf("unknown float size %q", s)
	}
}

func (s FloatSize) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FloatSize) UnmarshalText(text []byte) error {
	parsed, err := ParseFloatSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Int converts n to the requested width. Values that do not fit are
// truncated the same way a numeric cast would.
func Int(n int64, size IntSize) Value {
	switch size {
	case IntI8:
		return I8(n)
	case IntI16:
		return I16(n)
	case IntI32:
		return I32(n)
	case IntIsize:
		return Isize(n)
	default:
		return I64(n)
	}
}

// Float converts f to the requested width.
func Float(f float64, size FloatSize) Value {
	if size == FloatF32 {
		return F32(f)
	}
	return F64(f)
}

// Number converts the textual form of a number the way formats without their
// own widths expect: signed integers at the preferred width, then unsigned
// 64-bit, then floats at the preferred width.
func Number(raw string, intSize IntSize, floatSize FloatSize) (Value, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(n, intSize), nil
	}
	if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return U64(u), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !isRangeError(err) {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	if math.IsNaN(f) && !strings.Contains(strings.ToLower(raw), "nan") {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return Float(f, floatSize), nil
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}
