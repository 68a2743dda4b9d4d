package rust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/configstruct/value"
)

func TestFloatLiteralKeepsFraction(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.F64(1.0), "1.0"},
		{value.F64(1.5), "1.5"},
		{value.F64(123.456789), "123.456789"},
		{value.F64(-2.5), "-2.5"},
		{value.F64(0), "0.0"},
		{value.F64(1e21), "1000000000000000000000.0"},
		{value.F32(0.1), "0.1"},
		{value.F32(3), "3.0"},
		{value.F64(math.NaN()), "f64::NAN"},
		{value.F64(math.Inf(1)), "f64::INFINITY"},
		{value.F32(float32(math.Inf(-1))), "f32::NEG_INFINITY"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Literal(tt.v, 0, 0))
	}
}

func TestScalarLiterals(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.Unit{}, "()"},
		{value.Bool(true), "true"},
		{value.Char('c'), "'c'"},
		{value.Char('\''), `'\''`},
		{value.I8(-8), "-8"},
		{value.I64(math.MinInt64), "-9223372036854775808"},
		{value.U64(math.MaxUint64), "18446744073709551615"},
		{value.Usize(7), "7"},
		{value.String("Application"), `Cow::Borrowed("Application")`},
		{value.String(`say "hi"\n`), `Cow::Borrowed("say \"hi\"\\n")`},
		{value.String("tab\there\nnew"), `Cow::Borrowed("tab\there\nnew")`},
		{value.String("it's ünïcode"), `Cow::Borrowed("it's ünïcode")`},
		{value.String("\x01"), `Cow::Borrowed("\u{1}")`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Literal(tt.v, 0, 0))
	}
}

func TestOptionLiterals(t *testing.T) {
	assert.Equal(t, "None", Literal(value.None(), 0, 0))
	assert.Equal(t, "Some(())", Literal(value.Some(u), 0, 0))
	assert.Equal(t, "Some(5)", Literal(value.Some(value.I64(5)), 0, 0))
}

func TestArrayLiterals(t *testing.T) {
	assert.Equal(t, "Cow::Borrowed(&[])", Literal(value.Array{}, 0, 0))
	assert.Equal(t, "Cow::Borrowed(&[])", Literal(value.Array{}, 0, 4))
	assert.Equal(t, "Cow::Borrowed(&[(), (), ()])", Literal(three, 0, 0))
	assert.Equal(t, "[(), (), ()]", Literal(three, 0, 4))
}

func TestStructLiteral(t *testing.T) {
	inner := value.NewStruct("_Config__a")
	inner.Set("b", value.I64(1))

	root := value.NewStruct("Config")
	root.Set("a", inner)
	root.Set("type", value.String("x"))
	root.Set("list", value.Array{inner.Clone()})

	want := "Config {\n" +
		"    a: _Config__a {\n" +
		"        b: 1,\n" +
		"    },\n" +
		"    list: Cow::Borrowed(&[_Config__a {\n" +
		"            b: 1,\n" +
		"        }]),\n" +
		"    r#type: Cow::Borrowed(\"x\"),\n" +
		"}"
	assert.Equal(t, want, StructLiteral(root, 0, 0))
}

func TestStructLiteralInsideArrayIsIndentedDeeper(t *testing.T) {
	elem := value.NewStruct("E")
	elem.Set("n", value.I32(2))

	root := value.NewStruct("R")
	root.Set("outer", value.Some(value.Array{elem}))

	want := "R {\n" +
		"    outer: Some(Cow::Borrowed(&[E {\n" +
		"            n: 2,\n" +
		"        }])),\n" +
		"}"
	assert.Equal(t, want, StructLiteral(root, 0, 0))
}

func TestLiteralIsDeterministic(t *testing.T) {
	root := value.NewStruct("Config")
	for _, k := range []string{"q", "w", "e", "r", "t", "y"} {
		root.Set(k, value.String(k))
	}
	first := StructLiteral(root, 0, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, StructLiteral(root.Clone(), 0, 0))
	}
}
