package parsing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

func TestYAMLScalars(t *testing.T) {
	got, err := YAMLParser{}.Parse(`
nothing: ~
also_nothing: null
flag: yes_is_a_string
on: true
hex: 0x10
inf: .inf
quoted: "5"
when: 2001-12-14
`, defaultConfig)
	require.NoError(t, err)

	assert.Equal(t, value.None(), got.Fields["nothing"])
	assert.Equal(t, value.None(), got.Fields["also_nothing"])
	assert.Equal(t, value.String("yes_is_a_string"), got.Fields["flag"])
	assert.Equal(t, value.Bool(true), got.Fields["on"])
	assert.Equal(t, value.I64(16), got.Fields["hex"])
	assert.Equal(t, value.F64(math.Inf(1)), got.Fields["inf"])
	assert.Equal(t, value.String("5"), got.Fields["quoted"])
	assert.Equal(t, value.String("2001-12-14"), got.Fields["when"])
}

func TestYAMLAliasesAndMerge(t *testing.T) {
	got, err := YAMLParser{}.Parse(`
defaults: &defaults
  adapter: postgres
  pool: 5
development:
  <<: *defaults
  pool: 10
copy: *defaults
`, defaultConfig)
	require.NoError(t, err)

	dev := got.Fields["development"].(*value.Struct)
	assert.Equal(t, "_Config__development", dev.Name)
	assert.Equal(t, value.String("postgres"), dev.Fields["adapter"])
	assert.Equal(t, value.I64(10), dev.Fields["pool"], "explicit keys win over merged ones")

	copied := got.Fields["copy"].(*value.Struct)
	assert.Equal(t, "_Config__copy", copied.Name)
	assert.Equal(t, value.I64(5), copied.Fields["pool"])
}

func TestYAMLRejectsNonStringKeys(t *testing.T) {
	_, err := YAMLParser{}.Parse("1: one\n", defaultConfig)
	require.Error(t, err)
	assert.Equal(t, errors.DeserializationFailed, errors.GenerationKindOf(err))
	assert.Contains(t, err.Error(), "mapping keys must be strings")
}

func TestYAMLEmptyDocument(t *testing.T) {
	_, err := YAMLParser{}.Parse("", defaultConfig)
	assert.Equal(t, errors.DeserializationFailed, errors.GenerationKindOf(err))
}

func TestYAMLMapKeys(t *testing.T) {
	keys, err := YAMLParser{}.ParseMapKeys("b: 1\na: 2\nc:\n  nested: 3\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, keys)
}
