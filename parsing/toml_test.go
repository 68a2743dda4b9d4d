package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/configstruct/value"
)

func TestTOMLArrayOfTables(t *testing.T) {
	got, err := TOMLParser{}.Parse(`
title = "servers"

[[server]]
host = "alpha"
port = 8001

[[server]]
host = "beta"
port = 8002
`, defaultConfig)
	require.NoError(t, err)

	servers, ok := got.Fields["server"].(value.Array)
	require.True(t, ok)
	require.Len(t, servers, 2)

	first := servers[0].(*value.Struct)
	assert.Equal(t, "_Config__server", first.Name)
	assert.Equal(t, value.String("alpha"), first.Fields["host"])
	assert.Equal(t, value.I64(8002), servers[1].(*value.Struct).Fields["port"])
}

func TestTOMLDatetimesBecomeStrings(t *testing.T) {
	got, err := TOMLParser{}.Parse("released = 1979-05-27T07:32:00Z\n", defaultConfig)
	require.NoError(t, err)
	assert.Equal(t, value.String("1979-05-27T07:32:00Z"), got.Fields["released"])
}

func TestTOMLNestedTables(t *testing.T) {
	got, err := TOMLParser{}.Parse("[a.b]\nc = true\n", defaultConfig)
	require.NoError(t, err)

	a := got.Fields["a"].(*value.Struct)
	b := a.Fields["b"].(*value.Struct)
	assert.Equal(t, "_Config__a__b", b.Name)
	assert.Equal(t, value.Bool(true), b.Fields["c"])
}

func TestTOMLMapKeysOnlyTopLevel(t *testing.T) {
	keys, err := TOMLParser{}.ParseMapKeys("zed = 1\nalpha = 2\n\n[table]\ninner = 3\n\n[table.sub]\nx = 1\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"zed", "alpha", "table"}, keys)
}
