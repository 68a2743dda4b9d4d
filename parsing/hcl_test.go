package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

func TestHCLBlocks(t *testing.T) {
	got, err := HCLParser{}.Parse(`
region = "eu-west-1"
limits = { cpu = 2, memory = 512 }
nothing = null

listener {
  port = 80
}
listener {
  port = 443
}

service "web" {
  replicas = 3
}
service "worker" {
  replicas = 1
}
`, defaultConfig)
	require.NoError(t, err)

	assert.Equal(t, value.String("eu-west-1"), got.Fields["region"])
	assert.Equal(t, value.None(), got.Fields["nothing"])

	limits := got.Fields["limits"].(*value.Struct)
	assert.Equal(t, "_Config__limits", limits.Name)
	assert.Equal(t, value.I64(512), limits.Fields["memory"])

	listeners := got.Fields["listener"].(value.Array)
	require.Len(t, listeners, 2)
	assert.Equal(t, "_Config__listener", listeners[0].(*value.Struct).Name)
	assert.Equal(t, value.I64(443), listeners[1].(*value.Struct).Fields["port"])

	services := got.Fields["service"].(*value.Struct)
	assert.Equal(t, "_Config__service", services.Name)
	web := services.Fields["web"].(*value.Struct)
	assert.Equal(t, "_Config__service__web", web.Name)
	assert.Equal(t, value.I64(3), web.Fields["replicas"])
	assert.Equal(t, value.I64(1), services.Fields["worker"].(*value.Struct).Fields["replicas"])
}

func TestHCLRejectsDuplicates(t *testing.T) {
	_, err := HCLParser{}.Parse("service \"web\" {}\nservice \"web\" {}\n", defaultConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is defined more than once")

	_, err = HCLParser{}.Parse("db = 1\ndb {}\n", defaultConfig)
	require.Error(t, err)
	assert.Equal(t, errors.DeserializationFailed, errors.GenerationKindOf(err))
}

func TestHCLVariablesAreNotAvailable(t *testing.T) {
	_, err := HCLParser{}.Parse("a = var.region\n", defaultConfig)
	require.Error(t, err)
	assert.Equal(t, errors.DeserializationFailed, errors.GenerationKindOf(err))
}

func TestHCLMapKeys(t *testing.T) {
	keys, err := HCLParser{}.ParseMapKeys("zeta = 1\nblock {}\nalpha = 2\nblock {}\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "block", "alpha"}, keys)
}
