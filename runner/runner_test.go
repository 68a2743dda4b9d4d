package runner

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/logger"
	"github.com/teranos/configstruct/manifest"
)

const projectManifest = `
parallelism = 2

[[struct]]
source = "config/app.toml"
destination = "src/config.rs"

[[enum]]
source = "config/app.toml"
destination = "src/keys.rs"
enum_name = "Section"

[[files_enum]]
directory = "assets"
destination = "src/assets.rs"
enum_name = "Asset"
`

func setupProject(t *testing.T) (afero.Fs, *manifest.Manifest) {
	t.Helper()
	fs := afero.NewMemMapFs()
	write := func(path, content string) {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	write("crate/configstruct.toml", projectManifest)
	write("crate/config/app.toml", "[Server]\nport = 80\n[Client]\nretries = 3\n")
	write("crate/assets/logo.png", "png")
	write("crate/assets/main_theme.css", "css")

	m, err := manifest.Load(fs, "crate/configstruct.toml")
	require.NoError(t, err)
	return fs, m
}

func TestRun(t *testing.T) {
	fs, m := setupProject(t)
	r := New(fs)

	results, err := r.Run(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.NoError(t, res.Err, res.Job.Name())
		assert.True(t, res.Written, res.Job.Name())
	}

	config, err := afero.ReadFile(fs, "crate/src/config.rs")
	require.NoError(t, err)
	assert.Contains(t, string(config), "pub Server: _Config__Server,")

	keys, err := afero.ReadFile(fs, "crate/src/keys.rs")
	require.NoError(t, err)
	assert.Contains(t, string(keys), "pub enum Section {\n    Server,\n    Client,\n}")

	assets, err := afero.ReadFile(fs, "crate/src/assets.rs")
	require.NoError(t, err)
	assert.Contains(t, string(assets), "pub enum Asset {\n    Logo,\n    MainTheme,\n}")

	// Second run leaves everything alone.
	results, err = r.Run(context.Background(), m)
	require.NoError(t, err)
	for _, res := range results {
		assert.False(t, res.Written, res.Job.Name())
	}
}

func TestRunKeepsGoingAfterFailure(t *testing.T) {
	fs, m := setupProject(t)
	require.NoError(t, fs.Remove("crate/config/app.toml"))

	results, err := New(fs).Run(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 jobs failed")
	assert.True(t, errors.IsIO(err))

	require.Len(t, results, 3)
	assert.Error(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.True(t, results[2].Written)
}

func TestRunCancelled(t *testing.T) {
	fs, m := setupProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(fs).Run(ctx, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	for _, res := range results {
		assert.False(t, res.Written)
	}
}

func TestCheck(t *testing.T) {
	fs, m := setupProject(t)
	r := New(fs)

	results, err := r.Check(context.Background(), m, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStale))
	for _, res := range results {
		assert.True(t, res.Stale, "nothing generated yet")
	}
	exists, _ := afero.Exists(fs, "crate/src/config.rs")
	assert.False(t, exists, "check never writes")

	_, err = r.Run(context.Background(), m)
	require.NoError(t, err)

	results, err = r.Check(context.Background(), m, true)
	require.NoError(t, err)
	for _, res := range results {
		assert.False(t, res.Stale)
		assert.Empty(t, res.Diff)
	}

	require.NoError(t, afero.WriteFile(fs, "crate/config/app.toml", []byte("[Server]\nport = 80\n"), 0o644))
	results, err = r.Check(context.Background(), m, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStale))
	assert.Contains(t, err.Error(), "2 of 3 destinations")

	assert.True(t, results[0].Stale)
	assert.Contains(t, results[0].Diff, "-    pub Client: _Config__Client,")
	assert.True(t, results[1].Stale)
	assert.False(t, results[2].Stale)
}

func TestRunManifestBuiltInCode(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.json", []byte(`{"a": 1}`), 0o644))
	// Parallelism is left at zero; it was never loaded through manifest.Load.
	m := &manifest.Manifest{Structs: []manifest.StructJob{{Source: "a.json", Destination: "a.rs"}}}

	type outcome struct {
		results []Result
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := New(fs).Run(context.Background(), m)
		done <- outcome{results, err}
	}()

	select {
	case out := <-done:
		require.NoError(t, out.err)
		require.Len(t, out.results, 1)
		assert.True(t, out.results[0].Written)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return with zero parallelism")
	}
}

func TestRunLogsJobContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = previous })

	fs, m := setupProject(t)
	_, err := New(fs).Run(context.Background(), m)
	require.NoError(t, err)

	finished := logs.FilterMessage("job finished").FilterField(zap.String(logger.FieldJob, "struct[0]")).All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, "runner", fields[logger.FieldComponent])
	assert.Equal(t, "struct", fields[logger.FieldKind])
	assert.Equal(t, "src/config.rs", fields[logger.FieldDestination])
}
