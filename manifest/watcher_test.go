package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherTracks(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.WatchFile(filepath.Join(dir, "config.toml")))
	require.NoError(t, w.WatchDir(filepath.Join(dir)))

	assert.True(t, w.tracks(filepath.Join(dir, "config.toml")))
	assert.True(t, w.tracks(filepath.Join(dir, "other.txt")), "entries of watched directories are tracked")
	assert.False(t, w.tracks(filepath.Join(os.TempDir(), "unrelated", "x")))
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(source, []byte("a = 1\n"), 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	w.SetDebounce(100 * time.Millisecond)
	require.NoError(t, w.WatchManifest(&Manifest{
		Dir:     dir,
		Structs: []StructJob{{Source: "config.toml", Destination: "config.rs"}},
	}))

	changes := make(chan []string, 4)
	w.OnChange(func(changed []string) { changes <- changed })
	w.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(source, []byte("a = 2\n"), 0o644))
	}
	// Files next to the source are not tracked.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{source}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case changed := <-changes:
		t.Fatalf("unexpected second report: %v", changed)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherStopTwice(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	w.Start()

	require.NoError(t, w.Stop())
	assert.NotPanics(t, func() {
		assert.NoError(t, w.Stop())
	})
}

func TestWatchManifestTracksSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o755))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.WatchManifest(&Manifest{
		Dir:        dir,
		Path:       filepath.Join(dir, DefaultFileName),
		Enums:      []EnumJob{{Source: "keys.json", Destination: "keys.rs"}},
		FilesEnums: []FilesEnumJob{{Directory: "assets", Destination: "assets.rs"}},
	}))

	assert.True(t, w.tracks(filepath.Join(dir, DefaultFileName)))
	assert.True(t, w.tracks(filepath.Join(dir, "keys.json")))
	assert.True(t, w.tracks(filepath.Join(dir, "assets", "logo.png")))
	assert.False(t, w.tracks(filepath.Join(dir, "keys.rs")))
}
