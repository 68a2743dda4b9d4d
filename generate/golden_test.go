package generate

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/teranos/configstruct/options"
)

// Each archive holds one source file and want.rs. The source path is used as
// written, so it ends up in generated load functions.
var goldenCases = map[string]func(g *Generator, path string) (string, error){
	"json_defaults": func(g *Generator, path string) (string, error) {
		return g.Struct(path, options.DefaultStructOptions())
	},
	"toml_fixed_arrays": func(g *Generator, path string) (string, error) {
		opts := options.DefaultStructOptions()
		opts.StructName = "Settings"
		opts.MaxArraySize = 2
		return g.Struct(path, opts)
	},
	"yaml_debug_only": func(g *Generator, path string) (string, error) {
		opts := options.DefaultStructOptions()
		opts.GenerateLoadFns = true
		return g.Struct(path, opts)
	},
	"enum_defaults": func(g *Generator, path string) (string, error) {
		return g.Enum(path, options.DefaultEnumOptions())
	},
}

func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.Len(t, archives, len(goldenCases))

	for _, archivePath := range archives {
		name := filepath.Base(archivePath)
		name = name[:len(name)-len(".txtar")]

		t.Run(name, func(t *testing.T) {
			run, ok := goldenCases[name]
			require.True(t, ok, "no golden case registered for %s", name)

			archive, err := txtar.ParseFile(archivePath)
			require.NoError(t, err)
			require.Len(t, archive.Files, 2)

			src, want := archive.Files[0], archive.Files[1]
			require.Equal(t, "want.rs", want.Name)

			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, src.Name, src.Data, 0o644))

			got, err := run(New(fs), src.Name)
			require.NoError(t, err)
			assert.Equal(t, string(want.Data), got)
		})
	}
}
