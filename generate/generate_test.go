package generate

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/format"
	"github.com/teranos/configstruct/logger"
	"github.com/teranos/configstruct/options"
)

func jsonOptions() options.StructOptions {
	opts := options.DefaultStructOptions()
	opts.Format = format.JSON
	return opts
}

func TestStructFromSourceNeedsFormat(t *testing.T) {
	g := New(afero.NewMemMapFs())

	_, err := g.StructFromSource(`{"a": 1}`, options.DefaultStructOptions())
	require.Error(t, err)
	assert.Equal(t, errors.UnknownInputFormat, errors.GenerationKindOf(err))
	assert.Equal(t, "Unknown input format: `<none>`.", err.Error())
}

func TestStructUnknownExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.txt", []byte("a = 1"), 0o644))

	_, err := New(fs).Struct("config.txt", options.DefaultStructOptions())
	require.Error(t, err)
	assert.Equal(t, errors.UnknownInputFormat, errors.GenerationKindOf(err))
	assert.Contains(t, err.Error(), "config.txt")
}

func TestStructInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*options.StructOptions)
	}{
		{"struct name", func(o *options.StructOptions) { o.StructName = "bad name" }},
		{"const name", func(o *options.StructOptions) { o.ConstName = "1CONST" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := jsonOptions()
			tt.modify(&opts)

			// Options are checked before the source is parsed.
			_, err := New(afero.NewMemMapFs()).StructFromSource("not json", opts)
			require.Error(t, err)
			assert.True(t, errors.IsOptions(err))
			assert.Equal(t, errors.Options, errors.GenerationKindOf(err))
		})
	}
}

func TestStructBadDocuments(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   errors.GenerationKind
	}{
		{"syntax", `{"a": `, errors.DeserializationFailed},
		{"top level array", `[1, 2]`, errors.DeserializationFailed},
		{"field name", `{"white space": 1}`, errors.InvalidFieldName},
		{"mixed array", `{"items": [1, "two"]}`, errors.HeterogenousArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(afero.NewMemMapFs()).StructFromSource(tt.source, jsonOptions())
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.GenerationKindOf(err))
		})
	}
}

func TestStructMissingSource(t *testing.T) {
	_, err := New(afero.NewMemMapFs()).Struct("nowhere/config.json", options.DefaultStructOptions())
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
	assert.True(t, errors.IsNotFoundError(err))
}

func TestStructNestedNaming(t *testing.T) {
	opts := jsonOptions()
	opts.StructName = "App"

	out, err := New(afero.NewMemMapFs()).StructFromSource(`{"a": {"b": {"c": 1}}}`, opts)
	require.NoError(t, err)

	assert.Contains(t, out, "pub struct App {\n    pub a: _App__a,\n}")
	assert.Contains(t, out, "pub struct _App__a {\n    pub b: _App__a__b,\n}")
	assert.Contains(t, out, "pub struct _App__a__b {\n    pub c: i64,\n}")
	assert.Contains(t, out, "pub const APP: App = App {")
}

func TestStructDeterministic(t *testing.T) {
	source := `{"z": 1, "a": {"y": [1.5, 2.5], "b": "x"}, "m": null}`
	g := New(afero.NewMemMapFs())

	first, err := g.StructFromSource(source, jsonOptions())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.StructFromSource(source, jsonOptions())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStructSameTreeAcrossFormats(t *testing.T) {
	fs := afero.NewMemMapFs()
	sources := map[string]string{
		"c.json": `{"name": "x", "count": 3, "nested": {"enabled": true}}`,
		"c.toml": "name = \"x\"\ncount = 3\n[nested]\nenabled = true\n",
		"c.yaml": "name: x\ncount: 3\nnested:\n  enabled: true\n",
	}
	for path, src := range sources {
		require.NoError(t, afero.WriteFile(fs, path, []byte(src), 0o644))
	}

	g := New(fs)
	want, err := g.Struct("c.json", options.DefaultStructOptions())
	require.NoError(t, err)

	for _, path := range []string{"c.toml", "c.yaml"} {
		got, err := g.Struct(path, options.DefaultStructOptions())
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestLoadFunctions(t *testing.T) {
	tests := []struct {
		name      string
		mode      options.DynamicLoading
		noConst   bool
		contains  []string
		excludes  []string
		needsPath bool
	}{
		{
			name:      "always",
			mode:      options.Always,
			noConst:   true,
			contains:  []string{"::serde_json::from_str(&file_contents)", `"/config.json"`},
			excludes:  []string{"pub const", "#[cfg(debug_assertions)]"},
			needsPath: true,
		},
		{
			name:     "never",
			mode:     options.Never,
			noConst:  true,
			contains: []string{"pub const CONFIG: Config", "Cow::Borrowed(&CONFIG)"},
			excludes: []string{"read_to_string", "#[cfg(debug_assertions)]"},
		},
		{
			name:      "debug only",
			mode:      options.DebugOnly,
			contains:  []string{"#[cfg(debug_assertions)]", "#[cfg(not(debug_assertions))]", "Cow::Borrowed(&CONFIG)"},
			needsPath: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"a": 1}`), 0o644))
			g := New(fs)

			opts := options.DefaultStructOptions()
			opts.GenerateLoadFns = true
			opts.DynamicLoading = tt.mode
			opts.GenerateConst = !tt.noConst

			out, err := g.Struct("config.json", opts)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
			assert.Equal(t, byte('\n'), out[len(out)-1])

			opts.Format = format.JSON
			_, err = g.StructFromSource(`{"a": 1}`, opts)
			if tt.needsPath {
				require.Error(t, err)
				assert.Equal(t, errors.MissingFilePath, errors.GenerationKindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWriteStructOnlyIfChanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.toml", []byte("a = 1\n"), 0o644))
	g := New(fs)
	opts := options.DefaultStructOptions()

	written, err := g.WriteStruct("config.toml", "src/gen/config.rs", opts)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = g.WriteStruct("config.toml", "src/gen/config.rs", opts)
	require.NoError(t, err)
	assert.False(t, written, "unchanged output must not be rewritten")

	opts.WriteOnlyIfChanged = false
	written, err = g.WriteStruct("config.toml", "src/gen/config.rs", opts)
	require.NoError(t, err)
	assert.True(t, written)

	out, err := afero.ReadFile(fs, "src/gen/config.rs")
	require.NoError(t, err)
	assert.Contains(t, string(out), "pub a: i64,")
}

func TestWriteStructFromSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := New(fs)

	written, err := g.WriteStructFromSource(`{"a": "b"}`, "out.rs", jsonOptions())
	require.NoError(t, err)
	assert.True(t, written)

	exists, err := afero.Exists(fs, "out.rs")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = g.WriteStructFromSource(`{"a": `, "broken.rs", jsonOptions())
	require.Error(t, err)
	exists, _ = afero.Exists(fs, "broken.rs")
	assert.False(t, exists, "nothing is written when generation fails")
}

func TestPackageFunctionsUseInitializedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = previous })

	_, err := StructFromSource(`{"a": 1}`, jsonOptions())
	require.NoError(t, err)

	parsed := logs.FilterMessage("parsed source").All()
	require.Len(t, parsed, 1)
	assert.Equal(t, "generate", parsed[0].LoggerName)
	assert.Equal(t, "json", parsed[0].ContextMap()[logger.FieldFormat])
}
