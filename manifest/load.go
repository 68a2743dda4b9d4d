package manifest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/teranos/configstruct/errors"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// CONFIGSTRUCT_PARALLELISM=1.
const EnvPrefix = "CONFIGSTRUCT"

// SetDefaults configures default values for the manifest-level settings.
// Job fields default through the options package.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parallelism", runtime.NumCPU())
}

// NewViper returns a viper instance reading path from fs, with defaults and
// environment overrides bound.
func NewViper(fs afero.Fs, path string) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// LoadWithViper decodes a manifest from an already configured viper instance.
func LoadWithViper(v *viper.Viper) (*Manifest, error) {
	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal manifest")
	}
	return &m, nil
}

// Load reads and validates the manifest at path on fs.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	v := NewViper(fs, path)
	if err := v.ReadInConfig(); err != nil {
		if exists, _ := afero.Exists(fs, path); !exists {
			return nil, errors.WithHint(
				errors.NewIO("read", path, os.ErrNotExist),
				"create a configstruct.toml at the crate root or pass --manifest")
		}
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	m, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load manifest %s", path)
	}
	m.Path = path
	m.Dir = filepath.Dir(path)

	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid manifest %s", path)
	}
	return m, nil
}

// LoadFromFile reads and validates the manifest at path on the OS filesystem.
func LoadFromFile(path string) (*Manifest, error) {
	return Load(afero.NewOsFs(), path)
}

// Find walks up from dir looking for DefaultFileName. It returns "" when
// there is none.
func Find(fs afero.Fs, dir string) string {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if exists, _ := afero.Exists(fs, candidate); exists {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
