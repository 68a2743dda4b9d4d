// Package files writes generated output and compares it with what is
// already on disk.
package files

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/teranos/configstruct/errors"
)

// EnsureDestination creates the parent directories of path when createDirs
// is set.
func EnsureDestination(fs afero.Fs, path string, createDirs bool) error {
	if !createDirs {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return errors.NewIO("create directory", dir, fs.MkdirAll(dir, 0o755))
}

// WriteDestination writes output to path. With onlyIfChanged set, a
// destination that already holds output is left untouched so its
// modification time does not trigger rebuilds. written reports whether the
// file was written.
func WriteDestination(fs afero.Fs, path, output string, onlyIfChanged bool) (written bool, err error) {
	if onlyIfChanged {
		upToDate, err := UpToDate(fs, path, output)
		if err == nil && upToDate {
			return false, nil
		}
	}

	if err := afero.WriteFile(fs, path, []byte(output), 0o644); err != nil {
		return false, errors.NewIO("write", path, err)
	}
	return true, nil
}

// UpToDate reports whether path exists and holds exactly output.
// A missing file is not an error; it is simply not up to date.
func UpToDate(fs afero.Fs, path, output string) (bool, error) {
	existing, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.NewIO("read", path, err)
	}
	return bytes.Equal(existing, []byte(output)), nil
}

// ReadSource reads a source document.
func ReadSource(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.NewIO("read", path, err)
	}
	return string(data), nil
}

// Diff returns a unified diff from the current content of path to output.
// It is empty when the file is up to date.
func Diff(fs afero.Fs, path, output string) (string, error) {
	existing, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.NewIO("read", path, err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(output),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
