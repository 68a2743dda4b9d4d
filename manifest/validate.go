package manifest

import (
	"path/filepath"

	"github.com/teranos/configstruct/errors"
)

// Validate checks the manifest before any job runs.
func (m *Manifest) Validate() error {
	if m.Parallelism <= 0 {
		return errors.Newf("parallelism must be > 0, got %d", m.Parallelism)
	}

	jobs, err := m.Jobs()
	if err != nil {
		return err
	}

	destinations := make(map[string]string, len(jobs))
	for _, job := range jobs {
		field := "source"
		if job.Kind == KindFilesEnum {
			field = "directory"
		}
		if err := checkPath(job, field, job.Source); err != nil {
			return err
		}
		if err := checkPath(job, "destination", job.Destination); err != nil {
			return err
		}

		dst := filepath.Clean(job.Destination)
		if other, ok := destinations[dst]; ok {
			return errors.Newf("%s.destination %s is also written by %s", job.Name(), job.Destination, other)
		}
		destinations[dst] = job.Name()

		if job.Struct != nil {
			err = job.Struct.Validate()
		} else {
			err = job.Enum.Validate()
		}
		if err != nil {
			return errors.Wrap(err, job.Name())
		}
	}
	return nil
}

func checkPath(job Job, field, path string) error {
	if path == "" {
		return errors.Newf("%s.%s cannot be empty", job.Name(), field)
	}
	if filepath.IsAbs(path) {
		return errors.WithHint(
			errors.Newf("%s.%s must be relative to the manifest, got %s", job.Name(), field, path),
			"generated load functions resolve paths against CARGO_MANIFEST_DIR")
	}
	return nil
}

func jobError(kind Kind, index int, err error) error {
	return errors.Wrapf(err, "%s", Job{Kind: kind, Index: index}.Name())
}
