package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/teranos/configstruct/options"
)

// Kind identifies the pipeline a job runs.
type Kind string

const (
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindFilesEnum Kind = "files_enum"
)

// Job is one manifest entry with its options resolved.
type Job struct {
	Kind  Kind
	Index int
	// Source is the document, or the directory for files_enum jobs.
	Source      string
	Destination string
	// Exactly one of the two is set, matching Kind.
	Struct *options.StructOptions
	Enum   *options.EnumOptions
}

// Name identifies the job in logs and reports, e.g. "struct[0]".
func (j Job) Name() string {
	return fmt.Sprintf("%s[%d]", j.Kind, j.Index)
}

// Jobs resolves every entry, structs first, then enums, then files enums.
func (m *Manifest) Jobs() ([]Job, error) {
	jobs := make([]Job, 0, len(m.Structs)+len(m.Enums)+len(m.FilesEnums))

	for i, sj := range m.Structs {
		opts, err := sj.ToOptions()
		if err != nil {
			return nil, jobError(KindStruct, i, err)
		}
		jobs = append(jobs, Job{Kind: KindStruct, Index: i, Source: sj.Source, Destination: sj.Destination, Struct: &opts})
	}
	for i, ej := range m.Enums {
		opts, err := ej.ToOptions()
		if err != nil {
			return nil, jobError(KindEnum, i, err)
		}
		jobs = append(jobs, Job{Kind: KindEnum, Index: i, Source: ej.Source, Destination: ej.Destination, Enum: &opts})
	}
	for i, fj := range m.FilesEnums {
		opts, err := fj.ToOptions()
		if err != nil {
			return nil, jobError(KindFilesEnum, i, err)
		}
		jobs = append(jobs, Job{Kind: KindFilesEnum, Index: i, Source: fj.Directory, Destination: fj.Destination, Enum: &opts})
	}
	return jobs, nil
}

// Source is something a job reads, resolved against the manifest directory.
type Source struct {
	Path string
	// Dir is set for files_enum directories.
	Dir bool
}

// Sources lists everything the jobs read, for watching.
func (m *Manifest) Sources() []Source {
	var sources []Source
	for _, sj := range m.Structs {
		sources = append(sources, Source{Path: filepath.Join(m.Dir, sj.Source)})
	}
	for _, ej := range m.Enums {
		sources = append(sources, Source{Path: filepath.Join(m.Dir, ej.Source)})
	}
	for _, fj := range m.FilesEnums {
		sources = append(sources, Source{Path: filepath.Join(m.Dir, fj.Directory), Dir: true})
	}
	return sources
}
