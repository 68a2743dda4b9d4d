// Package runner executes the jobs of a manifest.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/files"
	"github.com/teranos/configstruct/generate"
	"github.com/teranos/configstruct/logger"
	"github.com/teranos/configstruct/manifest"
)

// Result is the outcome of one job.
type Result struct {
	Job manifest.Job
	// Written is set by Run when the destination was (re)written.
	Written bool
	// Stale is set by Check when the destination differs from what would be
	// generated.
	Stale bool
	// Diff holds the unified diff of a stale destination when requested.
	Diff     string
	Duration time.Duration
	Err      error
}

// Runner runs manifest jobs on a filesystem.
type Runner struct {
	fs afero.Fs
}

// New creates a Runner on fs.
func New(fs afero.Fs) *Runner {
	return &Runner{fs: fs}
}

// generatorFor roots the generator at the manifest directory so job paths,
// and the paths embedded in load functions, stay relative to it.
func (r *Runner) generatorFor(m *manifest.Manifest) *generate.Generator {
	if m.Dir == "" || m.Dir == "." {
		return generate.New(r.fs)
	}
	return generate.New(afero.NewBasePathFs(r.fs, m.Dir))
}

// Run generates and writes every job. Jobs run concurrently up to
// m.Parallelism, or runtime.NumCPU() when it is not positive; a failing job
// does not stop the others.
func (r *Runner) Run(ctx context.Context, m *manifest.Manifest) ([]Result, error) {
	g := r.generatorFor(m)
	return r.each(ctx, m, func(job manifest.Job) (Result, error) {
		written, err := write(g, job)
		return Result{Job: job, Written: written}, err
	})
}

// Check generates every job in memory and compares it with the destination
// without writing. The error wraps errors.ErrStale when any destination is
// out of date.
func (r *Runner) Check(ctx context.Context, m *manifest.Manifest, withDiff bool) ([]Result, error) {
	g := r.generatorFor(m)
	results, err := r.each(ctx, m, func(job manifest.Job) (Result, error) {
		res := Result{Job: job}
		output, err := generateOutput(g, job)
		if err != nil {
			return res, err
		}
		upToDate, err := files.UpToDate(g.Fs(), job.Destination, output)
		if err != nil {
			return res, err
		}
		res.Stale = !upToDate
		if res.Stale && withDiff {
			if res.Diff, err = files.Diff(g.Fs(), job.Destination, output); err != nil {
				return res, err
			}
		}
		return res, nil
	})
	if err != nil {
		return results, err
	}

	stale := 0
	for _, res := range results {
		if res.Stale {
			stale++
		}
	}
	if stale > 0 {
		return results, errors.WithHint(
			errors.Wrapf(errors.ErrStale, "%d of %d destinations", stale, len(results)),
			"run `configstruct run` to regenerate them")
	}
	return results, nil
}

func (r *Runner) each(ctx context.Context, m *manifest.Manifest, do func(manifest.Job) (Result, error)) ([]Result, error) {
	jobs, err := m.Jobs()
	if err != nil {
		return nil, err
	}

	limit := m.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))
	var eg errgroup.Group
	eg.SetLimit(limit)

	for i, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}

			start := time.Now()
			res, err := do(job)
			res.Duration = time.Since(start)
			res.Err = err
			results[i] = res

			jobCtx := logger.WithComponent(logger.WithJob(ctx, job.Name()), "runner")
			log := logger.LoggerFromContext(jobCtx).With(logger.FieldKind, string(job.Kind), logger.FieldDestination, job.Destination)
			if err != nil {
				log.Debugw("job failed", logger.FieldError, err)
			} else {
				log.Debugw("job finished",
					logger.FieldWritten, res.Written,
					"stale", res.Stale,
					logger.FieldDurationMS, res.Duration.Milliseconds())
			}
			return nil
		})
	}
	_ = eg.Wait()

	var failed int
	var first error
	for _, res := range results {
		if res.Err != nil {
			if first == nil {
				first = errors.Wrap(res.Err, res.Job.Name())
			}
			failed++
		}
	}
	if failed > 0 {
		return results, errors.Wrapf(first, "%d of %d jobs failed", failed, len(results))
	}
	return results, nil
}

func write(g *generate.Generator, job manifest.Job) (bool, error) {
	switch job.Kind {
	case manifest.KindStruct:
		return g.WriteStruct(job.Source, job.Destination, *job.Struct)
	case manifest.KindEnum:
		return g.WriteEnum(job.Source, job.Destination, *job.Enum)
	case manifest.KindFilesEnum:
		return g.WriteFilesEnum(job.Source, job.Destination, *job.Enum)
	default:
		return false, fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

func generateOutput(g *generate.Generator, job manifest.Job) (string, error) {
	switch job.Kind {
	case manifest.KindStruct:
		return g.Struct(job.Source, *job.Struct)
	case manifest.KindEnum:
		return g.Enum(job.Source, *job.Enum)
	case manifest.KindFilesEnum:
		return g.FilesEnum(job.Source, *job.Enum)
	default:
		return "", fmt.Errorf("unknown job kind %q", job.Kind)
	}
}
