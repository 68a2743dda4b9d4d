package runner

import (
	"context"
	"time"

	"github.com/teranos/configstruct/logger"
	"github.com/teranos/configstruct/manifest"
)

// Report receives the outcome of each run started by Watch.
type Report func(results []Result, err error)

// Watch runs the manifest at path once, then again whenever the manifest or
// a job input changes, until ctx is done. The manifest is reloaded on every
// change so edited jobs take effect without a restart.
func (r *Runner) Watch(ctx context.Context, path string, debounce time.Duration, report Report) error {
	m, err := manifest.Load(r.fs, path)
	if err != nil {
		return err
	}

	w, err := manifest.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	if debounce > 0 {
		w.SetDebounce(debounce)
	}
	if err := w.WatchManifest(m); err != nil {
		return err
	}

	changes := make(chan []string, 1)
	w.OnChange(func(changed []string) {
		select {
		case changes <- changed:
		default:
			// A run is already queued and will pick this change up.
		}
	})
	w.Start()

	report(r.Run(ctx, m))

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			logger.LoggerFromContext(logger.WithComponent(ctx, "runner")).Debugw("rerunning after change", logger.FieldCount, len(changed), logger.FieldSource, changed)

			reloaded, err := manifest.Load(r.fs, path)
			if err != nil {
				report(nil, err)
				continue
			}
			m = reloaded
			if err := w.WatchManifest(m); err != nil {
				report(nil, err)
				continue
			}
			report(r.Run(ctx, m))
		}
	}
}
