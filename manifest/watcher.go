package manifest

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/logger"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback receives the watched paths that changed during one
// debounce window, sorted.
type ChangeCallback func(changed []string)

// Watcher reports changes to the manifest and the files its jobs read.
//
// Parent directories are watched rather than the files themselves, so a
// file replaced by an editor's rename-on-save keeps being tracked.
type Watcher struct {
	watcher        *fsnotify.Watcher
	log            *zap.SugaredLogger
	debouncePeriod time.Duration

	mu            sync.Mutex
	files         map[string]bool
	dirs          map[string]bool
	watched       map[string]bool
	pending       map[string]bool
	callbacks     []ChangeCallback
	debounceTimer *time.Timer
	done          chan struct{}
	stopOnce      sync.Once
	stopErr       error
}

// NewWatcher creates a watcher. Call Watch to add paths and Start to begin
// delivering events.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	return &Watcher{
		watcher:        fw,
		log:            logger.ComponentLogger("watch"),
		debouncePeriod: DefaultDebounce,
		files:          make(map[string]bool),
		dirs:           make(map[string]bool),
		watched:        make(map[string]bool),
		pending:        make(map[string]bool),
		done:           make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce period. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debouncePeriod = d
}

// WatchFile tracks a single file.
func (w *Watcher) WatchFile(path string) error {
	path = filepath.Clean(path)
	w.mu.Lock()
	w.files[path] = true
	w.mu.Unlock()
	return w.add(filepath.Dir(path))
}

// WatchDir tracks every entry of a directory.
func (w *Watcher) WatchDir(dir string) error {
	dir = filepath.Clean(dir)
	w.mu.Lock()
	w.dirs[dir] = true
	w.mu.Unlock()
	return w.add(dir)
}

// WatchManifest tracks the manifest file and every job input.
func (w *Watcher) WatchManifest(m *Manifest) error {
	if m.Path != "" {
		if err := w.WatchFile(m.Path); err != nil {
			return err
		}
	}
	for _, src := range m.Sources() {
		watch := w.WatchFile
		if src.Dir {
			watch = w.WatchDir
		}
		if err := watch(src.Path); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.NewIO("watch", dir, err)
	}
	w.watched[dir] = true
	return nil
}

// OnChange registers a callback to be called after a debounced change.
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching in a new goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.tracks(event.Name) {
				continue
			}
			w.log.Debugw("change detected", logger.FieldSource, event.Name, "op", event.Op.String())
			w.scheduleChange(filepath.Clean(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", logger.FieldError, err)

		case <-w.done:
			return
		}
	}
}

// tracks reports whether an event on name concerns a watched file or an
// entry of a watched directory.
func (w *Watcher) tracks(name string) bool {
	name = filepath.Clean(name)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

func (w *Watcher) scheduleChange(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[name] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	sort.Strings(changed)
	for _, callback := range callbacks {
		callback(changed)
	}
}

// Stop stops watching. Pending changes are dropped. Calling it again
// returns the result of the first call.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		close(w.done)
		w.stopErr = w.watcher.Close()
	})
	return w.stopErr
}
