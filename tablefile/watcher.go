package tablefile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 500 * time.Millisecond

// Target receives reloaded tables. *registry.Registry satisfies it.
type Target interface {
	tables.Registrar
	Unregister(name string) error
}

// ReloadCallback is called after every reload attempt. doc is nil when the
// table was removed or the file failed to load.
type ReloadCallback func(path string, doc *Document, err error)

// Watcher re-registers table files when they change on disk. Changed files
// replace the registered table; deleted files unregister it.
type Watcher struct {
	target   Target
	watcher  *fsnotify.Watcher
	logger   *zap.SugaredLogger
	debounce time.Duration

	mu        sync.Mutex
	files     map[string]bool   // explicitly watched files
	dirs      map[string]bool   // watched directories
	names     map[string]string // path -> registered table name
	timers    map[string]*time.Timer
	callbacks []ReloadCallback
}

// NewWatcher watches each path, which may be a file or a directory. Files
// are watched through their parent directory so editors that replace files
// on save are still seen.
func NewWatcher(target Target, paths []string, l *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		target:   target,
		watcher:  fw,
		logger:   logger.OrNop(l),
		debounce: DefaultDebounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		names:    make(map[string]string),
		timers:   make(map[string]*time.Timer),
	}

	for _, path := range paths {
		if err := w.add(path); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}

	dir := path
	if !info.IsDir() {
		w.files[path] = true
		dir = filepath.Dir(path)
	} else {
		w.dirs[path] = true
	}

	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	return nil
}

// SetDebounce changes the quiet period. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Track records that doc, loaded from doc.Path, is already registered, so
// a later delete or rename of the file unregisters it.
func (w *Watcher) Track(doc *Document) {
	if doc == nil || doc.Path == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.names[filepath.Clean(doc.Path)] = doc.Name
}

// OnReload registers a callback for reload results.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start watches for changes until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if !w.relevant(path) {
				continue
			}

			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				w.logger.Debugw("Table file changed", logger.FieldFile, path, "op", event.Op.String())
				w.schedule(path, w.reload)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				w.logger.Debugw("Table file removed", logger.FieldFile, path, "op", event.Op.String())
				w.schedule(path, w.remove)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Table watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) relevant(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && IsTableFile(path)
}

// schedule debounces events per path
func (w *Watcher) schedule(path string, fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		fn(path)
	})
}

func (w *Watcher) reload(path string) {
	doc, err := LoadFile(path)
	if err != nil {
		w.logger.Errorw("Table reload failed", logger.FieldFile, path, logger.FieldError, err)
		w.notify(path, nil, err)
		return
	}

	w.mu.Lock()
	previous, tracked := w.names[path]
	w.mu.Unlock()

	if err := doc.Register(w.target, true); err != nil {
		w.logger.Errorw("Table reload failed",
			logger.FieldFile, path,
			logger.FieldTable, doc.Name,
			logger.FieldError, err)
		w.notify(path, nil, err)
		return
	}

	// The file was renamed internally; drop the table it used to define
	if tracked && previous != doc.Name {
		if err := w.target.Unregister(previous); err != nil && !errors.Is(err, errors.ErrTableNotFound) {
			w.logger.Warnw("Failed to unregister renamed table", logger.FieldTable, previous, logger.FieldError, err)
		}
	}

	w.mu.Lock()
	w.names[path] = doc.Name
	w.mu.Unlock()

	w.logger.Infow("Table reloaded", logger.FieldFile, path, logger.FieldTable, doc.Name)
	w.notify(path, doc, nil)
}

func (w *Watcher) remove(path string) {
	// Editors often save by rename-and-replace
	if _, err := os.Stat(path); err == nil {
		w.reload(path)
		return
	}

	w.mu.Lock()
	name, tracked := w.names[path]
	delete(w.names, path)
	w.mu.Unlock()

	if !tracked {
		return
	}

	err := w.target.Unregister(name)
	if errors.Is(err, errors.ErrTableNotFound) {
		err = nil
	}
	if err != nil {
		w.logger.Warnw("Failed to unregister table", logger.FieldTable, name, logger.FieldError, err)
	} else {
		w.logger.Infow("Table unregistered after file removal", logger.FieldFile, path, logger.FieldTable, name)
	}
	w.notify(path, nil, err)
}

func (w *Watcher) notify(path string, doc *Document, err error) {
	w.mu.Lock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(path, doc, err)
	}
}

// Close stops pending reloads and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
