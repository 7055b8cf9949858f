package watch

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a document tree and reports changed files after a quiet
// period, so a burst of editor saves triggers a single re-extraction.
type Watcher struct {
	root     string
	exts     map[string]bool
	delay    time.Duration
	onChange func(paths []string)
	log      *slog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
}

// New creates a Watcher over root. onChange receives the set of changed
// file paths after each quiet period of delay.
func New(root string, exts []string, delay time.Duration, log *slog.Logger, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	extSet := make(map[string]bool, len(exts))
	for _, ext := range exts {
		extSet[strings.ToLower(ext)] = true
	}
	return &Watcher{
		root:     root,
		exts:     extSet,
		delay:    delay,
		onChange: onChange,
		log:      log,
		fsw:      fsw,
		pending:  make(map[string]struct{}),
	}, nil
}

// Start registers all directories under root and begins dispatching events.
// It returns after the event loop goroutine is running.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		w.fsw.Close()
		return err
	}

	go w.loop()
	w.log.Info("watching for document changes", "root", w.root)
	return nil
}

// Close stops watching. Pending changes are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		// New directories need their own watch; Add fails harmlessly on
		// plain files.
		if err := w.fsw.Add(event.Name); err == nil {
			w.log.Debug("watching new path", "path", event.Name)
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !w.Tracks(event.Name) {
		return
	}
	w.queue(event.Name)
}

// Tracks reports whether a path has a watched document extension.
func (w *Watcher) Tracks(path string) bool {
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) queue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	w.log.Info("documents changed", "count", len(paths))
	w.onChange(paths)
}
