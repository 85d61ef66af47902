package dev

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Op is the kind of change a watcher reports.
type Op int

const (
	Add Op = iota + 1
	Change
	Unlink
)

func (o Op) String() string {
	switch o {
	case Add:
		return "add"
	case Change:
		return "change"
	case Unlink:
		return "unlink"
	}
	return "unknown"
}

// Event is a settled change to one source file. Path is slash separated
// and relative to the watcher root.
type Event struct {
	Op   Op
	Path string
}

// DefaultSettle is how long a path must stay quiet before its change is
// reported.
const DefaultSettle = 100 * time.Millisecond

// Watcher reports changes to .go files below a set of directories of root.
// Bursts of filesystem events on one path settle into a single Event.
type Watcher struct {
	root   string
	dirs   []string
	settle time.Duration

	fsw    *fsnotify.Watcher
	events chan Event

	mu      sync.Mutex
	pending map[string]time.Time
	known   map[string]bool

	log log.FieldLogger
}

// NewWatcher watches dirs, given relative to root. Directories that do not
// exist yet are picked up when they are created.
func NewWatcher(root string, dirs []string, settle time.Duration, logger log.FieldLogger) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:    root,
		dirs:    dirs,
		settle:  settle,
		fsw:     fsw,
		events:  make(chan Event, 64),
		pending: make(map[string]time.Time),
		known:   make(map[string]bool),
		log:     logger.WithField("component", "watcher"),
	}, nil
}

// Events delivers settled changes. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run emits Add for every existing file, then reports changes until ctx is
// done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fsw.Close()

	if err := w.fsw.Add(w.root); err != nil {
		return err
	}
	for _, dir := range w.dirs {
		if err := w.addRecursive(filepath.Join(w.root, dir)); err != nil {
			return err
		}
	}

	initial, err := w.scan()
	if err != nil {
		return err
	}
	for _, name := range initial {
		w.known[name] = true
		if !w.emit(ctx, Event{Op: Add, Path: name}) {
			return nil
		}
	}
	w.log.WithFields(log.Fields{"root": w.root, "files": len(initial)}).Info("Watching for changes")

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")

		case now := <-ticker.C:
			for _, ev := range w.settled(now) {
				if !w.emit(ctx, ev) {
					return nil
				}
			}
		}
	}
}

func (w *Watcher) emit(ctx context.Context, ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	rel, ok := w.relative(ev.Name)
	if !ok {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(ev.Name); err != nil {
				w.log.WithError(err).WithField("dir", rel).Warn("Failed to watch directory")
			}
			// Files may have landed before the directory was watched.
			err := filepath.WalkDir(ev.Name, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					if r, ok := w.relative(p); ok && isSource(r) {
						w.touch(r)
					}
				}
				return nil
			})
			if err != nil {
				w.log.WithError(err).WithField("dir", rel).Warn("Failed to scan new directory")
			}
			return
		}
	}

	if !isSource(rel) {
		return
	}
	if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.touch(rel)
	}
}

func (w *Watcher) touch(rel string) {
	w.mu.Lock()
	w.pending[rel] = time.Now()
	w.mu.Unlock()
}

// settled turns paths that have been quiet for the settle period into
// events, judged by whether the file exists now and existed before.
func (w *Watcher) settled(now time.Time) []Event {
	w.mu.Lock()
	var ready []string
	for name, at := range w.pending {
		if now.Sub(at) >= w.settle {
			ready = append(ready, name)
			delete(w.pending, name)
		}
	}
	w.mu.Unlock()
	slices.Sort(ready)

	var out []Event
	for _, name := range ready {
		_, err := os.Stat(filepath.Join(w.root, filepath.FromSlash(name)))
		exists := err == nil
		switch {
		case exists && w.known[name]:
			out = append(out, Event{Op: Change, Path: name})
		case exists:
			w.known[name] = true
			out = append(out, Event{Op: Add, Path: name})
		case w.known[name]:
			delete(w.known, name)
			out = append(out, Event{Op: Unlink, Path: name})
		}
	}
	return out
}

func (w *Watcher) scan() ([]string, error) {
	var files []string
	for _, dir := range w.dirs {
		err := filepath.WalkDir(filepath.Join(w.root, dir), func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if rel, ok := w.relative(p); ok && isSource(rel) {
				files = append(files, rel)
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	slices.Sort(files)
	return files, nil
}

func (w *Watcher) addRecursive(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// relative maps an absolute event path to a slash separated path below
// one of the watched directories.
func (w *Watcher) relative(p string) (string, bool) {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, dir := range w.dirs {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return rel, true
		}
	}
	return "", false
}

func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
