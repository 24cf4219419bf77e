// Package fswatch derives document-change notifications from files changing
// on disk, for hosts that cannot forward their edit events. Each file is
// snapshotted; when it changes, the inserted regions relative to the
// snapshot become the notification's content changes.
package fswatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/source"
)

const (
	defaultDebounce = 100 * time.Millisecond
	maxFileSize     = 1 << 20 // 1MB
)

var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

func init() {
	source.Register("fswatch", func(cfg source.Config) (source.Source, error) {
		dir := cfg.Dir
		if dir == "" {
			dir = "."
		}
		return New(dir, WithExclude(cfg.Exclude...))
	})
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is diffed.
// Editors often truncate and then write, which arrive as separate events.
// Default: 100ms.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithExclude adds files or directories whose changes are never reported.
func WithExclude(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				w.exclude = append(w.exclude, abs)
			}
		}
	}
}

// Watcher implements source.Source over a directory tree.
type Watcher struct {
	root     string
	exclude  []string
	debounce time.Duration

	mu        sync.Mutex
	snapshots map[string]string
	timers    map[string]*time.Timer
}

// New creates a Watcher rooted at dir.
func New(dir string, opts ...Option) (*Watcher, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("fswatch source: %w", err)
	}
	w := &Watcher{
		root:      root,
		debounce:  defaultDebounce,
		snapshots: make(map[string]string),
		timers:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Subscribe snapshots the tree, installs watches and starts reporting.
// Watches are in place when Subscribe returns.
func (w *Watcher) Subscribe(ctx context.Context) (*source.Subscription, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fswatch source: %w", err)
	}
	if err := w.addRecursive(fw, w.root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("fswatch source: %w", err)
	}

	return source.Start(ctx, func(ctx context.Context, emit func(model.Notification) bool) error {
		defer fw.Close()
		defer w.stopTimers()
		return w.loop(ctx, fw, emit)
	}), nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, emit func(model.Notification) bool) error {
	ready := make(chan string)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fw, event, ready)
		case path := <-ready:
			n, ok := w.change(path)
			if ok && !emit(n) {
				return ctx.Err()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("fswatch source: watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, event fsnotify.Event, ready chan<- string) {
	if w.excluded(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fw, event.Name); err != nil {
				slog.Warn("fswatch source: cannot watch directory", "path", event.Name, "error", err)
			}
			return
		}
		w.schedule(ctx, event.Name, ready)
	case event.Has(fsnotify.Write):
		w.schedule(ctx, event.Name, ready)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// Editors that save by moving the original aside recreate the path
		// right away. The snapshot is dropped only if it stays gone.
		w.schedule(ctx, event.Name, ready)
	}
}

// schedule diffs path once it has been quiet for the debounce delay.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// change reads path, diffs it against its snapshot and updates the snapshot.
func (w *Watcher) change(path string) (model.Notification, bool) {
	after, ok := readText(path)
	if !ok {
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			w.forget(path)
		}
		return model.Notification{}, false
	}

	w.mu.Lock()
	before := w.snapshots[path]
	w.snapshots[path] = after
	w.mu.Unlock()

	texts := Insertions(before, after)
	if len(texts) == 0 {
		return model.Notification{}, false
	}
	return model.NewNotification(path, texts...), true
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.snapshots, path)
	prefix := path + string(filepath.Separator)
	for p := range w.snapshots {
		if strings.HasPrefix(p, prefix) {
			delete(w.snapshots, p)
		}
	}
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if w.excluded(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		if text, ok := readText(path); ok {
			w.mu.Lock()
			w.snapshots[path] = text
			w.mu.Unlock()
		}
		return nil
	})
}

func (w *Watcher) excluded(path string) bool {
	if path != w.root && scratchFile(filepath.Base(path)) {
		return true
	}
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

// scratchFile reports whether name is an editor backup, swap or temporary
// file rather than a document.
func scratchFile(name string) bool {
	switch {
	case strings.HasSuffix(name, "~"), strings.HasSuffix(name, ".tmp"):
		return true
	case strings.HasPrefix(name, ".") && (strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, ".swo") || strings.HasSuffix(name, ".swx")):
		return true
	case name == "4913": // vim checks directory writability with it
		return true
	}
	return false
}

// readText returns the file's contents if it is a regular UTF-8 file no
// larger than maxFileSize.
func readText(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxFileSize {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}
