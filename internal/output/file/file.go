package file

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

	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/output"
)

// LogFileName is the name of the log file inside the storage directory.
const LogFileName = "copilot-log.txt"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var _ output.Appender = (*Logger)(nil)

// Option configures a file Logger.
type Option func(*Logger)

// WithOnDirError sets the callback invoked when the storage directory cannot
// be created. The record that triggered it is skipped.
// Default: logs a warning via slog.
func WithOnDirError(f func(error)) Option {
	return func(l *Logger) { l.dirErrFunc = f }
}

// Logger appends formatted records to a single log file. It never reads,
// truncates or rewrites the file. Each record is written with one append
// call on a freshly opened handle, so nothing is buffered between records.
type Logger struct {
	mu         sync.Mutex
	path       string
	dirErrFunc func(error)
}

// New creates a Logger writing to LogFileName inside storageDir.
// Neither the directory nor the file is created until the first record.
func New(storageDir string, opts ...Option) *Logger {
	l := &Logger{
		path:       LogPath(storageDir),
		dirErrFunc: func(err error) { slog.Warn("log directory unavailable, record skipped", "error", err) },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogPath returns the log file path for storageDir.
func LogPath(storageDir string) string {
	return filepath.Join(storageDir, LogFileName)
}

// Path returns the file the Logger writes to.
func (l *Logger) Path() string {
	return l.path
}

// Write appends the record to the Logger's own log file.
func (l *Logger) Write(ctx context.Context, record model.LogRecord) error {
	_, err := l.Append(ctx, record)
	return err
}

// Append is Write that also reports whether the record reached the file.
// It is false when the record was skipped because the storage directory
// could not be created.
func (l *Logger) Append(_ context.Context, record model.LogRecord) (bool, error) {
	return l.record(record, l.path)
}

// Record appends the record to targetPath, creating its directory first.
// A directory that cannot be created is reported to the OnDirError callback
// and the record is dropped without error. Open and write failures are
// returned.
func (l *Logger) Record(record model.LogRecord, targetPath string) error {
	_, err := l.record(record, targetPath)
	return err
}

func (l *Logger) record(record model.LogRecord, targetPath string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := EnsureDir(filepath.Dir(targetPath)); err != nil {
		l.dirErrFunc(err)
		return false, nil
	}

	data := strings.ToValidUTF8(output.FormatRecord(record), "�")
	if err := appendFile(targetPath, []byte(data)); err != nil {
		return false, err
	}
	return true, nil
}

// Close is a no-op; the file is only held open for the duration of a write.
func (l *Logger) Close() error {
	return nil
}

// EnsureDir creates dir and any missing parents. An existing directory is
// not an error.
func EnsureDir(dir string) error {
	err := os.MkdirAll(dir, dirPerm)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return nil
	}
	return fmt.Errorf("file output: create %s: %w", dir, err)
}

func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("file output: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("file output: close %s: %w", path, err)
	}
	return nil
}
