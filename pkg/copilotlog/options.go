package copilotlog

import (
	"context"
	"time"
)

type options struct {
	storageDir string
	clock      func() time.Time
	opener     func(ctx context.Context, path string) error
	viewer     string
	onDirError func(error)
}

// Option configures a Logger.
type Option func(*options)

// WithStorageDir sets the directory holding copilot-log.txt.
// Default: the per-user config directory, e.g. ~/.config/copilotlog.
func WithStorageDir(dir string) Option {
	return func(o *options) {
		o.storageDir = dir
	}
}

// WithClock sets the clock used to timestamp records. A nil clock is
// ignored. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithOpener replaces how Open displays the log. Use this when the host
// has its own way of showing files.
func WithOpener(open func(ctx context.Context, path string) error) Option {
	return func(o *options) {
		o.opener = open
	}
}

// WithViewer sets the command line Open runs, e.g. "code --wait".
// Ignored when WithOpener is given. Default: $VISUAL, $EDITOR, then the
// platform opener.
func WithViewer(cmd string) Option {
	return func(o *options) {
		o.viewer = cmd
	}
}

// WithOnDirError sets the callback invoked when the storage directory
// cannot be created. The affected record is skipped. Default: a slog warning.
func WithOnDirError(f func(error)) Option {
	return func(o *options) {
		o.onDirError = f
	}
}

func defaultOptions() options {
	return options{
		clock: time.Now,
	}
}
