package copilotlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/hejijunhao/copilotlog/internal/config"
	"github.com/hejijunhao/copilotlog/internal/engine/classifier"
	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/output/file"
	"github.com/hejijunhao/copilotlog/internal/pipeline"
	"github.com/hejijunhao/copilotlog/internal/source/stream"
	"github.com/hejijunhao/copilotlog/internal/viewer"
)

// Logger classifies insertions and appends the likely completions to the log.
type Logger struct {
	classifier *classifier.Classifier
	file       *file.Logger
	pipeline   *pipeline.Pipeline
	opener     viewer.Opener
	clock      func() time.Time
}

// New creates a Logger. Nothing is written to disk until the first
// insertion is recorded.
func New(opts ...Option) (*Logger, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dir := o.storageDir
	if dir == "" {
		dir = config.DefaultStorageDir()
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("copilotlog: storage dir: %w", err)
	}

	var fileOpts []file.Option
	if o.onDirError != nil {
		fileOpts = append(fileOpts, file.WithOnDirError(o.onDirError))
	}
	fl := file.New(dir, fileOpts...)
	cls := classifier.New()

	var opener viewer.Opener = viewer.Command{Viewer: o.viewer}
	if o.opener != nil {
		opener = viewer.OpenerFunc(o.opener)
	}

	return &Logger{
		classifier: cls,
		file:       fl,
		pipeline:   pipeline.New(nil, cls, fl, pipeline.WithClock(o.clock)),
		opener:     opener,
		clock:      o.clock,
	}, nil
}

// Classify reports whether text would be recorded.
func (l *Logger) Classify(text string) bool {
	return l.classifier.Classify(text)
}

// Observe handles one content change of document. It reports whether the
// insertion classified as a likely completion; the error is non-nil only
// when appending to the log failed.
func (l *Logger) Observe(document, text string) (bool, error) {
	if !l.Classify(text) {
		return false, nil
	}
	if err := l.ObserveChanges(document, text); err != nil {
		return true, err
	}
	return true, nil
}

// ObserveChanges handles a notification carrying several content changes
// of the same document, recording qualifying ones in order.
func (l *Logger) ObserveChanges(document string, texts ...string) error {
	n := model.NewNotification(document, texts...)
	if err := l.pipeline.Handle(context.Background(), n); err != nil {
		return fmt.Errorf("copilotlog: %w", err)
	}
	return nil
}

// Serve reads newline-delimited JSON change notifications from r until it
// is exhausted or ctx is cancelled. See the stream source for the format.
func (l *Logger) Serve(ctx context.Context, r io.Reader) error {
	p := pipeline.New(stream.New(r), l.classifier, l.file, pipeline.WithClock(l.clock))
	err := p.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("copilotlog: %w", err)
	}
	return nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.file.Path()
}

// Open displays the log file. The file may not exist yet; how that is
// handled is up to the opener.
func (l *Logger) Open(ctx context.Context) error {
	return viewer.OpenLog(ctx, l.opener, l.Path())
}

// Close releases resources. The log file itself is never held open.
func (l *Logger) Close() error {
	return l.file.Close()
}
