package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hejijunhao/copilotlog/internal/engine/classifier"
	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/output"
	"github.com/hejijunhao/copilotlog/internal/source"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used to timestamp records. A nil clock is
// ignored. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// Pipeline connects a source, classifier, and output. Notifications are
// handled one at a time, so records reach the output in arrival order.
type Pipeline struct {
	source     source.Source
	classifier *classifier.Classifier
	output     output.Output
	now        func() time.Time
}

// New creates a Pipeline from the given components.
func New(src source.Source, cls *classifier.Classifier, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:     src,
		classifier: cls,
		output:     out,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run subscribes to the source and records notifications until the source
// ends or the context is cancelled. The subscription is released on return.
// Output errors are logged and do not stop the pipeline.
func (p *Pipeline) Run(ctx context.Context) error {
	sub, err := p.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("pipeline subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
			return ctx.Err()
		case n, ok := <-sub.C():
			if !ok {
				if err := sub.Unsubscribe(); err != nil {
					return fmt.Errorf("pipeline source: %w", err)
				}
				return nil
			}
			if err := p.Handle(ctx, n); err != nil {
				slog.Error("failed to record change", "document", n.Document, "error", err)
			}
		}
	}
}

// Handle classifies every content change of n and writes a record for each
// positive, in order. It stops at the first output error.
func (p *Pipeline) Handle(ctx context.Context, n model.Notification) error {
	for _, change := range n.Changes {
		if !p.classifier.Classify(change.InsertedText) {
			continue
		}
		if change.Document == "" {
			change.Document = n.Document
		}
		record := model.NewLogRecord(change, p.now())
		if err := p.output.Write(ctx, record); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
		slog.Debug("recorded change", "document", record.Document, "bytes", len(record.InsertedText))
	}
	return nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
