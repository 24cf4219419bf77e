// Package tee mirrors records that were durably logged to secondary outputs,
// such as echoing them to a terminal.
package tee

import (
	"context"
	"errors"
	"fmt"

	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/output"
)

// Tee writes each record to a primary output and, only once the primary has
// persisted it, to every mirror. A record the primary skips or fails on is
// never mirrored, so an echo always matches the log.
type Tee struct {
	primary output.Output
	mirrors []output.Output
}

// New creates a Tee around primary. If primary implements output.Appender,
// records it skips are not mirrored either.
func New(primary output.Output, mirrors ...output.Output) *Tee {
	return &Tee{primary: primary, mirrors: mirrors}
}

// Write delivers the record to the primary, then to the mirrors. A mirror
// failure does not stop delivery to the remaining mirrors.
func (t *Tee) Write(ctx context.Context, record model.LogRecord) error {
	written, err := t.append(ctx, record)
	if err != nil || !written {
		return err
	}

	var errs []error
	for _, m := range t.mirrors {
		if err := m.Write(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("mirror: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) append(ctx context.Context, record model.LogRecord) (bool, error) {
	if a, ok := t.primary.(output.Appender); ok {
		return a.Append(ctx, record)
	}
	if err := t.primary.Write(ctx, record); err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the primary and every mirror, collecting errors.
func (t *Tee) Close() error {
	errs := []error{t.primary.Close()}
	for _, m := range t.mirrors {
		errs = append(errs, m.Close())
	}
	return errors.Join(errs...)
}
