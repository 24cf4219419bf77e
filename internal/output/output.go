package output

import (
	"context"

	"github.com/hejijunhao/copilotlog/internal/model"
)

// Output defines the interface for log record destinations.
type Output interface {
	Write(ctx context.Context, record model.LogRecord) error
	Close() error
}

// Appender is an Output that can skip a record without failing, and reports
// whether the record was actually persisted.
type Appender interface {
	Output
	Append(ctx context.Context, record model.LogRecord) (bool, error)
}
