package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/output"
)

// Output echoes log records to a terminal in the log file's format,
// with the header and separator lines optionally coloured.
type Output struct {
	w      io.Writer
	header *color.Color
	sep    *color.Color
}

// New creates an Output writing to w. When colored is false the bytes
// written are identical to the log file's.
func New(w io.Writer, colored bool) *Output {
	header := color.New(color.FgCyan, color.Bold)
	sep := color.New(color.Faint)
	if colored {
		header.EnableColor()
		sep.EnableColor()
	} else {
		header.DisableColor()
		sep.DisableColor()
	}
	return &Output{w: w, header: header, sep: sep}
}

// NewStdout creates an Output on os.Stdout, coloured when stdout is a terminal.
func NewStdout() *Output {
	return New(os.Stdout, !color.NoColor)
}

func (o *Output) Write(_ context.Context, record model.LogRecord) error {
	formatted := output.FormatRecord(record)
	// Header is everything up to the first newline; the separator is fixed.
	header, rest, _ := strings.Cut(formatted, "\n")
	body := strings.TrimSuffix(rest, output.Separator+"\n")

	// Newlines stay outside the colour codes so each line resets cleanly.
	if _, err := o.header.Fprint(o.w, header); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	if _, err := io.WriteString(o.w, "\n"+body); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	if _, err := o.sep.Fprint(o.w, output.Separator); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	if _, err := io.WriteString(o.w, "\n"); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
