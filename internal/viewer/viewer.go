// Package viewer hands the log file to something a person can read: an
// editor or the platform's default application, or the terminal.
package viewer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener displays a file.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, path string) error

func (f OpenerFunc) Open(ctx context.Context, path string) error {
	return f(ctx, path)
}

// OpenLog asks o to display the log at path. It does not check that the
// file exists; that is left to the opener.
func OpenLog(ctx context.Context, o Opener, path string) error {
	if err := o.Open(ctx, path); err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	return nil
}

// Command opens files by running an external program with the path as its
// last argument.
type Command struct {
	Viewer string              // explicit command line, split on whitespace
	GOOS   string              // defaults to runtime.GOOS
	Getenv func(string) string // defaults to os.Getenv
}

// Resolve returns the program and arguments used to open path.
// Precedence: Viewer, $VISUAL, $EDITOR, then the platform opener.
func (c Command) Resolve(path string) (string, []string) {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, line := range []string{c.Viewer, getenv("VISUAL"), getenv("EDITOR")} {
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields[0], append(fields[1:], path)
		}
	}

	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open runs the resolved program attached to the current terminal and
// waits for it to exit.
func (c Command) Open(ctx context.Context, path string) error {
	name, args := c.Resolve(path)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
