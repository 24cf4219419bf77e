package viewer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/fatih/color"
)

var headerLine = regexp.MustCompile(`^\[[^\]]*\] \[.*\]:$`)

// Render copies a log to w line by line, highlighting record headers and
// separators when colored is set.
func Render(w io.Writer, r io.Reader, colored bool) error {
	header := color.New(color.FgCyan, color.Bold)
	sep := color.New(color.Faint)
	if colored {
		header.EnableColor()
		sep.EnableColor()
	} else {
		header.DisableColor()
		sep.DisableColor()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		var err error
		switch {
		case line == "---":
			_, err = sep.Fprint(w, line)
		case headerLine.MatchString(line):
			_, err = header.Fprint(w, line)
		default:
			_, err = io.WriteString(w, line)
		}
		if err == nil {
			_, err = io.WriteString(w, "\n")
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

// RenderFile renders the log at path. A missing file is returned as an
// error satisfying errors.Is(err, fs.ErrNotExist).
func RenderFile(w io.Writer, path string, colored bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Render(w, f, colored); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
