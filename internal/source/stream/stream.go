// Package stream reads document-change notifications as newline-delimited
// JSON, typically piped from an editor host on stdin.
//
// Two shapes are accepted per line. The native one:
//
//	{"document": "/x/y.py", "contentChanges": [{"text": "..."}]}
//
// and an LSP textDocument/didChange notification:
//
//	{"jsonrpc": "2.0", "method": "textDocument/didChange",
//	 "params": {"textDocument": {"uri": "file:///x/y.py"}, "contentChanges": [{"text": "..."}]}}
//
// Input may be UTF-8 or UTF-16 with a byte order mark.
//
// Cancelling a subscription closes the reader when it is an io.Closer. That
// unblocks pipes and files, but not a read on an interactive terminal, so
// Unsubscribe waits at most stopTimeout before abandoning the read.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/source"
)

const (
	didChangeMethod = "textDocument/didChange"
	initialBufSize  = 64 * 1024        // 64KB
	maxLineSize     = 16 * 1024 * 1024 // 16MB, a pasted file fits
	stopTimeout     = 250 * time.Millisecond
)

var (
	errMalformed       = errors.New("malformed JSON")
	errMissingDocument = errors.New("missing document identifier")
	errMissingChanges  = errors.New("contentChanges is not an array")
)

func init() {
	source.Register("stream", func(cfg source.Config) (source.Source, error) {
		r := cfg.Reader
		if r == nil {
			r = os.Stdin
		}
		return New(r), nil
	})
}

// Source implements source.Source over an io.Reader.
type Source struct {
	r io.Reader
}

// New creates a stream source reading from r. If r is an io.Closer it is
// closed when the subscription is cancelled, to unblock a pending read.
func New(r io.Reader) *Source {
	return &Source{r: r}
}

func (s *Source) Subscribe(ctx context.Context) (*source.Subscription, error) {
	return source.Start(ctx, s.produce, source.WithStopTimeout(stopTimeout)), nil
}

func (s *Source) produce(ctx context.Context, emit func(model.Notification) bool) error {
	if c, ok := s.r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}

	decoded := transform.NewReader(s.r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, initialBufSize), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		n, err := Parse(line)
		if err != nil {
			slog.Warn("stream source: skipping line", "line", lineNo, "error", err)
			continue
		}
		if !emit(n) {
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("stream source: read: %w", err)
	}
	return nil
}

// Parse decodes one JSON notification line.
func Parse(line []byte) (model.Notification, error) {
	if !gjson.ValidBytes(line) {
		return model.Notification{}, errMalformed
	}
	root := gjson.ParseBytes(line)

	var doc, changes gjson.Result
	if method := root.Get("method"); method.Exists() {
		if method.String() != didChangeMethod {
			return model.Notification{}, fmt.Errorf("unsupported method %q", method.String())
		}
		doc = root.Get("params.textDocument.uri")
		changes = root.Get("params.contentChanges")
	} else {
		doc = root.Get("document")
		if !doc.Exists() {
			doc = root.Get("uri")
		}
		changes = root.Get("contentChanges")
	}

	if doc.Type != gjson.String || doc.String() == "" {
		return model.Notification{}, errMissingDocument
	}
	if !changes.IsArray() {
		return model.Notification{}, errMissingChanges
	}

	var texts []string
	changes.ForEach(func(_, change gjson.Result) bool {
		texts = append(texts, change.Get("text").String())
		return true
	})
	return model.NewNotification(DocumentPath(doc.String()), texts...), nil
}

// DocumentPath converts a file:// URI into a local path. Other identifiers
// are returned unchanged.
func DocumentPath(id string) string {
	if !strings.HasPrefix(id, "file://") {
		return id
	}
	u, err := url.Parse(id)
	if err != nil || u.Path == "" {
		return id
	}
	p := u.Path
	// file:///C:/dir/x.go carries a leading slash before the drive letter.
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}
