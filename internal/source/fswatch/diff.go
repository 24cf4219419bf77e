package fswatch

import (
	"strings"
	"unicode/utf8"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Insertions returns the text inserted to turn before into after, one entry
// per changed region. Line diffs are narrowed to the characters actually
// added, so appending a word to a line yields the word rather than the line.
func Insertions(before, after string) []string {
	if before == after {
		return nil
	}
	edits := myers.ComputeEdits(span.URIFromPath("before"), before, after)
	lines := splitLines(before)

	var out []string
	for _, h := range hunks(edits) {
		if h.added == "" {
			continue
		}
		start, end := min(h.start, len(lines)), min(h.end, len(lines))
		inserted := narrow(lines[start:end], h.added)
		if inserted != "" {
			out = append(out, inserted)
		}
	}
	return out
}

// hunk is a contiguous changed region: lines [start, end) of the old text
// (zero-based) replaced by added.
type hunk struct {
	start, end int
	added      string
}

// hunks merges line edits that touch or overlap into regions. The diff
// reports one edit per line, so a pasted block arrives as a run of inserts
// at the same position, possibly preceded by the deletes it replaces.
func hunks(edits []gotextdiff.TextEdit) []hunk {
	var out []hunk
	for _, e := range edits {
		start, end := e.Span.Start().Line()-1, e.Span.End().Line()-1
		if n := len(out); n > 0 && start <= out[n-1].end {
			h := &out[n-1]
			h.end = max(h.end, end)
			h.added += e.NewText
			continue
		}
		out = append(out, hunk{start: start, end: end, added: e.NewText})
	}
	return out
}

// narrow strips the prefix and suffix that added shares with the removed
// lines.
func narrow(removedLines []string, added string) string {
	removed := strings.Join(removedLines, "")
	p := 0
	for p < len(removed) && p < len(added) && removed[p] == added[p] {
		p++
	}
	for p > 0 && p < len(added) && !utf8.RuneStart(added[p]) {
		p--
	}
	removed, added = removed[p:], added[p:]

	s := 0
	for s < len(removed) && s < len(added) && removed[len(removed)-1-s] == added[len(added)-1-s] {
		s++
	}
	for s > 0 && !utf8.RuneStart(added[len(added)-s]) {
		s--
	}
	return added[:len(added)-s]
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
