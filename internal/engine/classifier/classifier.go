package classifier

import (
	"strings"
	"unicode/utf16"
)

const (
	// DefaultMaxLength is the longest single-line insertion that is not recorded.
	DefaultMaxLength = 20
)

// Classifier decides whether an inserted text looks like a bulk insertion
// (a pasted block or an accepted completion) rather than ordinary typing.
type Classifier struct {
	MaxLength int
}

// New creates a Classifier using DefaultMaxLength.
func New() *Classifier {
	return &Classifier{MaxLength: DefaultMaxLength}
}

// Classify reports whether text is longer than MaxLength or spans lines.
// Length is counted in UTF-16 code units, the unit editors use for offsets.
func (c *Classifier) Classify(text string) bool {
	if strings.ContainsRune(text, '\n') {
		return true
	}
	return length(text) > c.MaxLength
}

// Classify applies the default rule.
func Classify(text string) bool {
	return New().Classify(text)
}

func length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
