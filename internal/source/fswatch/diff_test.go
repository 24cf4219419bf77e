package fswatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertions(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []string
	}{
		{
			name:   "unchanged",
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   nil,
		},
		{
			name:   "appended line",
			before: "a\nb\n",
			after:  "a\nb\nnew line here\n",
			want:   []string{"new line here\n"},
		},
		{
			name:   "new file",
			before: "",
			after:  "package main\n",
			want:   []string{"package main\n"},
		},
		{
			name:   "single keystroke",
			before: "hello\n",
			after:  "hellox\n",
			want:   []string{"x"},
		},
		{
			name:   "completion at end of line",
			before: "x := 1\n",
			after:  "x := 1 + computeSomethingLong()\n",
			want:   []string{" + computeSomethingLong()"},
		},
		{
			name:   "multi-line paste is one region",
			before: "a\nz\n",
			after:  "a\nb\nc\nd\nz\n",
			want:   []string{"b\nc\nd\n"},
		},
		{
			name:   "function added after blank line",
			before: "package main\n",
			after:  "package main\n\nfunc helper() int { return 42 }\n",
			want:   []string{"\nfunc helper() int { return 42 }\n"},
		},
		{
			name:   "line extended and followed by new lines",
			before: "hello\n",
			after:  "hello world\nmore\n",
			want:   []string{" world\nmore"},
		},
		{
			name:   "separate regions stay separate",
			before: "a\nb\nc\n",
			after:  "a\nfirst insertion\nb\nc\nsecond insertion\n",
			want:   []string{"first insertion\n", "second insertion\n"},
		},
		{
			name:   "pure deletion",
			before: "a\nb\nc\n",
			after:  "a\nc\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Insertions(tt.before, tt.after))
		})
	}
}

func TestNarrow(t *testing.T) {
	assert.Equal(t, "X", narrow([]string{"ab\n"}, "aXb\n"))
	assert.Equal(t, "", narrow([]string{"same\n"}, "same\n"))
	assert.Equal(t, "new", narrow(nil, "new"))
	assert.Equal(t, "2\n3\n", narrow([]string{"1\n", "4\n"}, "1\n2\n3\n4\n"))
	// é and è share their first byte; the whole rune must be reported.
	assert.Equal(t, "è", narrow([]string{"é\n"}, "è\n"))
}
