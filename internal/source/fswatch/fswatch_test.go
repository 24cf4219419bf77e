package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/copilotlog/internal/model"
	"github.com/hejijunhao/copilotlog/internal/source"
)

func subscribe(t *testing.T, src source.Source) *source.Subscription {
	t.Helper()
	sub, err := src.Subscribe(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { sub.Unsubscribe() })
	return sub
}

func next(t *testing.T, sub *source.Subscription) model.Notification {
	t.Helper()
	select {
	case n, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("no notification received")
	}
	return model.Notification{}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReportsInsertedBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	writeFile(t, path, "package main\n")

	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	writeFile(t, path, "package main\n\nfunc helper() int { return 42 }\n")

	n := next(t, sub)
	assert.Equal(t, path, n.Document)
	require.Len(t, n.Changes, 1)
	assert.Equal(t, "\nfunc helper() int { return 42 }\n", n.Changes[0].InsertedText)
	assert.Equal(t, path, n.Changes[0].Document)
}

func TestReportsNewFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	path := filepath.Join(dir, "fresh.txt")
	writeFile(t, path, "brand new content\n")

	n := next(t, sub)
	assert.Equal(t, path, n.Document)
	require.Len(t, n.Changes, 1)
	assert.Equal(t, "brand new content\n", n.Changes[0].InsertedText)
}

func TestSaveByRenameKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	original := "line one of an existing file\nline two of an existing file\n"
	writeFile(t, path, original)

	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	// Move the original aside as a backup, then write the new version.
	require.NoError(t, os.Rename(path, path+"~"))
	writeFile(t, path, original+"x")

	n := next(t, sub)
	assert.Equal(t, path, n.Document)
	require.Len(t, n.Changes, 1)
	assert.Equal(t, "x", n.Changes[0].InsertedText)
}

func TestRemovedFileIsForgotten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	writeFile(t, path, "content that will be removed\n")

	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	require.NoError(t, os.Remove(path))
	time.Sleep(150 * time.Millisecond)
	writeFile(t, path, "content that will be removed\n")

	n := next(t, sub)
	require.Len(t, n.Changes, 1)
	assert.Equal(t, "content that will be removed\n", n.Changes[0].InsertedText)
}

func TestSkipsEditorScratchFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	writeFile(t, filepath.Join(dir, "notes.txt~"), "backup copy of the notes\n")
	writeFile(t, filepath.Join(dir, ".notes.txt.swp"), "swap file contents here\n")
	writeFile(t, filepath.Join(dir, "upload.tmp"), "temporary file contents\n")
	doc := filepath.Join(dir, "notes.txt")
	writeFile(t, doc, "the actual document text\n")

	n := next(t, sub)
	assert.Equal(t, doc, n.Document)
}

func TestScratchFile(t *testing.T) {
	for _, name := range []string{"main.go~", ".main.go.swp", ".x.swo", "build.tmp", "4913"} {
		assert.True(t, scratchFile(name), name)
	}
	for _, name := range []string{"main.go", "swp", ".env", "notes.txt"} {
		assert.False(t, scratchFile(name), name)
	}
}

func TestSkipsExcludedAndVCSPaths(t *testing.T) {
	dir := t.TempDir()
	storage := filepath.Join(dir, "storage")
	require.NoError(t, os.MkdirAll(storage, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	w, err := New(dir, WithDebounce(20*time.Millisecond), WithExclude(storage))
	require.NoError(t, err)
	sub := subscribe(t, w)

	writeFile(t, filepath.Join(storage, "copilot-log.txt"), "[ts] [doc]:\nlogged text\n---\n")
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")
	watched := filepath.Join(dir, "watched.txt")
	writeFile(t, watched, "this one is reported\n")

	n := next(t, sub)
	assert.Equal(t, watched, n.Document)
}

func TestSkipsBinaryFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644))
	text := filepath.Join(dir, "after.txt")
	writeFile(t, text, "text after the binary\n")

	n := next(t, sub)
	assert.Equal(t, text, n.Document)
}

func TestWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	sub := subscribe(t, w)

	sub1 := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub1, 0o755))
	// Give the watcher time to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub1, "util.go")
	writeFile(t, path, "package pkg\n")

	n := next(t, sub)
	assert.Equal(t, path, n.Document)
}

func TestRegisteredAsFswatch(t *testing.T) {
	ctor, err := source.Get("fswatch")
	require.NoError(t, err)

	src, err := ctor(source.Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Watcher{}, src)
}

func TestSubscribeMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = w.Subscribe(context.Background())
	assert.Error(t, err)
}
