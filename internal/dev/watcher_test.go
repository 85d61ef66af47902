package dev

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettledClassifiesChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "commands"), 0o755))
	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte("package x\n"), 0o644))
	}

	w, err := NewWatcher(root, []string{"commands"}, 50*time.Millisecond, quiet())
	require.NoError(t, err)
	defer w.fsw.Close()

	write("commands/known.go")
	write("commands/new.go")
	w.known["commands/known.go"] = true
	w.known["commands/deleted.go"] = true

	start := time.Now()
	for _, name := range []string{"commands/known.go", "commands/new.go", "commands/deleted.go", "commands/ghost.go"} {
		w.touch(name)
	}

	assert.Empty(t, w.settled(start), "changes inside the settle window are held back")

	events := w.settled(time.Now().Add(time.Second))
	assert.Equal(t, []Event{
		{Op: Unlink, Path: "commands/deleted.go"},
		{Op: Change, Path: "commands/known.go"},
		{Op: Add, Path: "commands/new.go"},
	}, events)
	assert.True(t, w.known["commands/new.go"])
	assert.False(t, w.known["commands/deleted.go"])
	assert.Empty(t, w.settled(time.Now().Add(time.Hour)))
}

func TestCreatedDirectoryIsScanned(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, []string{"commands"}, 0, quiet())
	require.NoError(t, err)
	defer w.fsw.Close()

	dir := filepath.Join(root, "commands", "admin")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ban.go"), []byte("package ban\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	w.handle(fsnotify.Event{Name: dir, Op: fsnotify.Create})

	events := w.settled(time.Now().Add(time.Second))
	assert.Equal(t, []Event{{Op: Add, Path: "commands/admin/ban.go"}}, events)
}

func TestRelativeOnlyMatchesWatchedDirs(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, []string{"commands", "users"}, 0, quiet())
	require.NoError(t, err)
	defer w.fsw.Close()

	rel, ok := w.relative(filepath.Join(root, "commands", "admin", "ban.go"))
	assert.True(t, ok)
	assert.Equal(t, "commands/admin/ban.go", rel)

	_, ok = w.relative(filepath.Join(root, "commandsx", "ban.go"))
	assert.False(t, ok)
	_, ok = w.relative(filepath.Join(root, "lib", "words.go"))
	assert.False(t, ok)
	_, ok = w.relative(filepath.Join(filepath.Dir(root), "elsewhere.go"))
	assert.False(t, ok)
}

func TestIsSource(t *testing.T) {
	assert.True(t, isSource("commands/ping.go"))
	assert.False(t, isSource("commands/ping_test.go"))
	assert.False(t, isSource("commands/ping.go.swp"))
}
