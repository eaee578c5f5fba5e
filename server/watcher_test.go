package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/smscr/lang"
	"github.com/ardnew/smscr/log"
)

func TestWatcher_Handle(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "page.smscr")
	require.NoError(t, os.WriteFile(script, []byte(`{$= "watched" $}`), 0o644))

	w, err := newWatcher(root, log.Logger{})
	require.NoError(t, err)
	t.Cleanup(func() { w.fs.Close() })

	var evicted []string
	w.evicted = func(path string) { evicted = append(evicted, path) }

	_, err = lang.ParseFile(context.Background(), script)
	require.NoError(t, err)

	w.handle(fsnotify.Event{Name: filepath.Join(root, "style.css"), Op: fsnotify.Write})
	assert.Empty(t, evicted, "only scripts are evicted")

	w.handle(fsnotify.Event{Name: script, Op: fsnotify.Chmod})
	assert.Empty(t, evicted, "attribute changes are ignored")

	w.handle(fsnotify.Event{Name: script, Op: fsnotify.Write})
	assert.Equal(t, []string{script}, evicted)
	assert.False(t, lang.Invalidate(script), "the file was already evicted")
}

func TestWatcher_Run(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "page.smscr")
	require.NoError(t, os.WriteFile(script, []byte(`{$= "v1" $}`), 0o644))

	w, err := newWatcher(root, log.Logger{})
	require.NoError(t, err)

	done := make(chan string, 16)
	w.evicted = func(path string) { done <- path }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.run(ctx)

	require.NoError(t, os.WriteFile(script, []byte(`{$= "v2" $}`), 0o644))

	select {
	case path := <-done:
		assert.Equal(t, script, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for modified script")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := newWatcher(filepath.Join(t.TempDir(), "missing"), log.Logger{})
	require.ErrorIs(t, err, ErrWatch)
}
