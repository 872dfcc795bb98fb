package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = 2 * time.Second

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.db"), []byte("x"), 0o644))

	select {
	case <-w.Events():
	case <-time.After(wait):
		t.Fatal("no signal after write")
	}
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	path := filepath.Join(dir, "todos.db")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o644))
	}

	select {
	case <-w.Events():
	case <-time.After(wait):
		t.Fatal("no signal after burst")
	}

	select {
	case <-w.Events():
		t.Fatal("burst produced more than one signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_Filter(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir,
		WithDebounce(20*time.Millisecond),
		WithFilter(func(name string) bool { return strings.HasPrefix(name, "todos.db") }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.log"), []byte("log line"), 0o644))

	select {
	case <-w.Events():
		t.Fatal("filtered file produced a signal")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.db-wal"), []byte("x"), 0o644))

	select {
	case <-w.Events():
	case <-time.After(wait):
		t.Fatal("matching file produced no signal")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestWatcher_CloseIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcher_CloseClosesEvents(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events channel left open after Close")
	}
}
