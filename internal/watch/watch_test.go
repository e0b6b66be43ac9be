package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) (<-chan struct{}, context.CancelFunc, <-chan error) {
	t.Helper()

	w, err := New(path, 20*time.Millisecond)
	require.NoError(t, err)

	changes := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changes <- struct{}{} })
	}()
	return changes, cancel, done
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution: 8\n"), 0644))

	changes, cancel, done := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("resolution: 16\n"), 0644))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	w, err := New(path, 300*time.Millisecond)
	require.NoError(t, err)

	var calls int
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls++ })
	}()

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(time.Second)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 1, calls)
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	changes, cancel, done := startWatcher(t, path)
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))

	select {
	case <-changes:
		t.Fatal("unexpected notification for another file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherTinyDebounceStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	// The debounce timer may expire before Run disarms it.
	w, err := New(path, time.Nanosecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls++ })
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Zero(t, calls, "no change without an event")
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "scene.yaml"), 0)
	assert.Error(t, err)
}
