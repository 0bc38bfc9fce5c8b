package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// fsnotify Watcher Adapter — detect changes to scan targets
// Expectation: changes in watched trees and to watched single files fire the
// callback; ignored names and unrelated siblings do not.
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, paths ...string) <-chan string {
	t.Helper()
	w, err := NewWatcher(DefaultIgnore, 0)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(paths, func(path string) {
		changed <- path
	}))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "config.env")
	require.NoError(t, os.WriteFile(testFile, []byte("A=1"), 0644))

	changed := startWatcher(t, dir)
	require.NoError(t, os.WriteFile(testFile, []byte("PASSWORD=hunter2"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, testFile, path)
}

func TestWatcher_DetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, dir)

	newFile := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(newFile, []byte("new"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new file")
	assert.Equal(t, newFile, path)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "to_delete.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("delete me"), 0644))

	changed := startWatcher(t, dir)
	require.NoError(t, os.Remove(testFile))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, testFile, path)
}

func TestWatcher_SingleFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "watched.log")
	sibling := filepath.Join(dir, "other.log")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0644))

	changed := startWatcher(t, target)

	require.NoError(t, os.WriteFile(sibling, []byte("b"), 0644))
	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling of a watched file must not fire")

	require.NoError(t, os.WriteFile(target, []byte("changed"), 0644))
	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for watched file")
	assert.Equal(t, target, path)
}

func TestWatcher_SingleFileInsideIgnoredDir(t *testing.T) {
	// The dictionary DB lives in .ahoc/, which trees skip, but an explicit
	// file target is still reported.
	dir := t.TempDir()
	stateDir := filepath.Join(dir, ".ahoc")
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	db := filepath.Join(stateDir, "ahoc.db")
	require.NoError(t, os.WriteFile(db, []byte("v1"), 0644))

	changed := startWatcher(t, db)
	require.NoError(t, os.WriteFile(db, []byte("v2"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok)
	assert.Equal(t, db, path)
}

func TestWatcher_IgnoresListedNames(t *testing.T) {
	dir := t.TempDir()

	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))
	nmDir := filepath.Join(dir, "node_modules")
	require.NoError(t, os.MkdirAll(nmDir, 0755))

	changed := startWatcher(t, dir)

	// Write to ignored locations
	os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644)
	os.WriteFile(filepath.Join(nmDir, "package.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.swp"), []byte("x"), 0644)

	// None of these should trigger callback
	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for ignored files")

	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("text"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for regular file")
	assert.Equal(t, target, path)
}

func TestWatcher_MissingPath(t *testing.T) {
	w, err := NewWatcher(nil, 0)
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch([]string{filepath.Join(t.TempDir(), "missing")}, func(string) {})
	assert.Error(t, err)
}

func TestWatcher_StopCleanup(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(DefaultIgnore, 0)
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch([]string{dir}, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Stop())

	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	// Write file after stop; should NOT trigger callback
	os.WriteFile(filepath.Join(dir, "after_stop.txt"), []byte("nope"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}

func TestWatcher_DebounceCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "burst.txt")
	require.NoError(t, os.WriteFile(target, []byte("0"), 0644))

	w, err := NewWatcher(DefaultIgnore, 200*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{dir}, func(path string) { changed <- path }))
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte{byte('a' + i)}, 0644))
	}

	path, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok, "expected one callback after the burst")
	assert.Equal(t, target, path)

	_, again := waitForCallback(changed, 400*time.Millisecond)
	assert.False(t, again, "burst must be reported once")
}

func TestWatcher_StopWaitsForEventLoop(t *testing.T) {
	w, err := NewWatcher(DefaultIgnore, 0)
	require.NoError(t, err)
	require.NoError(t, w.Watch([]string{t.TempDir()}, func(string) {}))

	require.NoError(t, w.Stop())
	select {
	case <-w.finished:
	default:
		t.Fatal("event loop still running after Stop returned")
	}
}

func TestWatcher_StopFromCallback(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(DefaultIgnore, 0)
	require.NoError(t, err)

	var calls atomic.Int32
	returned := make(chan struct{})
	require.NoError(t, w.Watch([]string{dir}, func(string) {
		calls.Add(1)
		assert.NoError(t, w.Stop())
		close(returned)
	}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop called from onChange did not return")
	}

	select {
	case <-w.finished:
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not exit after the callback returned")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_WatchAfterStopFails(t *testing.T) {
	w, err := NewWatcher(nil, 0)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	assert.Error(t, w.Watch([]string{t.TempDir()}, func(string) {}))
}
