// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches scan targets, filters ignored directories and files,
// and debounces rapid events (editors often trigger multiple writes per save,
// bbolt touches the file several times per commit).
package fsnotify

import (
	"os"
	"path/filepath"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/ahoc/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// DefaultIgnore lists directory and file names never reported by default.
var DefaultIgnore = []string{
	".git",
	".ahoc",
	"node_modules",
	"vendor",
	".idea",
	".vscode",
	".DS_Store",
	".swp",
}

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	ignore   map[string]bool
	debounce time.Duration
	done     chan struct{}
	finished chan struct{}
	calling  atomic.Bool
	started  bool
	stopped  bool
	mu       sync.Mutex
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a file system watcher. Names in ignore match whole path
// components (".git") or file suffixes (".swp"). A non-positive debounce
// uses DefaultDebounce.
func NewWatcher(ignore []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	set := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		set[name] = true
	}
	return &Watcher{
		fw:       fw,
		ignore:   set,
		debounce: debounce,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}, nil
}

// Watch starts monitoring paths. Directories are walked and every
// non-ignored subdirectory is added; files are watched via their parent
// directory. onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(paths []string, onChange func(filePath string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher stopped")
	}
	if w.started {
		return errors.New("watch already active")
	}

	// Files watched through their parent directory; only these names are
	// reported from such directories.
	files := make(map[string]bool)
	trees := make(map[string]bool)

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files[absPath] = true
			if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
				return err
			}
			continue
		}

		trees[absPath] = true
		err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip inaccessible paths
			}
			if info.IsDir() {
				if w.ignored(info.Name()) && path != absPath {
					return filepath.SkipDir
				}
				return w.fw.Add(path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	relevant := func(path string) bool {
		if files[path] {
			return true
		}
		for root := range trees {
			if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
				return !w.ignoredPath(strings.TrimPrefix(path, root))
			}
		}
		return false
	}

	// Debounce: each path reports once its events have been quiet for
	// w.debounce. Timers only hand the path back to this goroutine, so
	// onChange is never called concurrently.
	pending := make(map[string]*time.Timer)
	fire := make(chan string, 64)

	w.started = true
	go func() {
		defer close(w.finished)
		defer func() {
			for _, t := range pending {
				t.Stop()
			}
		}()
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// New directories inside a watched tree join the watch list.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if relevant(path) {
							w.fw.Add(path)
						}
						continue
					}
				}

				if !relevant(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				if t, ok := pending[path]; ok {
					t.Reset(w.debounce)
					continue
				}
				pending[path] = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- path:
					case <-w.done:
					}
				})

			case path := <-fire:
				delete(pending, path)
				// Flag the call before re-checking done, so Stop either sees
				// it in flight or the call never starts.
				w.calling.Store(true)
				select {
				case <-w.done:
					w.calling.Store(false)
					return
				default:
				}
				onChange(path)
				w.calling.Store(false)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are dropped; fsnotify keeps delivering events.

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources. It waits for the event
// loop to exit unless an onChange call is in flight, since that call may be
// the one calling Stop. Either way no new onChange call starts afterwards.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	err := w.fw.Close()
	started := w.started
	w.mu.Unlock()

	if started && !w.calling.Load() {
		<-w.finished
	}
	return err
}

// ignored reports whether a single path component is on the ignore list.
func (w *Watcher) ignored(name string) bool {
	if w.ignore[name] {
		return true
	}
	for suffix := range w.ignore {
		if strings.HasPrefix(suffix, ".") && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// ignoredPath reports whether any component of a relative path is ignored.
func (w *Watcher) ignoredPath(rel string) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "" && w.ignored(part) {
			return true
		}
	}
	return false
}
