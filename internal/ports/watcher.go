package ports

// Watcher monitors scan targets for changes. The adapter (fsnotify) filters
// ignored paths before invoking onChange. Only one Watch call should be
// active at a time.
type Watcher interface {
	// Watch starts monitoring paths. Directories are watched recursively;
	// plain files are watched through their parent directory and only their
	// own events are reported. onChange is called with the absolute path of
	// each changed file, from one goroutine at a time. Returns an
	// error if a path doesn't exist or permissions are insufficient.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will start. Stop may be called from within
	// onChange. Safe to call multiple times.
	Stop() error
}
