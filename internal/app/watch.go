package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	fsw "github.com/corey/ahoc/internal/adapters/fsnotify"
)

// FindingsFunc receives the current findings for one file. A file that was
// removed, or no longer contains any keyword, is reported with nil findings.
type FindingsFunc func(path string, findings []Finding)

// Watch scans paths with dict, then keeps rescanning every file that
// changes until ctx is cancelled. Changes to the database reload dict from
// a read-only open and rebuild the matcher only when the dictionary's
// fingerprint differs; everything is rescanned after a rebuild. A dictionary
// that disappears leaves the last matcher in place. Reported paths are
// absolute.
func (a *App) Watch(ctx context.Context, dict string, paths []string, opts ScanOptions, onFindings FindingsFunc) error {
	m, fingerprint, err := a.Matcher(dict)
	if err != nil {
		return err
	}

	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		roots = append(roots, abs)
	}

	w, err := fsw.NewWatcher(a.Config.Watch.Ignore, a.Config.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	// Serializes scans: the initial walk and watcher callbacks overlap.
	var mu sync.Mutex
	log := a.log.With().Str("dictionary", dict).Logger()

	rescanAll := func() {
		err := a.ScanPaths(ctx, m, roots, opts, func(path string, findings []Finding) error {
			if len(findings) > 0 {
				onFindings(path, findings)
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("scan failed")
		}
	}

	onChange := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if path == a.dbPath {
			d, err := a.Dictionary(dict)
			switch {
			case errors.Is(err, ErrUnknownDictionary):
				log.Warn().Msg("dictionary removed, keeping the current matcher")
				return
			case err != nil:
				log.Warn().Err(err).Msg("reload failed")
				return
			case d.Fingerprint == fingerprint:
				return
			}
			if err := m.Rebuild(d.Policy, d.Entries); err != nil {
				log.Warn().Err(err).Msg("rebuild failed, keeping the current matcher")
				return
			}
			fingerprint = d.Fingerprint
			log.Info().Int("keywords", m.PatternCount()).Msg("dictionary reloaded")
			rescanAll()
			return
		}

		findings, err := ScanFile(m, path, opts)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			onFindings(path, nil)
		case err != nil:
			log.Debug().Err(err).Str("path", path).Msg("rescan skipped")
		default:
			onFindings(path, findings)
		}
	}

	targets := slices.Clone(roots)
	if _, err := os.Stat(a.dbPath); err == nil {
		targets = append(targets, a.dbPath)
	}
	if err := w.Watch(targets, onChange); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	log.Info().Strs("paths", roots).Msg("watching")

	mu.Lock()
	rescanAll()
	mu.Unlock()

	<-ctx.Done()
	return nil
}
