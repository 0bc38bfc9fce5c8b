package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/corey/ahoc/internal/ports"
)

// Finding is one keyword occurrence in a scanned file. Start and End are
// rune offsets into the file, End exclusive; Line and Column are 1-based.
type Finding struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Keyword string `json:"keyword"`
	Value   any    `json:"value"`
}

// ScanOptions controls which occurrences are reported.
type ScanOptions struct {
	// Longest keeps only leftmost-longest non-overlapping occurrences.
	Longest bool
}

// ScanReader reads all of r and reports the occurrences m finds in it.
func ScanReader(m ports.PatternMatcher, path string, r io.Reader, opts ScanOptions) ([]Finding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return scanContent(m, path, string(data), opts), nil
}

// ScanFile scans one file. Binary files (a NUL byte in the first 512 bytes)
// report nothing.
func ScanFile(m ports.PatternMatcher, path string, opts ScanOptions) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isBinary(data) {
		return nil, nil
	}
	return scanContent(m, path, string(data), opts), nil
}

func scanContent(m ports.PatternMatcher, path, content string, opts ScanOptions) []Finding {
	var hits []ports.TextMatch
	if opts.Longest {
		hits = m.ScanLongest(content)
	} else {
		hits = m.Scan(content)
	}
	if len(hits) == 0 {
		return nil
	}
	out := make([]Finding, len(hits))
	for i, h := range hits {
		out[i] = Finding{
			Path:    path,
			Line:    h.Line,
			Column:  h.Column,
			Start:   h.Start,
			End:     h.End,
			Keyword: h.Keyword,
			Value:   h.Value,
		}
	}
	return out
}

// isBinary checks if the first 512 bytes contain a NUL byte.
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 512)], 0) >= 0
}

// ScanPaths scans files and directory trees, calling fn once per scanned
// file in walk order. Directories and files named on the ignore list are
// skipped. Unreadable files are logged and skipped. Scanning stops early if
// ctx is cancelled or fn returns an error.
func (a *App) ScanPaths(ctx context.Context, m ports.PatternMatcher, paths []string, opts ScanOptions, fn func(path string, findings []Finding) error) error {
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				a.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if path != root && a.ignored(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			findings, err := ScanFile(m, path, opts)
			if err != nil {
				a.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
				return nil
			}
			return fn(path, findings)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ignored reports whether name is on the ignore list, either exactly or,
// for entries starting with a dot, as a suffix.
func (a *App) ignored(name string) bool {
	for _, ig := range a.Config.Watch.Ignore {
		if name == ig || (strings.HasPrefix(ig, ".") && strings.HasSuffix(name, ig)) {
			return true
		}
	}
	return false
}
