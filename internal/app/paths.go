package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .ahoc/ project directory.
type Paths struct {
	Project string // project root
	Root    string // .ahoc/
	DB      string // .ahoc/ahoc.db
	Config  string // .ahoc/config.yaml
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".ahoc")
	return &Paths{
		Project: projectRoot,
		Root:    root,
		DB:      filepath.Join(root, "ahoc.db"),
		Config:  filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirs creates .ahoc/. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}

// Resolve returns path unchanged when absolute, otherwise joined to the
// project root.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Project, path)
}
