// Package home manages the periscan home directory and the
// request-scoped artifact paths under it.
package home

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// DefaultDirName is the default name for the periscan home directory.
	DefaultDirName = ".periscan"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// rendersDirName holds per-document rendered page images. Each
	// document gets its own subdirectory, deleted when the request ends.
	rendersDirName = "renders"
)

// DocumentIDPattern is the only shape accepted for document identifiers
// in paths. Anything else is rejected before touching the filesystem.
var DocumentIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)

// Dir represents the periscan home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path, defaulting to ~/.periscan.
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory tree if it doesn't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(filepath.Join(d.path, rendersDirName), 0o755); err != nil {
		return fmt.Errorf("failed to create renders directory: %w", err)
	}
	return nil
}

// RendersDir returns the render artifact directory for one document.
// An error is returned for identifiers outside DocumentIDPattern.
func (d *Dir) RendersDir(docID string) (string, error) {
	if !DocumentIDPattern.MatchString(docID) {
		return "", fmt.Errorf("invalid document id %q", docID)
	}
	return filepath.Join(d.path, rendersDirName, docID), nil
}

// EnsureRendersDir creates the render directory for a document.
func (d *Dir) EnsureRendersDir(docID string) (string, error) {
	dir, err := d.RendersDir(docID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create renders directory: %w", err)
	}
	return dir, nil
}

// RenderedPagePath returns the path of one rendered page image.
// Page numbers are 1-indexed.
func (d *Dir) RenderedPagePath(docID string, pageNum int) (string, error) {
	dir, err := d.RendersDir(docID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("page_%04d.jpg", pageNum)), nil
}

// CleanupRenders removes a document's render directory. Rendered
// artifacts are request-scoped: this runs on success and on failure.
func (d *Dir) CleanupRenders(docID string) error {
	dir, err := d.RendersDir(docID)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
