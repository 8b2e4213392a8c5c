package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExclude keeps source maps out of the pass
var DefaultExclude = []string{"**/*.map"}

// DirStore is an AssetStore over a build output directory on disk.
// Asset names are slash separated paths relative to the root.
type DirStore struct {
	root    string
	include []string
	exclude []string
}

// NewDirStore creates a DirStore rooted at root. When include is not empty
// only matching assets are listed; assets matching exclude never are.
func NewDirStore(root string, include, exclude []string) (*DirStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open build output %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build output %s is not a directory", root)
	}

	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	return &DirStore{root: root, include: include, exclude: exclude}, nil
}

// Root returns the directory the store reads from
func (s *DirStore) Root() string {
	return s.root
}

// List walks the root and returns every selected file in lexical order
func (s *DirStore) List() ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if s.selected(name) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.root, err)
	}
	return names, nil
}

func (s *DirStore) selected(name string) bool {
	if matchAny(s.exclude, name) {
		return false
	}
	return len(s.include) == 0 || matchAny(s.include, name)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ReadText reads the asset called name
func (s *DirStore) ReadText(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// WriteText replaces the asset called name, keeping its file mode
func (s *DirStore) WriteText(name, text string) error {
	target := s.path(name)

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(target, []byte(text), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *DirStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}
