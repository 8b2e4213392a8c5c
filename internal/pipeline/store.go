// Package pipeline runs a shrink pass over the assets of a build output.
package pipeline

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
)

// AssetStore is the build output seen by a pass: a flat list of slash
// separated asset names whose text can be read and replaced.
type AssetStore interface {
	List() ([]string, error)
	ReadText(name string) (string, error)
	WriteText(name, text string) error
}

// AssetKind classifies an asset by extension
type AssetKind int

const (
	// OtherAsset is neither a script nor a stylesheet
	OtherAsset AssetKind = iota
	// ScriptAsset feeds candidate extraction
	ScriptAsset
	// StylesheetAsset is filtered against the candidates
	StylesheetAsset
)

// Classify returns the kind of the asset called name
func Classify(name string) AssetKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".js", ".mjs", ".cjs":
		return ScriptAsset
	case ".css":
		return StylesheetAsset
	default:
		return OtherAsset
	}
}

// MemStore is an in-memory AssetStore
type MemStore struct {
	mu     sync.RWMutex
	assets map[string]string
}

// NewMemStore creates a MemStore holding a copy of assets
func NewMemStore(assets map[string]string) *MemStore {
	s := &MemStore{assets: make(map[string]string, len(assets))}
	for name, text := range assets {
		s.assets[name] = text
	}
	return s
}

// List returns the asset names in ascending order
func (s *MemStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.assets))
	for name := range s.assets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// ReadText returns the text of the asset called name
func (s *MemStore) ReadText(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.assets[name]
	if !ok {
		return "", fmt.Errorf("asset %s not found", name)
	}
	return text, nil
}

// WriteText replaces (or creates) the asset called name
func (s *MemStore) WriteText(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[name] = text
	return nil
}
