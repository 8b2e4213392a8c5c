package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// FileError is a failure attributed to one asset
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Errors collects per-asset failures of a pass (thread-safe)
type Errors struct {
	mu     sync.Mutex
	errors []FileError
}

// Add records err against path
func (e *Errors) Add(path string, err error) {
	e.mu.Lock()
	e.errors = append(e.errors, FileError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected
func (e *Errors) HasErrors() bool {
	return e.Len() > 0
}

// Len returns the number of collected errors
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errors)
}

// List returns the collected errors ordered by path
func (e *Errors) List() []FileError {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	list := slices.Clone(e.errors)
	e.mu.Unlock()

	slices.SortStableFunc(list, func(a, b FileError) int {
		return strings.Compare(a.Path, b.Path)
	})
	return list
}

// Error implements the error interface
func (e *Errors) Error() string {
	list := e.List()
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	default:
		return fmt.Sprintf("%d assets failed (first: %v)", len(list), list[0])
	}
}

// Unwrap exposes every collected error to errors.Is and errors.As
func (e *Errors) Unwrap() []error {
	list := e.List()
	errs := make([]error, len(list))
	for i, fe := range list {
		errs[i] = fe
	}
	return errs
}
