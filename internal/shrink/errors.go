package shrink

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrExtraction indicates a script fragment could not be tokenized
	ErrExtraction = errors.New("class extraction failed")

	// ErrParse indicates a stylesheet could not be parsed into a rule tree
	ErrParse = errors.New("stylesheet parse failed")

	// ErrInvalidPattern indicates the delimiter pattern is not a valid regular expression
	ErrInvalidPattern = errors.New("invalid delimiter pattern")
)

// position is implemented by the parser syntax errors
type position interface {
	error
	Pos() (line, column uint)
}

// ExtractionError represents a script fragment that failed to tokenize
type ExtractionError struct {
	Name   string
	Line   uint
	Column uint
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Line > 0 || e.Column > 0 {
		return fmt.Sprintf("failed to extract class names from %s at %d:%d: %v\nSuggestion: exclude the file or check that it is valid JavaScript", e.Name, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("failed to extract class names from %s: %v\nSuggestion: exclude the file or check that it is valid JavaScript", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{ErrExtraction, e.Err}
}

// NewExtractionError creates a new extraction error; positions are 1-based
func NewExtractionError(name string, err error) error {
	e := &ExtractionError{Name: name, Err: err}
	var pos position
	if errors.As(err, &pos) {
		line, column := pos.Pos()
		e.Line, e.Column = line+1, column+1
	}
	return e
}

// ParseError represents a stylesheet that failed to parse
type ParseError struct {
	Name   string
	Line   uint
	Column uint
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 || e.Column > 0 {
		return fmt.Sprintf("failed to parse stylesheet %s at %d:%d: %v", e.Name, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("failed to parse stylesheet %s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// NewParseError creates a new parse error; positions are 1-based
func NewParseError(name string, err error) error {
	e := &ParseError{Name: name, Err: err}
	var pos position
	if errors.As(err, &pos) {
		line, column := pos.Pos()
		e.Line, e.Column = line+1, column+1
	}
	return e
}

// InvalidPatternError represents a delimiter pattern that does not compile
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid delimiter pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return ErrInvalidPattern
}

// NewInvalidPatternError creates a new invalid pattern error
func NewInvalidPatternError(pattern string, err error) error {
	return &InvalidPatternError{Pattern: pattern, Err: err}
}
