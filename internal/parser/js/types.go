package js

import "fmt"

// Literal is a string literal token found in JS source
type Literal struct {
	// Raw is the source text of the literal, including its quote characters
	Raw string
	// Line is the 0-indexed line where the literal begins
	Line uint
	// Column is the 0-indexed byte column where the literal begins
	Column uint
}

// SyntaxError reports the first error node tree-sitter recovered from
type SyntaxError struct {
	Line    uint
	Column  uint
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line+1, e.Column+1, e.Snippet)
}

// Pos returns the 0-indexed line and column of the error
func (e *SyntaxError) Pos() (line, column uint) {
	return e.Line, e.Column
}
