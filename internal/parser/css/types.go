package css

import "fmt"

// NodeKind classifies a top-level or group-nested stylesheet node
type NodeKind int

const (
	// RuleNode is a qualified rule: selector list plus declaration block
	RuleNode NodeKind = iota
	// GroupNode is a conditional group rule (@media, @supports) holding nested nodes
	GroupNode
	// OtherNode is anything else (@import, @keyframes, @font-face, ...), kept verbatim
	OtherNode
)

func (k NodeKind) String() string {
	switch k {
	case RuleNode:
		return "rule"
	case GroupNode:
		return "group"
	default:
		return "other"
	}
}

// Node is one entry in a Stylesheet
type Node struct {
	Kind NodeKind

	// Selectors holds the comma-separated selector list of a RuleNode,
	// in source order with runs of whitespace collapsed
	Selectors []string
	// Declarations holds the compacted declarations of a RuleNode ("color:red").
	// Nested rules inside the block are carried here verbatim.
	Declarations []string

	// Keyword is the at-keyword of a GroupNode, e.g. "@media"
	Keyword string
	// Condition is the guard of a GroupNode, e.g. "screen and (max-width:600px)"
	Condition string
	// Children are the nodes inside a GroupNode's block
	Children []*Node

	// Raw is the source text of an OtherNode
	Raw string

	// Line is the 0-indexed line where the node starts
	Line uint
}

// Stylesheet is the rule tree of one CSS file
type Stylesheet struct {
	Nodes []*Node
	// SourceMapComment is the "/*# sourceMappingURL=... */" comment of the
	// input, if any. It survives printing so the map association is kept.
	SourceMapComment string
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
