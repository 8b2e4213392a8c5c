package js

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// snippetLen bounds the source excerpt carried by a SyntaxError
const snippetLen = 40

// Parser tokenizes compiled JS and yields its string literals
type Parser struct {
	parser       *sitter.Parser
	literalQuery *sitter.Query
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		// Template strings and regex literals are separate node kinds, so
		// only plain quoted literals match here.
		literalQuery, qerr := sitter.NewQuery(jsLang, `(string) @literal`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile literal query: %v", qerr))
		}

		return &Parser{
			parser:       parser,
			literalQuery: literalQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.literalQuery != nil {
		p.literalQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// StringLiterals tokenizes source and returns its string literals in source order.
// Grammar errors do not matter: literals are collected from the error-recovered
// tree as well. Only a string literal that is never closed is a *SyntaxError.
func (p *Parser) StringLiterals(source string) ([]Literal, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse JavaScript")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return recoverLiterals(root, sourceBytes)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var literals []Literal
	matches := cursor.Matches(p.literalQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			literals = append(literals, newLiteral(&capture.Node, capture.Node.EndByte(), sourceBytes))
		}
	}

	return literals, nil
}

// recoverLiterals walks a tree containing ERROR nodes in source order. Intact
// string nodes are taken whole. Inside error regions tree-sitter may leave the
// quotes as bare tokens, so a bare quote opens a literal that the next bare
// quote of the same kind closes.
func recoverLiterals(root *sitter.Node, source []byte) ([]Literal, error) {
	cursor := root.Walk()
	defer cursor.Close()

	var (
		literals []Literal
		open     *sitter.Node
	)
	for {
		node := cursor.Node()
		descend := true

		switch kind := node.Kind(); {
		case open != nil:
			if node.ChildCount() == 0 && kind == open.Kind() && !node.IsMissing() {
				literals = append(literals, newLiteral(open, node.EndByte(), source))
				open = nil
			}
		case kind == "string":
			if !closedString(node) {
				return nil, newSyntaxError(node, source)
			}
			literals = append(literals, newLiteral(node, node.EndByte(), source))
			descend = false
		case kind == "comment" || kind == "regex":
			descend = false
		case isQuote(kind) && node.ChildCount() == 0 && !node.IsMissing():
			open = node
		}

		if descend && cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				if open != nil {
					return nil, newSyntaxError(open, source)
				}
				return literals, nil
			}
		}
	}
}

// closedString reports whether a string node ends with a real quote matching
// the one it opens with
func closedString(node *sitter.Node) bool {
	n := node.ChildCount()
	if n < 2 {
		return false
	}
	first, last := node.Child(0), node.Child(n-1)
	return first != nil && last != nil && !last.IsMissing() && isQuote(first.Kind()) && last.Kind() == first.Kind()
}

func isQuote(kind string) bool {
	return kind == `"` || kind == `'`
}

func newLiteral(start *sitter.Node, end uint, source []byte) Literal {
	return Literal{
		Raw:    string(source[start.StartByte():end]),
		Line:   start.StartPosition().Row,
		Column: start.StartPosition().Column,
	}
}

func newSyntaxError(node *sitter.Node, source []byte) *SyntaxError {
	start, end := node.StartByte(), node.EndByte()
	if end-start > snippetLen {
		end = start + snippetLen
	}
	return &SyntaxError{
		Line:    node.StartPosition().Row,
		Column:  node.StartPosition().Column,
		Snippet: string(source[start:end]),
	}
}
