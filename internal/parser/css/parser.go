package css

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

const snippetLen = 40

// Parser builds rule trees from CSS source with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
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
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses CSS source into a Stylesheet. Any syntax error is reported as a
// *SyntaxError and no partial tree is returned.
func (p *Parser) Parse(source string) (*Stylesheet, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newSyntaxError(firstErrorNode(root), sourceBytes)
	}

	sheet := &Stylesheet{}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if isComment(child) {
			if text := nodeText(child, sourceBytes); isSourceMapComment(text) {
				sheet.SourceMapComment = text
			}
			continue
		}
		sheet.Nodes = append(sheet.Nodes, buildTopLevel(child, sourceBytes))
	}

	return sheet, nil
}

// buildTopLevel converts a direct child of the stylesheet node
func buildTopLevel(node *sitter.Node, source []byte) *Node {
	switch node.Kind() {
	case "rule_set":
		return buildRule(node, source)
	case "media_statement", "supports_statement":
		return buildGroup(node, source)
	default:
		return buildOther(node, source)
	}
}

// buildGroup converts a conditional group. Rule sets directly inside its block
// become RuleNodes; anything deeper is kept verbatim.
func buildGroup(node *sitter.Node, source []byte) *Node {
	block := childOfKind(node, "block")
	if block == nil {
		return buildOther(node, source)
	}

	keyword := node.Child(0)
	group := &Node{
		Kind:      GroupNode,
		Keyword:   nodeText(keyword, source),
		Condition: collapseSpace(string(source[keyword.EndByte():block.StartByte()])),
		Line:      node.StartPosition().Row,
	}

	for i := uint(0); i < block.NamedChildCount(); i++ {
		child := block.NamedChild(i)
		switch {
		case isComment(child):
			continue
		case child.Kind() == "rule_set":
			group.Children = append(group.Children, buildRule(child, source))
		default:
			group.Children = append(group.Children, buildOther(child, source))
		}
	}

	return group
}

// buildRule converts a rule_set node into a RuleNode
func buildRule(node *sitter.Node, source []byte) *Node {
	rule := &Node{
		Kind: RuleNode,
		Line: node.StartPosition().Row,
	}

	if selectors := childOfKind(node, "selectors"); selectors != nil {
		for i := uint(0); i < selectors.NamedChildCount(); i++ {
			sel := selectors.NamedChild(i)
			if isComment(sel) {
				continue
			}
			rule.Selectors = append(rule.Selectors, collapseSpace(nodeText(sel, source)))
		}
	}

	if block := childOfKind(node, "block"); block != nil {
		for i := uint(0); i < block.NamedChildCount(); i++ {
			child := block.NamedChild(i)
			switch {
			case isComment(child):
				continue
			case child.Kind() == "declaration":
				rule.Declarations = append(rule.Declarations, compactDeclaration(child, source))
			default:
				rule.Declarations = append(rule.Declarations, strings.TrimSpace(nodeText(child, source)))
			}
		}
	}

	return rule
}

func buildOther(node *sitter.Node, source []byte) *Node {
	return &Node{
		Kind: OtherNode,
		Raw:  strings.TrimSpace(nodeText(node, source)),
		Line: node.StartPosition().Row,
	}
}

// compactDeclaration renders "prop : value ;" as "prop:value". The value text
// is kept as written apart from surrounding whitespace.
func compactDeclaration(node *sitter.Node, source []byte) string {
	var colon *sitter.Node
	end := node.EndByte()
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case ":":
			if colon == nil {
				colon = child
			}
		case ";":
			end = child.StartByte()
		}
	}

	if colon == nil {
		return strings.TrimSuffix(strings.TrimSpace(nodeText(node, source)), ";")
	}

	property := strings.TrimSpace(string(source[node.StartByte():colon.StartByte()]))
	value := strings.TrimSpace(string(source[colon.EndByte():end]))
	return property + ":" + value
}

func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func isComment(node *sitter.Node) bool {
	kind := node.Kind()
	return kind == "comment" || kind == "js_comment"
}

func isSourceMapComment(text string) bool {
	return strings.HasPrefix(text, "/*# sourceMappingURL=") || strings.HasPrefix(text, "/*@ sourceMappingURL=")
}

// collapseSpace replaces runs of whitespace with a single space outside of
// quoted strings and trims the result
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var quote byte
	pendingSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			pendingSpace = b.Len() > 0
			continue
		case '"', '\'':
			quote = c
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteByte(c)
	}

	return b.String()
}

// firstErrorNode descends into the first subtree carrying an error and returns
// the ERROR or MISSING node responsible for it
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.IsMissing() || child.HasError() {
			return firstErrorNode(child)
		}
	}
	return node
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
