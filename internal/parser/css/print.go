package css

import "strings"

// Print renders a Stylesheet in compact form: no whitespace between nodes,
// "sel1,sel2{prop:value;prop:value}" for rules and "@media cond{...}" for groups.
func Print(sheet *Stylesheet) string {
	var b strings.Builder
	for _, node := range sheet.Nodes {
		writeNode(&b, node)
	}
	if sheet.SourceMapComment != "" {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sheet.SourceMapComment)
	}
	return b.String()
}

func writeNode(b *strings.Builder, node *Node) {
	switch node.Kind {
	case RuleNode:
		b.WriteString(strings.Join(node.Selectors, ","))
		b.WriteByte('{')
		b.WriteString(strings.Join(node.Declarations, ";"))
		b.WriteByte('}')
	case GroupNode:
		b.WriteString(node.Keyword)
		if node.Condition != "" {
			b.WriteByte(' ')
			b.WriteString(node.Condition)
		}
		b.WriteByte('{')
		for _, child := range node.Children {
			writeNode(b, child)
		}
		b.WriteByte('}')
	default:
		b.WriteString(node.Raw)
	}
}

// CountRules returns the number of RuleNodes in the sheet, including those
// nested one level inside groups
func CountRules(sheet *Stylesheet) int {
	n := 0
	for _, node := range sheet.Nodes {
		switch node.Kind {
		case RuleNode:
			n++
		case GroupNode:
			for _, child := range node.Children {
				if child.Kind == RuleNode {
					n++
				}
			}
		}
	}
	return n
}
