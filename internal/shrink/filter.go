package shrink

import (
	"bytes"
	"strings"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/parser/css"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
)

// Filter prunes stylesheet rules whose selectors match no candidate class
type Filter struct {
	opts     Options
	minifier *minify.M
}

// NewFilter creates a Filter for one build pass
func NewFilter(opts Options) *Filter {
	f := &Filter{opts: opts}
	if opts.minify {
		f.minifier = minify.New()
		f.minifier.AddFunc("text/css", mincss.Minify)
	}
	return f
}

// Result describes one filtered stylesheet
type Result struct {
	Name        string
	Output      string
	BytesBefore int
	BytesAfter  int
	RulesBefore int
	RulesAfter  int
}

// Ratio returns the size reduction (before-after)/before, or 0 for empty input
func (r *Result) Ratio() float64 {
	if r.BytesBefore == 0 {
		return 0
	}
	return float64(r.BytesBefore-r.BytesAfter) / float64(r.BytesBefore)
}

// Keep decides whether a rule survives. Only the first selector decides whether
// the rule is a class rule at all: anything else is always kept. A class rule
// is kept when any of its normalized selectors is a candidate.
func (f *Filter) Keep(selectors []string, candidates collections.Set[string]) bool {
	if len(selectors) == 0 || !strings.HasPrefix(selectors[0], ".") {
		return true
	}

	for _, selector := range selectors {
		if name := f.opts.NormalizeSelector(selector); name != "" && candidates.Has(name) {
			return true
		}
	}
	return false
}

// Apply returns a new Stylesheet holding the surviving nodes of sheet in their
// original order. Groups are always kept; only their direct rules are filtered.
// sheet itself is not modified.
func (f *Filter) Apply(sheet *css.Stylesheet, candidates collections.Set[string]) *css.Stylesheet {
	out := &css.Stylesheet{
		Nodes:            make([]*css.Node, 0, len(sheet.Nodes)),
		SourceMapComment: sheet.SourceMapComment,
	}

	for _, node := range sheet.Nodes {
		switch node.Kind {
		case css.RuleNode:
			if f.Keep(node.Selectors, candidates) {
				out.Nodes = append(out.Nodes, node)
			}
		case css.GroupNode:
			out.Nodes = append(out.Nodes, f.applyGroup(node, candidates))
		default:
			out.Nodes = append(out.Nodes, node)
		}
	}

	return out
}

func (f *Filter) applyGroup(group *css.Node, candidates collections.Set[string]) *css.Node {
	filtered := *group
	filtered.Children = make([]*css.Node, 0, len(group.Children))
	for _, child := range group.Children {
		if child.Kind == css.RuleNode && !f.Keep(child.Selectors, candidates) {
			continue
		}
		filtered.Children = append(filtered.Children, child)
	}
	return &filtered
}

// Shrink parses source, filters it against candidates and prints the result.
// A stylesheet that does not parse yields a *ParseError and no output.
func (f *Filter) Shrink(name, source string, candidates collections.Set[string]) (*Result, error) {
	parser := css.AcquireParser()
	defer css.ReleaseParser(parser)

	sheet, err := parser.Parse(source)
	if err != nil {
		return nil, NewParseError(name, err)
	}

	filtered := f.Apply(sheet, candidates)
	result := &Result{
		Name:        name,
		Output:      f.print(name, filtered),
		BytesBefore: len(source),
		RulesBefore: css.CountRules(sheet),
		RulesAfter:  css.CountRules(filtered),
	}
	result.BytesAfter = len(result.Output)

	log.With("asset", name).Info("before: %d after: %d gain: %.2f%%", result.BytesBefore, result.BytesAfter, result.Ratio()*100)
	return result, nil
}

// print renders sheet compactly, minifying the rules when enabled. The
// source map comment is appended after minification so it is never stripped.
func (f *Filter) print(name string, sheet *css.Stylesheet) string {
	if f.minifier == nil {
		return css.Print(sheet)
	}

	body := css.Print(&css.Stylesheet{Nodes: sheet.Nodes})
	var buf bytes.Buffer
	if err := f.minifier.Minify("text/css", &buf, strings.NewReader(body)); err != nil {
		log.With("asset", name).Warn("Minify failed, keeping compact output: %v", err)
		return css.Print(sheet)
	}

	if sheet.SourceMapComment == "" {
		return buf.String()
	}
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString(sheet.SourceMapComment)
	return buf.String()
}
