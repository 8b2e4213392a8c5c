package shrink

import (
	"strings"
	"unicode/utf8"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/parser/js"
)

// joinedSourceName identifies the concatenated input of Extract in errors
const joinedSourceName = "joined sources"

// Extractor collects candidate class names from the string literals of compiled scripts
type Extractor struct {
	opts Options
}

// NewExtractor creates an Extractor for one build pass
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract joins sources with a space, tokenizes the result and returns the
// candidate class set built from its string literals
func (e *Extractor) Extract(sources ...string) (collections.Set[string], error) {
	set := collections.NewSet[string]()
	if err := e.AddSource(set, joinedSourceName, strings.Join(sources, " ")); err != nil {
		return nil, err
	}
	return set, nil
}

// AddSource tokenizes one named script fragment and adds its candidates to set.
// On failure set is left untouched and an *ExtractionError is returned.
func (e *Extractor) AddSource(set collections.Set[string], name, source string) error {
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	literals, err := parser.StringLiterals(source)
	if err != nil {
		return NewExtractionError(name, err)
	}

	found := collections.NewSet[string]()
	for _, literal := range literals {
		e.addLiteral(found, literal.Raw)
	}

	before := len(set)
	set.Union(found)
	log.With("asset", name).Debug("%d string literals, %d new candidates", len(literals), len(set)-before)

	return nil
}

// addLiteral applies the same length filter to single-word and multi-word literals
func (e *Extractor) addLiteral(set collections.Set[string], raw string) {
	for _, word := range e.opts.Words(unquote(raw)) {
		if utf8.RuneCountInString(word) > e.opts.minClassLength {
			set.Add(word)
		}
	}
}
