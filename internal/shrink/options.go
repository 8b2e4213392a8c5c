package shrink

import (
	"regexp"
	"strings"
)

const (
	// DefaultDelimiterPattern matches every character that cannot appear in a class name
	DefaultDelimiterPattern = `[^a-zA-Z0-9_\-]`
	// DefaultMinClassLength excludes single-character words
	DefaultMinClassLength = 1
)

var defaultDelimiter = regexp.MustCompile(DefaultDelimiterPattern)

// Settings holds raw, possibly unset configuration values as read from flags
// or config files. Unset or invalid values fall back to defaults in NewOptions.
type Settings struct {
	// DelimiterPattern is a regular expression; every match is replaced by a space
	DelimiterPattern string
	// MinClassLength excludes words whose length is not strictly greater than it.
	// Nil means unset; an explicit 0 keeps single-character words.
	MinClassLength *int
	// Minify runs a CSS minifier over the filtered output
	Minify bool
}

// Options is the resolved, immutable configuration shared by Extractor and Filter
type Options struct {
	delimiter      *regexp.Regexp
	minClassLength int
	minify         bool
}

// DefaultOptions returns Options with every default applied
func DefaultOptions() Options {
	return Options{
		delimiter:      defaultDelimiter,
		minClassLength: DefaultMinClassLength,
	}
}

// NewOptions resolves settings into Options. The only error is a delimiter
// pattern that does not compile.
func NewOptions(s Settings) (Options, error) {
	opts := DefaultOptions()
	opts.minify = s.Minify

	if s.MinClassLength != nil && *s.MinClassLength >= 0 {
		opts.minClassLength = *s.MinClassLength
	}

	if pattern := strings.TrimSpace(s.DelimiterPattern); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Options{}, NewInvalidPatternError(pattern, err)
		}
		opts.delimiter = re
	}

	return opts, nil
}

// DelimiterPattern returns the source of the delimiter expression
func (o Options) DelimiterPattern() string {
	return o.delimiter.String()
}

// MinClassLength returns the exclusive lower bound on candidate length
func (o Options) MinClassLength() int {
	return o.minClassLength
}

// Minify reports whether filtered output is passed through the minifier
func (o Options) Minify() bool {
	return o.minify
}
