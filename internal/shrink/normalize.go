package shrink

import "strings"

// Normalize replaces every delimiter match in s with a single space
func (o Options) Normalize(s string) string {
	return o.delimiter.ReplaceAllString(s, " ")
}

// Words splits s into candidate class-name words
func (o Options) Words(s string) []string {
	return strings.Fields(o.Normalize(s))
}

// NormalizeSelector reduces a raw selector to the class name it is judged by:
// the leading "." is dropped and, for compound or descendant selectors, only
// the first word is kept. The result may be empty.
func (o Options) NormalizeSelector(selector string) string {
	s := o.Normalize(strings.TrimPrefix(selector, "."))
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return s
}

// unquote strips the enclosing quote characters of a string literal and
// trims surrounding whitespace
func unquote(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	return strings.TrimSpace(raw[1 : len(raw)-1])
}
