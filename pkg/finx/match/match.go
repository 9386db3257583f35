// Package match compares canonical field names against provider labels.
package match

import (
	"fmt"
	"strings"
)

// Matcher matches a provider label.
type Matcher interface {
	Match(label string) bool
}

// Normalize lower-cases s and drops every space and underscore.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fuzzy matches labels equal to the target after Normalize.
type Fuzzy struct{ norm string }

// NewFuzzy returns a matcher for the normalized form of name.
func NewFuzzy(name string) Fuzzy { return Fuzzy{norm: Normalize(name)} }

// Match reports whether label normalizes to the target.
func (f Fuzzy) Match(label string) bool { return Normalize(label) == f.norm }

// String shows the normalized target, e.g. "fuzzy:netincome".
func (f Fuzzy) String() string { return fmt.Sprintf("fuzzy:%s", f.norm) }

// First returns the first label accepted by m, in the given order.
// Earlier labels win even if a later one is a closer match.
func First(m Matcher, labels []string) (string, bool) {
	for _, l := range labels {
		if m.Match(l) {
			return l, true
		}
	}
	return "", false
}

// Field finds the provider label for a canonical field name using Fuzzy.
func Field(target string, labels []string) (string, bool) {
	return First(NewFuzzy(target), labels)
}
