// Package htmlx post-processes processor HTML output.
package htmlx

import (
	"regexp"
	"strings"
)

// openTag matches an element opening tag at the very start of a string.
var openTag = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9-]*)(\s[^>]*)?>`)

// StripOuterWrapper removes a single block-level element wrapping the
// entire string and returns its inner content, trimmed. The wrapper tag
// name is not interpreted; any element qualifies as long as its opening
// tag starts the string and its matching closing tag ends it. Strings
// that are not one complete wrapper (no tag, sibling elements, trailing
// text) are returned unchanged.
//
// The processor wraps bibliography output in a container element; callers
// embedding the fragment need it loosened.
func StripOuterWrapper(s string) string {
	m := openTag.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	name := m[1]
	closing := "</" + name + ">"
	if !strings.HasSuffix(s, closing) || len(s) < len(m[0])+len(closing) {
		return s
	}
	inner := s[len(m[0]) : len(s)-len(closing)]
	if !wrapsWhole(name, inner) {
		return s
	}
	return strings.TrimSpace(inner)
}

// wrapsWhole reports whether the opening tag whose inner content is given
// is closed by the final closing tag, i.e. no same-named close inside
// inner terminates the outer element early.
func wrapsWhole(name, inner string) bool {
	tok := regexp.MustCompile(`<(/?)` + regexp.QuoteMeta(name) + `(?:\s[^>]*)?(/?)>`)
	depth := 0
	for _, t := range tok.FindAllStringSubmatch(inner, -1) {
		switch {
		case t[1] == "/":
			depth--
		case t[2] == "/":
			// self-closing, ignore
		default:
			depth++
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}
