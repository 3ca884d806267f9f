package delta

import (
	"regexp"
	"strings"
)

var (
	rtfEscapeRe    = regexp.MustCompile(`\\[a-z]+\d*\{\}`)
	angleCommentRe = regexp.MustCompile(`<[^<>]*>`)
)

// StripMarkup removes embedded RTF-style escapes (\i{}, \b0{}, ...) and
// angle-bracket comments from a description for display. Stored
// descriptions keep the markup verbatim; stripping is display-layer only.
func StripMarkup(s string) string {
	out := rtfEscapeRe.ReplaceAllString(s, "")
	for {
		next := angleCommentRe.ReplaceAllString(out, "")
		if next == out {
			break
		}
		out = next
	}
	return strings.Join(strings.Fields(out), " ")
}
