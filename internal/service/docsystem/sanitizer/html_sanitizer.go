package sanitizer

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer reduces HTML to its text content.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewStrictHTMLSanitizer creates a sanitizer that strips every tag. Stripped
// tags leave a space behind so that "<p>a</p><p>b</p>" does not become "ab".
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	return &HTMLSanitizer{policy: policy}
}

// StripTags removes all markup and decodes entities, returning plain text
func (s *HTMLSanitizer) StripTags(input string) string {
	// bluemonday re-escapes text content; undo that so "&amp;" searches as "&"
	return html.UnescapeString(s.policy.Sanitize(input))
}

// NewHTMLSanitizer keeps ordinary formatting (headings, lists, links,
// tables) and drops scripts, event handlers and javascript: URLs.
func NewHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.UGCPolicy()}
}

// Sanitize returns the HTML with everything outside the policy removed
func (s *HTMLSanitizer) Sanitize(input string) string {
	return s.policy.Sanitize(input)
}
