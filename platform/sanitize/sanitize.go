// Package sanitize strips markup from free-text fields submitted by the public form.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`[ \t]+`)
	entityReplacer  = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// StripHTML removes tags, decodes common entities and strips again so that
// encoded tags cannot survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips HTML and collapses runs of spaces. Newlines are kept so that
// multi-line descriptions stay readable for the sales team.
func Text(s string) string {
	return whitespaceRegex.ReplaceAllString(StripHTML(s), " ")
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
