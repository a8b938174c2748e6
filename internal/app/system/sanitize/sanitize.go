// Package sanitize cleans user-supplied free text (note bodies, strike
// reasons) before it reaches a store. Gavel treats these fields as plain
// text, so all markup is stripped rather than filtered.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML from s, unescapes entities the stripper introduced,
// and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
