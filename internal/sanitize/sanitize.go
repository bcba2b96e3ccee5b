// Package sanitize strips markup from user supplied strings before they
// reach the store. Records read back out are never sanitized again.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// String removes embedded HTML and trims surrounding whitespace.
// Entities are decoded to a fixpoint before stripping, so markup cannot
// hide behind any depth of encoding and a second pass is a no-op.
func String(s string) string {
	for {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}
	return strings.TrimSpace(policy.Sanitize(s))
}

// Map sanitizes every string value of a flat record and passes all other
// values through unchanged.
func Map(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		if s, ok := v.(string); ok {
			out[k] = String(s)
			continue
		}
		out[k] = v
	}
	return out
}
