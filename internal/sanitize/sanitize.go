// Package sanitize escapes markup-significant characters in form fields
// before they are persisted or rendered elsewhere.
package sanitize

import "strings"

// replacer maps each injection-capable character to its markup entity.
// The scan is left-to-right over the input; replacements are not rescanned,
// so escaping is intentionally not idempotent.
var replacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Escape replaces every occurrence of & < > " ' / with its entity.
func Escape(s string) string {
	return replacer.Replace(s)
}
