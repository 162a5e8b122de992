// Package emailcheck validates the shape and deliverability of email
// addresses. The syntax filter is a fast local pattern; Checker runs the
// configured deliverability validators behind it.
package emailcheck

import (
	"regexp"
	"strings"
)

// addressPattern accepts an RFC-5321-style local part (dot-atoms or a quoted
// string) at a domain that is either a bracketed IPv4 literal or a dotted
// label sequence ending in a TLD of at least two letters.
var addressPattern = regexp.MustCompile(
	`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}))$`,
)

// Syntax reports whether email passes the local pattern filter. Matching is
// case-insensitive.
func Syntax(email string) bool {
	return addressPattern.MatchString(strings.ToLower(email))
}
