package egnyte

import (
	"net/url"
	"strings"
)

var bracketEscaper = strings.NewReplacer("[", "%5B", "]", "%5D")

// EscapeBrackets percent-encodes every '[' and ']' in s and leaves all
// other characters untouched. Applying it twice gives the same result.
//
// net/url treats brackets as valid in an already-escaped path, so a path
// such as "/fs/[T]" goes on the wire as-is. The Egnyte API wants them
// escaped.
func EscapeBrackets(s string) string {
	return bracketEscaper.Replace(s)
}

// escapeURL rewrites u in place. The host is skipped so IPv6 literals keep
// their brackets.
func escapeURL(u *url.URL) {
	if u.Opaque != "" {
		u.Opaque = EscapeBrackets(u.Opaque)
		return
	}
	// Path keeps its decoded form; RawPath is a valid encoding of it, so
	// EscapedPath returns RawPath verbatim.
	u.RawPath = EscapeBrackets(u.EscapedPath())
	u.RawQuery = EscapeBrackets(u.RawQuery)
	if u.Fragment != "" {
		u.RawFragment = EscapeBrackets(u.EscapedFragment())
	}
}
