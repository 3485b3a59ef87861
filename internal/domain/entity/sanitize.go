package entity

import "strings"

// StripTags removes angle brackets from a string and trims surrounding
// whitespace.
//
// Dropping '<' and '>' is a blunt XSS mitigation, not full HTML
// sanitization. Stored values must still be escaped at render time.
func StripTags(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.TrimSpace(s)
}
