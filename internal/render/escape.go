// Package render turns public feed data into syndication and export documents.
// Every function is pure: the same feed, URL and clock reading yield the same bytes.
package render

import (
	"strings"
	"unicode/utf8"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes text for embedding in HTML or XML markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// XMLText drops code points that XML 1.0 does not allow in a document,
// such as C0 control characters other than tab, newline and carriage return.
// Invalid UTF-8 sequences become U+FFFD.
func XMLText(s string) string {
	if utf8.ValidString(s) && strings.IndexFunc(s, isIllegalXMLChar) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isIllegalXMLChar(r) {
			return -1
		}
		return r
	}, s)
}

func isIllegalXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r >= 0x20 && r <= 0xD7FF:
		return false
	case r >= 0xE000 && r <= 0xFFFD:
		return false
	case r >= 0x10000 && r <= 0x10FFFF:
		return false
	}
	return true
}

const (
	rssTitleLength = 100
	rfc822GMT      = "Mon, 02 Jan 2006 15:04:05 GMT"
	isoMillis      = "2006-01-02T15:04:05.000Z"
)
