package urlutil

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// BaseURL returns configured when set, otherwise scheme://host of the request.
func BaseURL(configured, scheme, host string) string {
	if trimmed := strings.TrimRight(strings.TrimSpace(configured), "/"); trimmed != "" {
		return trimmed
	}
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + host
}

// FeedURL is the canonical page address of a feed. Format documents append an extension to it.
func FeedURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/f/" + id
}

// DisplayHost returns the host of raw for display, decoded from punycode and without a leading "www.".
// It falls back to the trimmed input when raw does not parse as an absolute URL.
func DisplayHost(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Hostname() == "" {
		return trimmed
	}

	host := parsed.Hostname()
	if decoded, err := idna.Lookup.ToUnicode(host); err == nil {
		host = decoded
	}
	return strings.TrimPrefix(host, "www.")
}
