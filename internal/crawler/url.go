package crawler

import (
	"net/url"
	"strings"
)

// IsValid reports whether rawURL is a well-formed absolute URL worth
// pursuing: the parsed scheme and the network location must both be
// non-empty. Relative paths and scheme-only strings like "ftp://" fail.
//
// No scheme allow-list is applied. A well-formed "weird-scheme://host" URL
// passes validation and is left to fail at fetch time; this is a known gap,
// not a guarantee.
func IsValid(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsSitemapSeed reports whether seed names a sitemap rather than a page:
// an absolute http(s) URL whose path ends in the XML sitemap extension.
func IsSitemapSeed(seed string) bool {
	return strings.HasPrefix(seed, "http") && strings.HasSuffix(strings.ToLower(seed), ".xml")
}
