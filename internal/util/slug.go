// Package util provides text helpers shared by the content services.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any run of characters that is not a lowercase letter or digit.
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches a well-formed slug.
	slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify converts a title into a URL-safe slug.
//
//	"Hello & World"        → "hello-world"
//	"Café Society"         → "cafe-society"
//	"Next.js 15: What's New" → "next-js-15-what-s-new"
//	"🚀"                   → ""
func Slugify(s string) string {
	// Decompose accented characters so the base letter survives.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumericRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}
