// Package id generates prefixed identifiers for stored entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. The prefix makes an id self-describing in logs and URLs.
const (
	PrefixPost     = "post"
	PrefixCategory = "cat"
	PrefixTag      = "tag"
	PrefixUser     = "user"
	PrefixToken    = "token"
	PrefixEvent    = "evt"
)

// Generate creates an id of the form prefix-nanoid (e.g. "post-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	nano, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nano, nil
}

// MustGenerate is like Generate but panics if the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
