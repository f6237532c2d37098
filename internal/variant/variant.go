// Package variant implements A/B prompt-variant selection: sticky per-user
// bucket assignment plus the per-run resolution ladder driven by
// configuration.
package variant

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand/v2"
	"strings"
)

// Variant is an A/B bucket selecting a phrasing template.
type Variant string

const (
	A Variant = "A"
	B Variant = "B"
)

// Assign deterministically buckets a user: parity of the trailing hex digit
// of the SHA-256 of the identifier. The same identifier always lands in the
// same bucket.
func Assign(userID string) Variant {
	sum := sha256.Sum256([]byte(userID))
	digest := hex.EncodeToString(sum[:])
	last := digest[len(digest)-1]

	var v int
	switch {
	case last >= '0' && last <= '9':
		v = int(last - '0')
	default:
		v = int(last-'a') + 10
	}
	if v%2 == 0 {
		return A
	}
	return B
}

// AssignString is Assign with a plain-string result, for callers that
// persist the bucket.
func AssignString(userID string) string {
	return string(Assign(userID))
}

// Normalize parses a caller-supplied variant hint ("a", "B", ...).
func Normalize(s string) (Variant, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return A, true
	case "B":
		return B, true
	}
	return "", false
}

// Resolve picks the prompt variant for one pipeline run. Priority order:
//
//  1. config forces "a" or "b" → that variant
//  2. caller-supplied sticky hint → that variant
//  3. config "random" → uniform choice
//  4. config "auto" → non-English text gets B, else A
//  5. anything else → first letter of the config value ("b..." → B), or A
//
// The config value is compared case-insensitively.
func Resolve(mode, sticky, language string) Variant {
	m := strings.ToLower(strings.TrimSpace(mode))

	if m == "a" {
		return A
	}
	if m == "b" {
		return B
	}

	if v, ok := Normalize(sticky); ok {
		return v
	}

	switch m {
	case "random":
		if rand.IntN(2) == 0 {
			return A
		}
		return B
	case "auto":
		if language != "" && language != "en" {
			return B
		}
		return A
	}

	if strings.HasPrefix(m, "b") {
		return B
	}
	return A
}

// Key builds a template lookup key like "sales/B" from an intent and a
// variant string. The variant is normalized, defaulting to A.
func Key(intent, v string) string {
	nv, ok := Normalize(v)
	if !ok {
		nv = A
	}
	return intent + "/" + string(nv)
}
