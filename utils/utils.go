package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a free-form name to a URL-safe slug, e.g.
// "Alice & Bob!" -> "alice-bob"
func Slugify(in string) string {
	s := slugCleanup.ReplaceAllString(strings.ToLower(in), "-")
	return strings.Trim(s, "-")
}

var validSlug = regexp.MustCompile(`^[a-z0-9-]{2,64}$`)

func IsValidSlug(in string) bool {
	return validSlug.MatchString(in)
}

func Rand16BytesToBase62() string {
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}
