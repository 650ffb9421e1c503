package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"Alice & Bob":       "alice-bob",
		"  Family Photos  ": "family-photos",
		"ALREADY-a-slug":    "already-a-slug",
		"Üñïçôdé":           "d",
		"---":               "",
	} {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("alice-bob"))
	assert.True(t, IsValidSlug("a1"))
	assert.False(t, IsValidSlug("a"))
	assert.False(t, IsValidSlug("Has-Caps"))
	assert.False(t, IsValidSlug("has space"))
	assert.False(t, IsValidSlug(""))
}

func TestRand16BytesToBase62(t *testing.T) {
	a := Rand16BytesToBase62()
	b := Rand16BytesToBase62()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
