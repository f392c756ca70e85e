package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashImage(t *testing.T) {
	// SHA-256 of an empty payload, the reference vector.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashImage(nil))

	a := HashImage([]byte("same bytes"))
	b := HashImage([]byte("same bytes"))
	assert.Equal(t, a, b, "identical images must hash identically")
	assert.NotEqual(t, a, HashImage([]byte("other bytes")))
	assert.Len(t, a, 64)
}

func TestNormalizeHash(t *testing.T) {
	assert.Equal(t, "abcdef01", NormalizeHash("  ABCDEF01\n"))
	assert.Equal(t, "", NormalizeHash("   "))
}
