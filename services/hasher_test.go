package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	d1, err := h.Hash("pw1")
	require.NoError(t, err)
	d2, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2, "each hash should carry its own salt")
	assert.True(t, h.Verify("pw1", d1))
	assert.True(t, h.Verify("pw1", d2))
	assert.False(t, h.Verify("pw2", d1))
}

func TestHasherTruncatesLongPasswordsConsistently(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 100)

	digest, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Verify(long, digest))

	// only the first 72 bytes count
	assert.True(t, h.Verify(strings.Repeat("a", MaxPasswordBytes)+"different tail", digest))
	assert.False(t, h.Verify(strings.Repeat("a", MaxPasswordBytes-1), digest))
}

func TestHasherTruncatesOnByteBoundary(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	// 36 two-byte runes is exactly 72 bytes
	multi := strings.Repeat("é", 36)

	digest, err := h.Hash(multi + "xyz")
	require.NoError(t, err)
	assert.True(t, h.Verify(multi, digest))
}

func TestHasherMalformedDigestIsMismatch(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	for _, digest := range []string{"", "not-a-hash", "$2b$10$short"} {
		assert.False(t, h.Verify("pw1", digest), "digest %q", digest)
	}
}

func TestHasherClampsInvalidCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
}
