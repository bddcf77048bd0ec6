package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateResetToken(t *testing.T) {
	plaintext, digest, err := GenerateResetToken()
	assert.NoError(t, err)
	assert.Len(t, plaintext, resetTokenBytes*2) // hex encoded
	assert.NotEqual(t, plaintext, digest)

	// The stored digest must be recomputable from the plaintext.
	assert.Equal(t, digest, HashResetToken(plaintext))
}

func TestGenerateResetToken_Unique(t *testing.T) {
	first, _, err := GenerateResetToken()
	assert.NoError(t, err)
	second, _, err := GenerateResetToken()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
	assert.Len(t, HashResetToken("abc"), 64) // hex sha256
}
