package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMagicToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateMagicToken()
		require.NoError(t, err)

		// 32 bytes of entropy, unpadded base64url.
		assert.Len(t, token, 43)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")

		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestAllowedDomain(t *testing.T) {
	domains := []string{"@edu.uni.pl", "@pw.edu.pl"}

	assert.True(t, AllowedDomain("jan.kowalski@edu.uni.pl", domains))
	assert.True(t, AllowedDomain("Jan.Kowalski@EDU.UNI.PL", domains), "matching is case-insensitive")
	assert.True(t, AllowedDomain("anna@pw.edu.pl", domains))

	assert.False(t, AllowedDomain("jan@gmail.com", domains))
	assert.False(t, AllowedDomain("jan@edu.uni.pl.evil.com", domains))
	assert.False(t, AllowedDomain("", domains))
	assert.False(t, AllowedDomain("jan@edu.uni.pl", nil))
}
