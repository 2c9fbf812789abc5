package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// GenerateMagicToken returns a URL-safe magic-link token with 32 bytes of
// entropy.
func GenerateMagicToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AllowedDomain reports whether the email ends with one of the allowed
// domain suffixes. Matching is case-insensitive.
func AllowedDomain(email string, domains []string) bool {
	lower := strings.ToLower(email)
	for _, d := range domains {
		if strings.HasSuffix(lower, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
