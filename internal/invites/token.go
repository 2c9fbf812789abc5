package invites

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateInviteToken returns a URL-safe invitation code with 16 bytes of
// entropy.
func GenerateInviteToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
