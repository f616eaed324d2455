package pkg

import (
	cryptoRand "crypto/rand"
	"encoding/base64"
)

// RandToken returns a URL-safe random token from n bytes of entropy.
// Used for one-time password-reset links.
func RandToken(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	b := make([]byte, n)
	if _, err := cryptoRand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
