// Package token mints opaque consent tokens and derives safe store keys from
// cookie values. A token is a lookup key, not a signed claim: it reveals
// nothing about the payload it points at.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// keyPrefix namespaces gate tokens in the shared store.
const keyPrefix = "gate:token:"

// Mint creates a cryptographically random token identifier. 32 bytes of
// entropy comfortably clears the 120-bit guessing-resistance target for the
// token's TTL window.
func Mint() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return "t_" + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Key derives the store key for a token. The cookie value is attacker
// controlled, so anything outside the token alphabet is stripped before it
// can reach the store as part of a key.
func Key(tok string) string {
	return keyPrefix + sanitize(tok)
}

func sanitize(tok string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, tok)
}
