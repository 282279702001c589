// Package token generates opaque session credentials. Tokens carry no
// claims and are never parsed: the server stores the string on the user
// row and authorizes requests by exact match.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// tokenBytes gives 256 bits of entropy, enough for a session credential
// that is only ever compared, never verified.
const tokenBytes = 32

// New returns a fresh random session token.
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
