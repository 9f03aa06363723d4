package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewInviteToken generates an invitation token with 256 bits of
// cryptographic entropy, encoded URL-safe without padding. The token is the
// invitation's lookup key and must be unguessable.
func NewInviteToken() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
