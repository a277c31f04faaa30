package model

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a fresh 24-character lowercase hex identifier (12 random
// bytes). All primary keys in the schema use this shape, which is also what
// the identifier resolver recognizes as a direct primary-key lookup.
func NewID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; there is no
		// reasonable recovery for an id we cannot generate.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// uidAlphabet is the character set for public UID codes.
const uidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewUIDCode returns a random 8-character uppercase-alphanumeric code.
// Uniqueness is enforced by the database; callers retry on collision.
func NewUIDCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, 8)
	for i, b := range buf {
		out[i] = uidAlphabet[int(b)%len(uidAlphabet)]
	}
	return string(out)
}
