// Package security holds the credential hashing and token signing primitives
// used by the auth services. Both are pure and hold no mutable state beyond
// configuration fixed at construction time.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed at compile time. The cost is embedded in every digest,
// so digests produced under an older cost remain verifiable.
const bcryptCost = bcrypt.DefaultCost

// maxPasswordBytes is bcrypt's hard input limit; longer plaintexts are
// truncated rather than rejected.
const maxPasswordBytes = 72

// BcryptHasher hashes and verifies passwords with bcrypt. Each Hash call
// draws a fresh random salt, so identical inputs yield distinct digests.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash returns a self-describing digest (algorithm, cost, and salt embedded).
// Empty strings and arbitrary Unicode are valid input.
func (BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(passwordBytes(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. It returns false for
// any mismatch, including malformed digests; it never panics or errors.
func (BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), passwordBytes(plaintext)) == nil
}

func passwordBytes(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
