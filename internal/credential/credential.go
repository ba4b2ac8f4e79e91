// Package credential derives and verifies salted password hashes
// (PBKDF2-HMAC-SHA256, hex-encoded).
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Iterations = 200_000
	SaltBytes  = 16
	KeyBytes   = 32
)

// HashPassword draws a random salt from crypto/rand and returns the hex
// digest and hex salt.
func HashPassword(plaintext string) (hash, salt string, err error) {
	raw := make([]byte, SaltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(derive(plaintext, raw)), hex.EncodeToString(raw), nil
}

// VerifyPassword re-derives with the stored salt and compares in constant
// time. A malformed stored hash or salt is a verification failure.
func VerifyPassword(plaintext, hash, salt string) bool {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil || len(rawSalt) == 0 {
		return false
	}
	want, err := hex.DecodeString(hash)
	if err != nil || len(want) != KeyBytes {
		return false
	}
	return subtle.ConstantTimeCompare(derive(plaintext, rawSalt), want) == 1
}

var (
	dummyOnce sync.Once
	dummyHash string
	dummySalt string
)

// VerifyDummy runs one full verification against a throwaway credential.
// Calling it when a username isn't found keeps login time constant, which
// prevents timing-based username enumeration.
func VerifyDummy(plaintext string) {
	dummyOnce.Do(func() {
		dummyHash, dummySalt, _ = HashPassword("dummy")
	})
	VerifyPassword(plaintext, dummyHash, dummySalt)
}

func derive(plaintext string, salt []byte) []byte {
	return pbkdf2.Key([]byte(plaintext), salt, Iterations, KeyBytes, sha256.New)
}
