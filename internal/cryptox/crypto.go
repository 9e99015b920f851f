// Package cryptox holds the password hashing used by the credential store:
// random salts, argon2id verifiers and their constant-time comparison.
package cryptox

import (
	"crypto/subtle"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length in bytes of every stored salt.
const SaltSize = 16

// argon2id parameters. Changing any of them invalidates stored verifiers.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt of SaltSize bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// DeriveVerifier derives the stored verifier for password under salt.
// The same inputs always produce the same output.
func DeriveVerifier(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifierMatches reports whether candidate equals stored without
// short-circuiting on the first differing byte.
func VerifierMatches(stored, candidate []byte) bool {
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}
