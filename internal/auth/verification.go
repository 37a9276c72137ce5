package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

const verificationTokenBytes = 32

// NewVerificationToken generates a single-use email verification token.
// The plaintext goes to the user; only the hash is persisted, so a stored
// record can never be replayed as a valid link.
func NewVerificationToken() (token, hash string, err error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashVerificationToken(token), nil
}

// HashVerificationToken returns the storage digest of a plaintext token.
func HashVerificationToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerificationTokenMatches compares a plaintext token against a stored
// digest in constant time.
func VerificationTokenMatches(token, storedHash string) bool {
	if token == "" || storedHash == "" {
		return false
	}
	digest := HashVerificationToken(token)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedHash)) == 1
}
