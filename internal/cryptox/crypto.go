// Package cryptox holds hashing helpers for secrets the server must be able
// to recognise but never store in clear.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// MakeVerifier returns the SHA-256 digest of secret.
func MakeVerifier(secret []byte) []byte {
	hash := sha256.Sum256(secret)
	return hash[:]
}

// TokenDigest is the hex form of MakeVerifier, used as the storage key of
// refresh tokens.
func TokenDigest(token string) string {
	return hex.EncodeToString(MakeVerifier([]byte(token)))
}

// VerifyToken reports whether token hashes to digest. The comparison is
// constant time.
func VerifyToken(token, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(TokenDigest(token)), []byte(digest)) == 1
}
