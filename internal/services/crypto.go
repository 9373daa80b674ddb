package services

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// shareKeySalt must stay stable or every issued share link stops verifying
var shareKeySalt = []byte("recipe-scaler-share-v1")

// DeriveSigningKey derives a 32-byte HMAC key from the configured secret
// using PBKDF2-SHA256.
func DeriveSigningKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), shareKeySalt, 100000, 32, sha256.New)
}
