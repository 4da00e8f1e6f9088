package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	verifierLength  = 128
	verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var randRead = rand.Read

// GenerateVerifier produces a random 128-character PKCE code verifier
// drawn from the unreserved character set.
func GenerateVerifier() (string, error) {
	buf := make([]byte, verifierLength)
	if _, err := randRead(buf); err != nil {
		return "", fmt.Errorf("failed to generate verifier: %w", err)
	}

	out := make([]byte, verifierLength)
	for i, b := range buf {
		out[i] = verifierCharset[int(b)%len(verifierCharset)]
	}
	return string(out), nil
}

// Challenge derives the S256 code challenge for a verifier: the
// URL-safe base64 encoding of its SHA-256 digest, without padding.
func Challenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
