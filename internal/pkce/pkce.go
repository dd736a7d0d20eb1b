// Package pkce generates Proof Key for Code Exchange (RFC 7636) verifier and challenge pairs.
//
// Verifiers are 32 bytes read from [crypto/rand] and encoded with the base64url alphabet without
// padding, which always yields 43 characters. Challenges use the S256 method only.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// MethodS256 is the only challenge method sent to the authorization server.
const MethodS256 = "S256"

// VerifierSize is the number of random bytes behind each verifier.
const VerifierSize = 32

var randRead = rand.Read

// Pair holds a verifier and the challenge derived from it.
type Pair struct {
	Verifier  string `json:"verifier"`
	Challenge string `json:"challenge"`
	Method    string `json:"method"`
}

// GenerateVerifier returns a new base64url encoded verifier backed by [VerifierSize] random bytes.
func GenerateVerifier() (string, error) {
	buf := make([]byte, VerifierSize)
	if _, err := randRead(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Challenge computes BASE64URL(SHA256(verifier)).
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// New generates a fresh [Pair].
func New() (*Pair, error) {
	verifier, err := GenerateVerifier()
	if err != nil {
		return nil, err
	}
	return &Pair{
		Verifier:  verifier,
		Challenge: Challenge(verifier),
		Method:    MethodS256,
	}, nil
}
