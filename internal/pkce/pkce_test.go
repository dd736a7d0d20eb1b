package pkce

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"testing"
)

var base64URLAlphabet = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateVerifier(t *testing.T) {
	t.Run("uses the base64url alphabet without padding", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			v, err := GenerateVerifier()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !base64URLAlphabet.MatchString(v) {
				t.Fatalf("verifier %q contains characters outside the base64url alphabet", v)
			}

			if strings.ContainsAny(v, "+/=") {
				t.Fatalf("verifier %q contains +, / or =", v)
			}

			if len(v) < 43 {
				t.Fatalf("expected at least 43 characters, got %d", len(v))
			}
		}
	})

	t.Run("decodes back to 32 bytes", func(t *testing.T) {
		v, err := GenerateVerifier()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		raw, err := base64.RawURLEncoding.DecodeString(v)
		if err != nil {
			t.Fatalf("verifier should decode: %v", err)
		}
		if len(raw) != VerifierSize {
			t.Errorf("expected %d bytes, got %d", VerifierSize, len(raw))
		}
	})

	t.Run("produces distinct values", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			v, err := GenerateVerifier()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if seen[v] {
				t.Fatalf("duplicate verifier %q", v)
			}
			seen[v] = true
		}
	})

	t.Run("random source failure", func(t *testing.T) {
		orig := randRead
		defer func() { randRead = orig }()
		randRead = func(b []byte) (int, error) { return 0, errors.New("entropy exhausted") }

		if _, err := GenerateVerifier(); err == nil {
			t.Error("expected error when the random source fails")
		}
		if _, err := New(); err == nil {
			t.Error("expected New to propagate the error")
		}
	})
}

func TestChallenge(t *testing.T) {
	t.Run("RFC 7636 appendix B vector", func(t *testing.T) {
		got := Challenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
		want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuJWZp6ilY8"
		if got != want {
			t.Errorf("Challenge() = %s, want %s", got, want)
		}
	})

	t.Run("matches a hand computed digest", func(t *testing.T) {
		verifier := "a-known-verifier_value"
		sum := sha256.Sum256([]byte(verifier))
		want := strings.TrimRight(base64.URLEncoding.EncodeToString(sum[:]), "=")

		if got := Challenge(verifier); got != want {
			t.Errorf("Challenge() = %s, want %s", got, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		v, _ := GenerateVerifier()
		if Challenge(v) != Challenge(v) {
			t.Error("expected identical challenges for the same verifier")
		}
	})

	t.Run("differs across verifiers", func(t *testing.T) {
		a, _ := GenerateVerifier()
		b, _ := GenerateVerifier()
		if Challenge(a) == Challenge(b) {
			t.Error("expected different challenges for different verifiers")
		}
	})
}

func TestNew(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if p.Method != MethodS256 {
		t.Errorf("expected method S256, got %s", p.Method)
	}
	if p.Challenge != Challenge(p.Verifier) {
		t.Error("challenge should be derived from the verifier")
	}
	if len(p.Challenge) != 43 {
		t.Errorf("expected 43 character challenge, got %d", len(p.Challenge))
	}
}
