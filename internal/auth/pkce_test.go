package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateVerifier(t *testing.T) {
	t.Run("length and charset", func(t *testing.T) {
		verifier, err := GenerateVerifier()
		if err != nil {
			t.Fatalf("failed to generate verifier: %v", err)
		}

		if len(verifier) != 128 {
			t.Errorf("expected 128 characters, got %d", len(verifier))
		}

		for _, r := range verifier {
			if !strings.ContainsRune(verifierCharset, r) {
				t.Errorf("verifier contains invalid character %q", r)
			}
		}
	})

	t.Run("distinct values", func(t *testing.T) {
		a, _ := GenerateVerifier()
		b, _ := GenerateVerifier()
		if a == b {
			t.Error("expected distinct verifiers")
		}
	})

	t.Run("rand failure", func(t *testing.T) {
		orig := randRead
		randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
		defer func() { randRead = orig }()

		if _, err := GenerateVerifier(); err == nil {
			t.Error("expected error when randomness fails")
		}
	})
}

func TestChallenge(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		if Challenge("verifier") != Challenge("verifier") {
			t.Error("expected identical challenges for identical verifiers")
		}
	})

	t.Run("distinct for distinct verifiers", func(t *testing.T) {
		if Challenge("a") == Challenge("b") {
			t.Error("expected distinct challenges")
		}
	})

	t.Run("url safe without padding", func(t *testing.T) {
		c := Challenge("some-long-verifier-value-used-for-testing")
		if strings.ContainsAny(c, "+/=") {
			t.Errorf("challenge is not URL safe: %s", c)
		}
		if len(c) != 43 {
			t.Errorf("expected 43 characters for an unpadded sha256 digest, got %d", len(c))
		}
	})

	t.Run("known vector", func(t *testing.T) {
		// RFC 7636 appendix B.
		verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
		if got := Challenge(verifier); got != want {
			t.Errorf("Challenge() = %s, want %s", got, want)
		}
	})
}
