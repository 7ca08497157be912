package security_test

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"

	"github.com/angelmondragon/retail-admin-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	salt, digest, ok := strings.Cut(hash, ":")
	if !ok {
		t.Fatalf("expected salt:digest format, got %q", hash)
	}
	if raw, _ := base64.StdEncoding.DecodeString(salt); len(raw) != 16 {
		t.Fatalf("expected 16 byte salt, got %d", len(raw))
	}
	if raw, _ := base64.StdEncoding.DecodeString(digest); len(raw) != sha256.Size {
		t.Fatalf("expected %d byte digest, got %d", sha256.Size, len(raw))
	}

	ok, err = security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyMatchesIndependentDerivation(t *testing.T) {
	salt := []byte("0123456789abcdef")
	digest := pbkdf2.Key([]byte("secret"), salt, security.DefaultIterations, sha256.Size, sha256.New)
	encoded := base64.StdEncoding.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(digest)

	ok, err := security.VerifyPassword("secret", encoded)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestPasswordRoundTripManyInputs(t *testing.T) {
	hasher := security.NewPasswordHasher(1000)
	inputs := []string{"", "a", "hunter2", "пароль", "with:colon", strings.Repeat("x", 128)}
	for _, p := range inputs {
		hash, err := hasher.Hash(p)
		if err != nil {
			t.Fatalf("Hash(%q): %v", p, err)
		}
		for _, other := range inputs {
			ok, err := hasher.Verify(other, hash)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if ok != (other == p) {
				t.Fatalf("Verify(%q, hash(%q)) = %v", other, p, ok)
			}
		}
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher := security.NewPasswordHasher(1000)
	a, _ := hasher.Hash("same")
	b, _ := hasher.Hash("same")
	if a == b {
		t.Fatal("expected distinct salts per hash")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, bad := range []string{"not-a-hash", "!!!:abc", "YWJj:", ":YWJj"} {
		if _, err := security.VerifyPassword("irrelevant", bad); err == nil {
			t.Fatalf("expected error for malformed hash %q", bad)
		}
	}
	if _, err := security.HashPassword(""); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
}
