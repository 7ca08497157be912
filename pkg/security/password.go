package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor stored hashes are derived with.
	DefaultIterations = 390000
	saltLen           = 16
	keyLen            = sha256.Size
)

// ErrInvalidHash signals a malformed "salt:digest" hash string.
var ErrInvalidHash = errors.New("invalid password hash")

// PasswordHasher derives PBKDF2-HMAC-SHA256 hashes encoded as
// base64(salt):base64(digest).
type PasswordHasher struct {
	Iterations int
}

// NewPasswordHasher returns a hasher using DefaultIterations when iterations <= 0.
func NewPasswordHasher(iterations int) PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return PasswordHasher{Iterations: iterations}
}

// Hash returns a freshly salted hash for password.
func (h PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := h.derive(password, salt)
	return base64.StdEncoding.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(digest), nil
}

// Verify re-derives the digest for password and compares in constant time.
func (h PasswordHasher) Verify(password, encoded string) (bool, error) {
	saltPart, digestPart, ok := strings.Cut(encoded, ":")
	if !ok {
		return false, ErrInvalidHash
	}
	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil || len(salt) == 0 {
		return false, ErrInvalidHash
	}
	expected, err := base64.StdEncoding.DecodeString(digestPart)
	if err != nil || len(expected) == 0 {
		return false, ErrInvalidHash
	}

	computed := h.derive(password, salt)
	return subtle.ConstantTimeCompare(expected, computed) == 1, nil
}

func (h PasswordHasher) derive(password string, salt []byte) []byte {
	iterations := h.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
}

// HashPassword hashes with DefaultIterations.
func HashPassword(password string) (string, error) {
	return NewPasswordHasher(DefaultIterations).Hash(password)
}

// VerifyPassword checks password against a hash made with DefaultIterations.
func VerifyPassword(password, encoded string) (bool, error) {
	return NewPasswordHasher(DefaultIterations).Verify(password, encoded)
}
