package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidSession is returned for tokens that fail signature or shape checks.
	ErrInvalidSession = errors.New("invalid session token")
	// ErrExpiredSession is returned for well-signed tokens past their expiry.
	ErrExpiredSession = errors.New("session expired")
)

// Signer appends and checks an HMAC-SHA256 signature: value + "." + base64url(mac).
type Signer struct {
	secret []byte
}

// NewSigner builds a signer for the given secret.
func NewSigner(secret string) (Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return Signer{}, fmt.Errorf("session secret is required")
	}
	return Signer{secret: []byte(secret)}, nil
}

// Sign returns value with its unpadded base64url signature appended.
func (s Signer) Sign(value string) string {
	return value + "." + s.mac(value)
}

// Unsign returns the original value when token carries a valid signature.
func (s Signer) Unsign(token string) (string, error) {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return "", ErrInvalidSession
	}
	value, sig := token[:idx], token[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(value))) {
		return "", ErrInvalidSession
	}
	return value, nil
}

func (s Signer) mac(value string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}

// SessionCodec issues signed tokens that carry a username and an expiry.
type SessionCodec struct {
	signer Signer
	ttl    time.Duration
}

// NewSessionCodec builds a codec; ttl must be positive.
func NewSessionCodec(secret string, ttl time.Duration) (*SessionCodec, error) {
	signer, err := NewSigner(secret)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionCodec{signer: signer, ttl: ttl}, nil
}

// TTL returns the configured session lifetime.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Issue returns a token for username valid until now+ttl.
func (c *SessionCodec) Issue(username string, now time.Time) string {
	exp := now.Add(c.ttl).Unix()
	return c.signer.Sign(username + "|" + strconv.FormatInt(exp, 10))
}

// Parse validates token and returns the username it was issued for.
func (c *SessionCodec) Parse(token string, now time.Time) (string, error) {
	value, err := c.signer.Unsign(token)
	if err != nil {
		return "", err
	}
	idx := strings.LastIndex(value, "|")
	if idx <= 0 {
		return "", ErrInvalidSession
	}
	exp, err := strconv.ParseInt(value[idx+1:], 10, 64)
	if err != nil {
		return "", ErrInvalidSession
	}
	if now.Unix() >= exp {
		return "", ErrExpiredSession
	}
	return value[:idx], nil
}
