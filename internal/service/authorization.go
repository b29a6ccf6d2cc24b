package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AuthorizationCheck guards the password-gated maintenance operations.
type AuthorizationCheck interface {
	Authorize(password string) error
}

// SharedSecret compares the supplied password with one configured secret.
// The secret may be stored as plain text or as a bcrypt hash.
type SharedSecret struct {
	secret []byte
	hashed bool
}

func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{
		secret: []byte(secret),
		hashed: isBcryptHash(secret),
	}
}

var _ AuthorizationCheck = (*SharedSecret)(nil)

var errBadPassword = fmt.Errorf("%w: invalid maintenance password", ErrUnauthorized)

// Authorize returns ErrUnauthorized unless password matches. An empty
// configured secret rejects everything.
func (s *SharedSecret) Authorize(password string) error {
	if len(s.secret) == 0 {
		return errBadPassword
	}
	if s.hashed {
		if bcrypt.CompareHashAndPassword(s.secret, []byte(password)) != nil {
			return errBadPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare(s.secret, []byte(password)) != 1 {
		return errBadPassword
	}
	return nil
}

func isBcryptHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// HashSecret produces a bcrypt hash suitable for auth.maintenance_secret.
func HashSecret(secret string) (string, error) {
	return hashPassword(secret)
}
