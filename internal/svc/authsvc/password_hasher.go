package authsvc

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordMaxBytes is the longest password bcrypt can digest without truncation.
const PasswordMaxBytes = 72

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	// Hash returns a self-describing digest of password.
	Hash(password string) ([]byte, error)

	// Verify reports whether password matches digest. Malformed digests never match.
	Verify(digest []byte, password string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	Cost int
}

var _ PasswordHasher = BcryptHasher{}

// Hash implements PasswordHasher.Hash.
func (h BcryptHasher) Hash(password string) ([]byte, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: %w", err)
	}

	return digest, nil
}

// Verify implements PasswordHasher.Verify.
// Passwords longer than PasswordMaxBytes never match, since bcrypt ignores the excess.
func (h BcryptHasher) Verify(digest []byte, password string) bool {
	if len(password) > PasswordMaxBytes {
		return false
	}

	return bcrypt.CompareHashAndPassword(digest, []byte(password)) == nil
}
