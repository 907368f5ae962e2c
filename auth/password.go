package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Password verifies the shared admin secret. A bcrypt hash takes precedence
// over the plain value; with neither configured nobody can log in.
type Password struct {
	plain string
	hash  []byte
}

func NewPassword(plain, bcryptHash string) *Password {
	p := &Password{plain: plain}
	if bcryptHash != "" {
		p.hash = []byte(bcryptHash)
	}
	return p
}

// Configured reports whether any admin secret is set.
func (p *Password) Configured() bool {
	return len(p.hash) > 0 || p.plain != ""
}

// Verify compares candidate with the configured secret.
func (p *Password) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}
	if len(p.hash) > 0 {
		return bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)) == nil
	}
	if p.plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(p.plain)) == 1
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
