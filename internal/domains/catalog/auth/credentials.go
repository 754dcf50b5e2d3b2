package auth

import (
	"fmt"

	"catalog-backend/internal/domains/catalog/model"

	"golang.org/x/crypto/bcrypt"
)

// CredentialChecker validates a login password for a user.
// u is nil when the username is unknown; implementations must still spend
// comparable time so the two failure cases cannot be told apart.
type CredentialChecker interface {
	Check(u *model.User, password string) bool
}

// SharedSecretChecker accepts one configured password for every user.
// It is a placeholder credential store, not a production one.
type SharedSecretChecker struct {
	hash []byte
}

// NewSharedSecretChecker hashes secret once at startup
func NewSharedSecretChecker(secret string) (*SharedSecretChecker, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash shared secret: %w", err)
	}
	return &SharedSecretChecker{hash: hash}, nil
}

func (c *SharedSecretChecker) Check(u *model.User, password string) bool {
	// Always compare so unknown users cost the same as wrong passwords.
	ok := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return ok && u != nil
}
