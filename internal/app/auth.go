package app

import (
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator gates the admin role.
type Authenticator interface {
	Authenticate(username, password string) (domain.Role, error)
}

// StaticAuthenticator checks a single fixed credential pair against a bcrypt
// hash. It is not a security boundary.
type StaticAuthenticator struct {
	username string
	hash     []byte
}

// NewStaticAuthenticator hashes the configured password up front so the
// plaintext is not kept around.
func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticAuthenticator{username: username, hash: hash}, nil
}

// Authenticate returns RoleAdmin on a match and ErrBadCredentials otherwise.
func (a *StaticAuthenticator) Authenticate(username, password string) (domain.Role, error) {
	if username != a.username {
		return domain.RoleStudent, domain.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return domain.RoleStudent, domain.ErrBadCredentials
	}
	return domain.RoleAdmin, nil
}
