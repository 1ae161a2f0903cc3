package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("invalid username or password")

// Credentials is the single configured admin account.
type Credentials struct {
	Username string
	// Password is either plain text or a bcrypt hash ("$2a$...", "$2b$...").
	Password string
}

func (c Credentials) hashed() bool { return strings.HasPrefix(c.Password, "$2") }

// Check compares the supplied pair against the configured account.
func (c Credentials) Check(username, password string) error {
	if username == "" || password == "" {
		return ErrBadCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	var passOK bool
	if c.hashed() {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}
	if !userOK || !passOK {
		return ErrBadCredentials
	}
	return nil
}
