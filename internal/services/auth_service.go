package services

import (
	"appliancestore/internal/auth"
)

type AuthService struct {
	Creds auth.Credentials
	Codec *auth.Codec
}

func NewAuthService(creds auth.Credentials, codec *auth.Codec) *AuthService {
	return &AuthService{Creds: creds, Codec: codec}
}

// Login returns a fresh session token or auth.ErrBadCredentials.
func (s *AuthService) Login(username, password string) (string, error) {
	if err := s.Creds.Check(username, password); err != nil {
		return "", err
	}
	return s.Codec.Issue(username), nil
}

func (s *AuthService) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	return s.Codec.Verify(token)
}
