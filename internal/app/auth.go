package app

import (
	"context"
	"fmt"
	"strings"

	"healthweb/internal/domain"
)

// AuthService forwards credentials to the backend and keeps the issued token.
type AuthService struct {
	api      domain.AuthAPI
	inflight *Inflight
}

// NewAuthService creates an AuthService.
func NewAuthService(api domain.AuthAPI, inflight *Inflight) *AuthService {
	return &AuthService{api: api, inflight: inflight}
}

// Login authenticates against the backend and stores the session.
func (s *AuthService) Login(ctx context.Context, ps *PageSession, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return fmt.Errorf("%w: enter your username and password", domain.ErrValidation)
	}
	return s.inflight.Do(ps.ClientID, "login", identifier, func() error {
		sess, err := s.api.Login(ctx, identifier, password)
		if err != nil {
			return err
		}
		return ps.Session.SaveLogin(ctx, sess)
	})
}

// Register creates an account. The user logs in afterwards.
func (s *AuthService) Register(ctx context.Context, ps *PageSession, in domain.RegisterInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return s.inflight.Do(ps.ClientID, "register", in.Username+in.Email+in.Phone, func() error {
		return s.api.Register(ctx, in)
	})
}

// Logout clears the stored session.
func (s *AuthService) Logout(ctx context.Context, ps *PageSession) error {
	return ps.Session.Logout(ctx)
}
