package backend

import (
	"context"
	"fmt"
	"net/http"

	"healthweb/internal/domain"
)

// Login exchanges credentials for a backend token. identifier may be a
// username, an email address or a phone number.
func (c *Client) Login(ctx context.Context, identifier, password string) (*domain.Session, error) {
	var resp struct {
		Token string          `json:"token"`
		User  domain.UserInfo `json:"user"`
	}
	body := map[string]string{"identifier": identifier, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &StatusError{Status: http.StatusOK, Method: http.MethodPost, Path: "/api/auth/login", Message: "no token in login response"}
	}
	if resp.User.Username == "" {
		resp.User.Username = identifier
	}
	return &domain.Session{Token: resp.Token, User: resp.User}, nil
}

// Register creates a backend account.
func (c *Client) Register(ctx context.Context, in domain.RegisterInput) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}
