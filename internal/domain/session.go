// Package domain contains the transport entities and ports shared by the
// presentation tier.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// UserInfo is the cached profile of the logged-in user.
// ID is nil when no profile is stored.
type UserInfo struct {
	ID       *int64 `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Session is the result of a successful backend login.
type Session struct {
	Token string
	User  UserInfo
}

// Storage is a per-browser persistent key/value store: the server-side
// equivalent of the browser's local storage.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// StateRepository is the port for server-side client state, keyed by a
// per-browser client ID.
type StateRepository interface {
	GetState(ctx context.Context, clientID, key string) (string, bool, error)
	PutState(ctx context.Context, clientID, key, value string) error
	DeleteState(ctx context.Context, clientID, key string) error
	PurgeStateBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// Validate checks the input before it is sent. At least one identifier is
// required.
func (in *RegisterInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Username == "" && in.Email == "" && in.Phone == "" {
		return fmt.Errorf("%w: enter a username, email or phone number", ErrValidation)
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// AuthAPI is the port for the backend's login and registration endpoints.
// It is used before a token exists.
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (*Session, error)
	Register(ctx context.Context, in RegisterInput) error
}
