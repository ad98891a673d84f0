// Package app holds the page controllers and the client-side state they keep
// for each browser.
package app

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"healthweb/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// Storage keys.
const (
	KeyToken      = "jwt_token"
	KeyUserInfo   = "user_info"
	KeyLikedShare = "liked_shares"

	legacyKeyToken = "token"
	legacyKeyUser  = "user"
)

// SessionStore keeps the backend token and the cached profile of the
// logged-in user in a browser's Storage.
type SessionStore struct {
	store  domain.Storage
	legacy bool
}

// NewSessionStore wraps store. When legacyKeys is set, the older token and
// user keys are read if the current ones are absent.
func NewSessionStore(store domain.Storage, legacyKeys bool) *SessionStore {
	return &SessionStore{store: store, legacy: legacyKeys}
}

func (s *SessionStore) get(ctx context.Context, key, legacyKey string) string {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("session: read %s: %v", key, err)
		return ""
	}
	if ok || !s.legacy {
		return v
	}
	v, _, err = s.store.Get(ctx, legacyKey)
	if err != nil {
		log.Printf("session: read %s: %v", legacyKey, err)
		return ""
	}
	return v
}

// Token returns the stored backend token, or "" when logged out.
func (s *SessionStore) Token(ctx context.Context) string {
	return s.get(ctx, KeyToken, legacyKeyToken)
}

// IsLoggedIn reports whether a token is stored.
func (s *SessionStore) IsLoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// UserInfo returns the cached profile. The zero value, with a nil ID, is
// returned when nothing usable is stored.
func (s *SessionStore) UserInfo(ctx context.Context) domain.UserInfo {
	raw := s.get(ctx, KeyUserInfo, legacyKeyUser)
	var u domain.UserInfo
	if raw == "" {
		return u
	}
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domain.UserInfo{}
	}
	return u
}

// SaveLogin stores the token and profile from a successful login.
func (s *SessionStore) SaveLogin(ctx context.Context, sess *domain.Session) error {
	b, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyToken, sess.Token); err != nil {
		return err
	}
	return s.store.Set(ctx, KeyUserInfo, string(b))
}

// Logout removes the token and profile under both the current and the
// legacy keys.
func (s *SessionStore) Logout(ctx context.Context) error {
	var first error
	for _, k := range []string{KeyToken, KeyUserInfo, legacyKeyToken, legacyKeyUser} {
		if err := s.store.Remove(ctx, k); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Expired reports whether the stored token is a JWT whose exp claim lies
// before now. The signature is not checked; opaque tokens never expire here.
func (s *SessionStore) Expired(ctx context.Context, now time.Time) bool {
	return TokenExpired(s.Token(ctx), now)
}

// TokenExpired reports whether tok is a JWT that expired before now.
func TokenExpired(tok string, now time.Time) bool {
	if strings.Count(tok, ".") != 2 {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}

var publicPaths = map[string]bool{
	"/":         true,
	"/login":    true,
	"/register": true,
	"/healthz":  true,
}

// Guard decides whether a request for path must be redirected. It returns
// the redirect target, or "" to let the request through.
func Guard(path string, loggedIn bool) string {
	if loggedIn {
		if path == "/login" || path == "/register" {
			return "/dashboard"
		}
		return ""
	}
	if publicPaths[path] || strings.HasPrefix(path, "/static/") {
		return ""
	}
	return "/login"
}
