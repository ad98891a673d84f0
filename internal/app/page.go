package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"healthweb/internal/domain"
)

// PageSession is the per-request state a controller works with.
type PageSession struct {
	ClientID string
	Session  *SessionStore
	Likes    *LikeCache
	API      domain.Backend

	Page   int
	Filter domain.ContentType
	Loaded bool
}

// Check logs the user out when err says the token is no longer accepted, and
// returns err unchanged.
func (ps *PageSession) Check(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		if lerr := ps.Session.Logout(ctx); lerr != nil {
			log.Printf("logout after 401: %v", lerr)
		}
	}
	return err
}

// UserID returns the logged-in user's ID when the profile carries one.
func (ps *PageSession) UserID(ctx context.Context) (int64, bool) {
	u := ps.Session.UserInfo(ctx)
	if u.ID == nil {
		return 0, false
	}
	return *u.ID, true
}

// MessageError attaches a user-facing message to an error.
type MessageError struct {
	Msg string
	Err error
}

func (e *MessageError) Error() string { return e.Msg + ": " + e.Err.Error() }
func (e *MessageError) Unwrap() error { return e.Err }

// Describe returns the message shown to the user for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var me *MessageError
	if errors.As(err, &me) {
		return me.Msg
	}
	var detailed interface{ Detail() string }
	detail := ""
	if errors.As(err, &detailed) {
		detail = detailed.Detail()
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		msg := err.Error()
		if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
			msg = msg[i+len(domain.ErrValidation.Error())+2:]
		}
		return msg
	case errors.Is(err, domain.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, domain.ErrForbidden):
		return "You do not have permission to do that."
	case errors.Is(err, domain.ErrNotFound):
		return "The requested item was not found."
	case errors.Is(err, domain.ErrRejected):
		if detail != "" {
			return detail
		}
		return "The request was rejected."
	case errors.Is(err, domain.ErrUnavailable):
		return "The service is unavailable. Please try again later."
	default:
		return "Something went wrong."
	}
}
