package domain

import "errors"

var (
	// ErrUnauthorized indicates that the backend rejected the bearer token.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden indicates that the user may not access the resource.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound indicates that the resource does not exist or was deleted.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates that input was rejected before any request was sent.
	ErrValidation = errors.New("invalid input")
	// ErrRejected indicates that the backend refused the request as invalid.
	ErrRejected = errors.New("request rejected")
	// ErrUnavailable indicates a transport failure, timeout or server error.
	ErrUnavailable = errors.New("backend unavailable")
)
