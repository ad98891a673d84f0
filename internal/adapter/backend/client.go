// Package backend implements the REST client for the health backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"healthweb/internal/domain"

	"golang.org/x/oauth2"
)

const maxBodyBytes = 4 << 20

// Client calls the backend REST API. A Client returned by WithToken attaches
// the user's bearer token to every request; the zero-token Client is only
// suitable for login and registration.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

var (
	_ domain.Backend = (*Client)(nil)
	_ domain.AuthAPI = (*Client)(nil)
)

// New creates a Client for the backend at baseURL. A non-positive timeout
// disables the per-call deadline. hc may be nil.
func New(baseURL string, timeout time.Duration, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url: unsupported scheme %q", u.Scheme)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{base: u, http: hc, timeout: timeout}, nil
}

// WithToken returns a copy of c that authenticates as the holder of token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	if token == "" {
		return &cp
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.http
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
	cp.http = &hc
	return &cp
}

// StatusError is a non-success reply from the backend. It unwraps to the
// domain error matching its status.
type StatusError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// Detail returns the backend's own explanation, if it gave one.
func (e *StatusError) Detail() string { return e.Message }

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status < 300,
		e.Status == http.StatusBadRequest,
		e.Status == http.StatusConflict,
		e.Status == http.StatusUnprocessableEntity:
		return domain.ErrRejected
	default:
		return domain.ErrUnavailable
	}
}

// envelope holds the fields every backend reply may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s: timed out", domain.ErrUnavailable, method, path)
		}
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", domain.ErrUnavailable, method, path, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Method: method, Path: path, Message: env.text()}
	}
	if env.Success != nil && !*env.Success {
		return &StatusError{Status: resp.StatusCode, Method: method, Path: path, Message: env.text()}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", domain.ErrUnavailable, method, path, err)
	}
	return nil
}
