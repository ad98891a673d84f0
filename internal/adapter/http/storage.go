package adapthttp

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"healthweb/internal/domain"
	"healthweb/internal/render"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cookieName  = "healthweb"
	clientIDKey = "cid"
	stateKey    = "s:"
	flashSep    = "\x1f"
)

type contextKey string

const clientContextKey contextKey = "client"

// clientState is the per-request view of one browser: its cookie session,
// client ID and Storage.
type clientState struct {
	sess    *sessions.Session
	id      string
	storage domain.Storage

	mu    sync.Mutex
	dirty bool
	saved bool
}

func (c *clientState) markDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// flush writes the cookie if anything changed. Only the first call after a
// change has an effect once headers are out.
func (c *clientState) flush(r *http.Request, w http.ResponseWriter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty || c.saved {
		return
	}
	c.saved = true
	if err := c.sess.Save(r, w); err != nil {
		log.Printf("session: save: %v", err)
	}
}

func (c *clientState) addFlash(level, msg string) {
	c.sess.AddFlash(level + flashSep + msg)
	c.markDirty()
}

func (c *clientState) popFlashes() []render.Toast {
	raw := c.sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	c.markDirty()
	out := make([]render.Toast, 0, len(raw))
	for _, f := range raw {
		s, ok := f.(string)
		if !ok {
			continue
		}
		level, msg, found := strings.Cut(s, flashSep)
		if !found {
			level, msg = render.LevelInfo, s
		}
		out = append(out, render.Toast{Level: level, Message: msg})
	}
	return out
}

func clientFrom(ctx context.Context) *clientState {
	c, _ := ctx.Value(clientContextKey).(*clientState)
	return c
}

// cookieStorage keeps client state inside the signed session cookie.
type cookieStorage struct {
	c *clientState
}

func (s cookieStorage) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.c.sess.Values[stateKey+key].(string)
	return v, ok, nil
}

func (s cookieStorage) Set(_ context.Context, key, value string) error {
	if cur, ok := s.c.sess.Values[stateKey+key].(string); ok && cur == value {
		return nil
	}
	s.c.sess.Values[stateKey+key] = value
	s.c.markDirty()
	return nil
}

func (s cookieStorage) Remove(_ context.Context, key string) error {
	if _, ok := s.c.sess.Values[stateKey+key]; !ok {
		return nil
	}
	delete(s.c.sess.Values, stateKey+key)
	s.c.markDirty()
	return nil
}

// repoStorage keeps client state in a StateRepository under the client ID.
type repoStorage struct {
	repo     domain.StateRepository
	clientID string
}

func (s repoStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return s.repo.GetState(ctx, s.clientID, key)
}

func (s repoStorage) Set(ctx context.Context, key, value string) error {
	return s.repo.PutState(ctx, s.clientID, key, value)
}

func (s repoStorage) Remove(ctx context.Context, key string) error {
	return s.repo.DeleteState(ctx, s.clientID, key)
}

// withClient loads the browser's session cookie, assigns a client ID on
// first visit and makes the client state available to handlers. The cookie
// is written just before the response headers.
func (s *Server) withClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.cookies.Get(r, cookieName)
		if err != nil {
			log.Printf("session: discarding unreadable cookie: %v", err)
		}
		c := &clientState{sess: sess}
		c.id, _ = sess.Values[clientIDKey].(string)
		if c.id == "" {
			c.id = uuid.NewString()
			sess.Values[clientIDKey] = c.id
			c.dirty = true
		}
		if s.state != nil {
			c.storage = repoStorage{repo: s.state, clientID: c.id}
		} else {
			c.storage = cookieStorage{c: c}
		}

		raw := w
		hooked := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					c.flush(r, raw)
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					c.flush(r, raw)
					return next(b)
				}
			},
		})

		ctx := context.WithValue(r.Context(), clientContextKey, c)
		next.ServeHTTP(hooked, r.WithContext(ctx))
		c.flush(r, raw)
	})
}
