package adapthttp

import (
	"log"
	"net/http"
	"time"

	"healthweb/internal/app"
	"healthweb/internal/render"

	"github.com/felixge/httpsnoop"
)

// loggingMiddleware logs method, path, status and duration of every request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, m.Code, m.Duration.Round(time.Microsecond))
	})
}

// guardMiddleware clears expired tokens and redirects requests the current
// login state may not make.
func (s *Server) guardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c := clientFrom(ctx)
		ss := app.NewSessionStore(c.storage, s.legacyKeys)
		if ss.IsLoggedIn(ctx) && ss.Expired(ctx, s.now()) {
			if err := ss.Logout(ctx); err != nil {
				log.Printf("guard: clear expired session: %v", err)
			}
			c.addFlash(render.LevelWarning, "Your session has expired. Please log in again.")
		}

		target := app.Guard(r.URL.Path, ss.IsLoggedIn(ctx))
		if target == "" {
			next.ServeHTTP(w, r)
			return
		}
		if target == "/login" && wantsJSON(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "authentication required", "redirect": target})
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}
