package adapthttp

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"healthweb/internal/app"
	"healthweb/internal/domain"
	"healthweb/internal/render"
)

// pageSession builds the controller state for the request's browser.
func (s *Server) pageSession(r *http.Request) *app.PageSession {
	c := clientFrom(r.Context())
	ss := app.NewSessionStore(c.storage, s.legacyKeys)
	return &app.PageSession{
		ClientID: c.id,
		Session:  ss,
		Likes:    app.NewLikeCache(c.storage),
		API:      s.backendFor(ss.Token(r.Context())),
	}
}

func (s *Server) base(r *http.Request, ps *app.PageSession, title, active string) render.Base {
	ctx := r.Context()
	return render.Base{
		Title:    title,
		Active:   active,
		LoggedIn: ps.Session.IsLoggedIn(ctx),
		User:     ps.Session.UserInfo(ctx),
		Toasts:   clientFrom(ctx).popFlashes(),
	}
}

func (s *Server) flash(r *http.Request, level, msg string) {
	clientFrom(r.Context()).addFlash(level, msg)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, page, data); err != nil {
		log.Printf("render %s: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// fail reports err to the user. Unauthorized errors end at the login page,
// everything else returns to back with a toast.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, domain.ErrUnauthorized) {
		s.flash(r, render.LevelWarning, app.Describe(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !errors.Is(err, domain.ErrValidation) {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	s.flash(r, render.LevelDanger, app.Describe(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// statusFor is the HTTP status a JSON reply uses for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrRejected):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusNotFound, "error", render.ErrorPage{
		Base:    render.Base{Title: "Not found"},
		Message: "The page you are looking for does not exist.",
		Back:    "/",
	})
}
