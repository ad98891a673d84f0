package adapthttp

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"healthweb/internal/app"
	"healthweb/internal/domain"
	"healthweb/internal/render"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

// BackendFunc returns the backend bound to a user's token. An empty token
// yields an unauthenticated backend.
type BackendFunc func(token string) domain.Backend

// Options configures a Server.
type Options struct {
	WebDir string

	// HashKey authenticates the session cookie; BlockKey encrypts it.
	HashKey  []byte
	BlockKey []byte
	// OldKeys are earlier hash/block pairs, flattened. Cookies sealed with
	// them still decode and are re-sealed with the current keys on the next
	// write.
	OldKeys      [][]byte
	CookieSecure bool

	// State holds client state server-side. When nil, state is kept in the
	// session cookie.
	State domain.StateRepository

	LegacyKeys bool
	Offline    bool
}

// Server is the driving HTTP adapter that routes browser requests to the
// page controllers.
type Server struct {
	backendFor BackendFunc
	renderer   *render.Renderer
	cookies    *sessions.CookieStore
	state      domain.StateRepository
	webDir     string
	legacyKeys bool
	now        func() time.Time

	auth      *app.AuthService
	dashboard *app.DashboardService
	feed      *app.FeedService
	share     *app.ShareService
	create    *app.CreateShareService
}

// New creates a Server.
func New(auth domain.AuthAPI, backendFor BackendFunc, rdr *render.Renderer, opts Options) *Server {
	keys := append([][]byte{opts.HashKey, opts.BlockKey}, opts.OldKeys...)
	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	inflight := &app.Inflight{}
	return &Server{
		backendFor: backendFor,
		renderer:   rdr,
		cookies:    store,
		state:      opts.State,
		webDir:     opts.WebDir,
		legacyKeys: opts.LegacyKeys,
		now:        time.Now,

		auth:      app.NewAuthService(auth, inflight),
		dashboard: app.NewDashboardService(inflight),
		feed:      app.NewFeedService(inflight, opts.Offline),
		share:     app.NewShareService(inflight, opts.Offline),
		create:    app.NewCreateShareService(inflight),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	root.PathPrefix("/static/").Handler(http.StripPrefix("/static", staticFromDisk(filepath.Join(s.webDir, "static"))))

	pages := root.PathPrefix("/").Subrouter()
	pages.Use(withNoCache, s.withClient, s.guardMiddleware)

	pages.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	pages.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	pages.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	pages.HandleFunc("/register", s.handleRegisterPage).Methods(http.MethodGet)
	pages.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	pages.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet, http.MethodPost)

	pages.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	pages.HandleFunc("/dashboard/records", s.handleCreateRecord).Methods(http.MethodPost)
	pages.HandleFunc("/dashboard/records/{id:[0-9]+}/edit", s.handleEditRecord).Methods(http.MethodGet)
	pages.HandleFunc("/dashboard/records/{id:[0-9]+}", s.handleUpdateRecord).Methods(http.MethodPost)
	pages.HandleFunc("/dashboard/records/{id:[0-9]+}/delete", s.handleDeleteRecord).Methods(http.MethodPost)

	pages.HandleFunc("/social", s.handleFeed).Methods(http.MethodGet)
	pages.HandleFunc("/social/new", s.handleNewShare).Methods(http.MethodGet)
	pages.HandleFunc("/social/share", s.handleCreateShare).Methods(http.MethodPost)
	pages.HandleFunc("/social/share/{id:[0-9]+}", s.handleShare).Methods(http.MethodGet)
	pages.HandleFunc("/social/share/{id:[0-9]+}/like", s.handleToggleLike).Methods(http.MethodPost)
	pages.HandleFunc("/social/share/{id:[0-9]+}/comment", s.handlePostComment).Methods(http.MethodPost)
	pages.HandleFunc("/social/comment/{id:[0-9]+}/delete", s.handleDeleteComment).Methods(http.MethodPost)

	pages.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.New(os.Stderr, "panic: ", log.LstdFlags)),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(s.loggingMiddleware(root))
}
