package adapthttp

import (
	"fmt"
	"net/http"

	"healthweb/internal/app"
	"healthweb/internal/domain"
	"healthweb/internal/render"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	if ps.Session.IsLoggedIn(r.Context()) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	s.renderPage(w, http.StatusOK, "login", render.LoginPage{Base: s.base(r, ps, "Log in", "login")})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	identifier := r.PostFormValue("identifier")
	if err := s.auth.Login(r.Context(), ps, identifier, r.PostFormValue("password")); err != nil {
		page := render.LoginPage{Base: s.base(r, ps, "Log in", "login"), Identifier: identifier}
		page.Toasts = append(page.Toasts, render.Toast{Level: render.LevelDanger, Message: loginMessage(err)})
		s.renderPage(w, http.StatusUnauthorized, "login", page)
		return
	}
	s.flash(r, render.LevelSuccess, "Welcome back!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func loginMessage(err error) string {
	msg := app.Describe(err)
	if msg == "The request was rejected." {
		return "Login failed. Check your username and password."
	}
	return msg
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	s.renderPage(w, http.StatusOK, "register", render.RegisterPage{Base: s.base(r, ps, "Register", "register")})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	in := domain.RegisterInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		Password: r.PostFormValue("password"),
	}
	var err error
	if in.Password != r.PostFormValue("confirm") {
		err = fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	} else {
		err = s.auth.Register(r.Context(), ps, in)
	}
	if err != nil {
		page := render.RegisterPage{Base: s.base(r, ps, "Register", "register"), Username: in.Username, Email: in.Email, Phone: in.Phone}
		page.Toasts = append(page.Toasts, render.Toast{Level: render.LevelDanger, Message: app.Describe(err)})
		s.renderPage(w, http.StatusBadRequest, "register", page)
		return
	}
	s.flash(r, render.LevelSuccess, "Registration successful. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	if err := s.auth.Logout(r.Context(), ps); err != nil {
		s.fail(w, r, err, "/login")
		return
	}
	s.flash(r, render.LevelInfo, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
