package adapthttp

import (
	"errors"
	"net/http"

	"healthweb/internal/app"
	"healthweb/internal/domain"
	"healthweb/internal/render"
)

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, ps *app.PageSession, data *app.DashboardData, loadErr error) {
	page := render.DashboardPage{
		Base: s.base(r, ps, "Dashboard", "dashboard"),
		Form: render.NewRecordForm(s.now()),
	}
	if loadErr != nil {
		page.Toasts = append(page.Toasts, render.Toast{Level: render.LevelDanger, Message: app.Describe(loadErr)})
	}
	var recs []domain.HealthRecord
	if data != nil {
		recs = data.Records
		if data.Editing != nil {
			page.Form = render.FormFromRecord(data.Editing)
			page.Editing = true
		}
	}
	page.Rows = render.RecordRows(recs)
	page.Charts = render.BuildCharts(recs)
	page.Cards = render.Summary(recs)
	s.renderPage(w, http.StatusOK, "dashboard", page)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	data, err := s.dashboard.Load(r.Context(), ps)
	if errors.Is(err, domain.ErrUnauthorized) {
		s.fail(w, r, err, "/login")
		return
	}
	s.renderDashboard(w, r, ps, data, err)
}

func (s *Server) handleEditRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ps := s.pageSession(r)
	data, err := s.dashboard.EditRecord(r.Context(), ps, id)
	if err != nil {
		s.fail(w, r, err, "/dashboard")
		return
	}
	s.renderDashboard(w, r, ps, data, nil)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	in, err := parseRecordForm(r)
	if err == nil {
		err = s.dashboard.CreateRecord(r.Context(), ps, in)
	}
	if err != nil {
		s.fail(w, r, err, "/dashboard")
		return
	}
	s.flash(r, render.LevelSuccess, "Record saved.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ps := s.pageSession(r)
	in, err := parseRecordForm(r)
	if err == nil {
		err = s.dashboard.UpdateRecord(r.Context(), ps, id, in)
	}
	if err != nil {
		s.fail(w, r, err, r.URL.Path+"/edit")
		return
	}
	s.flash(r, render.LevelSuccess, "Record updated.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ps := s.pageSession(r)
	if err := s.dashboard.DeleteRecord(r.Context(), ps, id); err != nil {
		s.fail(w, r, err, "/dashboard")
		return
	}
	s.flash(r, render.LevelSuccess, "Record deleted.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
