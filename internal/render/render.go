// Package render turns backend data into view models and HTML pages.
// Nothing here performs network access.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"healthweb/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login", "register", "dashboard", "social", "share", "new_share", "error"}

// Toast levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Toast is a one-shot notification shown at the top of the next page.
type Toast struct {
	Level   string
	Message string
}

// Base is the data every page layout needs.
type Base struct {
	Title    string
	Active   string
	LoggedIn bool
	User     domain.UserInfo
	Toasts   []Toast
	Demo     bool
}

// LoginPage is the data of the login form.
type LoginPage struct {
	Base
	Identifier string
}

// RegisterPage is the data of the registration form.
type RegisterPage struct {
	Base
	Username string
	Email    string
	Phone    string
}

// DashboardPage is the data of the dashboard.
type DashboardPage struct {
	Base
	Rows    []RecordRow
	Charts  ChartData
	Cards   []SummaryCard
	Form    RecordForm
	Editing bool
}

// SocialPage is the data of the feed.
type SocialPage struct {
	Base
	Cards   []ShareCard
	Types   []TypeOption
	Filter  string
	Page    int
	HasMore bool
	NextURL string
	PrevURL string
}

// SharePage is the data of a share detail page.
type SharePage struct {
	Base
	Card        ShareCard
	Comments    []CommentView
	CommentsErr string
	Likers      []string
}

// NewSharePage is the data of the create-share form.
type NewSharePage struct {
	Base
	Types       []TypeOption
	Type        string
	Options     []Option
	OptionsErr  string
	ContentID   int64
	Preview     []Field
	Description string
}

// ErrorPage is shown when a page cannot be loaded at all.
type ErrorPage struct {
	Base
	Message string
	Back    string
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	layout, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with data to w. Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("render: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
