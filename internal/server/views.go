package server

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Vika-svg/project1/pkg/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type indexData struct {
	UserName string
}

type loginData struct {
	Message string
}

type registrationData struct {
	Message string
}

type searchData struct {
	Query   string
	Results []domain.Book
}

type bookData struct {
	Book    *domain.Book
	Reviews []reviewView
	Rating  domain.RatingSummary
}

// reviewView pairs a review with its author's username for display.
type reviewView struct {
	Username string
	Review   domain.Review
}

// renderView executes a template into a buffer first so a template
// failure becomes a clean 500 instead of a torn page.
func (s *Server) renderView(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.views.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render template", "template", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
