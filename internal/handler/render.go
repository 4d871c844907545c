package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pageData is the payload every template receives.
type pageData struct {
	User    *domain.User
	Flashes []domain.Flash

	// Dashboard fields
	Statuses []twitter.Status
	Page     int
	NextPage int
	HasNext  bool

	// Edit form fields
	TweetID   string
	TweetText string
}

func render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logger.FromContext(r.Context()).Error("template render failed", "template", name, "error", err)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
