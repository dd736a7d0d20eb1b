package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/desertthunder/spotify-stats/internal/formatter"
	"github.com/desertthunder/spotify-stats/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type basePage struct {
	Title string
}

type successPage struct {
	Title       string
	DisplayName string
	AccessToken string
}

type topPage struct {
	Title       string
	Category    models.Category
	Sections    []formatter.Section
	AccessToken string
	OtherPath   string
	OtherTitle  string
}

type errorPage struct {
	Title   string
	Status  int
	Message string
}

// Views renders the embedded HTML templates.
type Views struct {
	t *template.Template
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Views{t: t}, nil
}

// Render executes the named template into a buffer and writes it with status.
//
// Rendering into a buffer keeps a failed template from producing a half-written 200.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Error renders the error page, falling back to plain text if that fails too.
func (v *Views) Error(w http.ResponseWriter, status int, message string) {
	data := errorPage{Title: http.StatusText(status), Status: status, Message: message}
	if err := v.Render(w, status, "error", data); err != nil {
		http.Error(w, message, status)
	}
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
