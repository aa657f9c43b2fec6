// Package views renders the dashboard's HTML from an embedded template
// set. Handlers hand it a viewmodel and a page name; nothing here reaches
// back into request state.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded template set.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"logsURL": func(server, platform, env string) string {
			return LogsListURL(server, ScopeQuery{Platform: platform, Env: env}, "", "", "", 1)
		},
		"backupsURL": func(platform, env string) string {
			return BackupsListURL(ScopeQuery{Platform: platform, Env: env}, "")
		},
		"mailURL": func(platform, env string) string {
			return MailListURL(ScopeQuery{Platform: platform, Env: env}, "", "", "", "", 0, 1)
		},
		"logContentURL": func(server, platform, env, date, file, keyword string) string {
			return LogContentURL(server, ScopeQuery{Platform: platform, Env: env}, date, file, keyword)
		},
	}

	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render writes one named page template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
