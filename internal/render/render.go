// Package render turns page models into HTML. Templates and the stylesheet
// are embedded in the binary.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the page templates
type Renderer struct {
	home   *template.Template
	search *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	home, err := template.ParseFS(templateFS, "templates/layout.html", "templates/home.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse home templates: %w", err)
	}

	search, err := template.ParseFS(templateFS, "templates/layout.html", "templates/search.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse search templates: %w", err)
	}

	return &Renderer{home: home, search: search}, nil
}

// Static returns the embedded static assets, rooted at the static directory
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Home renders the landing page
func (r *Renderer) Home(w io.Writer, page HomePage) error {
	return execute(w, r.home, page)
}

// Search renders a search view
func (r *Renderer) Search(w io.Writer, page SearchPage) error {
	return execute(w, r.search, page)
}

// execute renders into a buffer first so a template error never leaves a
// half-written page
func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
