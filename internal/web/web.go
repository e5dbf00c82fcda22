// Package web renders the public share pages for saved favorite lists.
//
// # Templates
//
// Pages are embedded html/template files sharing one layout:
//
//   - base.html: layout and styles
//   - shared.html: poster grid for a shared list
//   - error.html: not-found and upstream failures
//
// Each page is parsed together with the layout into its own template set so
// the "title" and "content" blocks do not collide.
//
// # Helpers
//
// Templates can call pluralize, date, year, rating and poster. poster resolves a
// TMDB poster path with the configured image base URL, falling back to a
// placeholder image.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

//go:embed templates/*.html
var templateFiles embed.FS

// SharedPage is the data for the shared list page.
type SharedPage struct {
	List *models.FavoriteList
}

// ErrorPage is the data for the error page.
type ErrorPage struct {
	Title   string
	Message string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	shared *template.Template
	errors *template.Template
}

// NewRenderer parses the embedded templates. posterURL maps a poster path to an
// absolute image URL.
func NewRenderer(posterURL func(*string) string) (*Renderer, error) {
	if posterURL == nil {
		posterURL = func(*string) string { return "" }
	}

	funcs := template.FuncMap{
		"pluralize": shared.Pluralize,
		"date":      func(t time.Time) string { return t.Format("02 Jan 2006") },
		"year":      shared.ReleaseYear,
		"rating":    shared.FormatRating,
		"poster":    posterURL,
	}

	base, err := templateFiles.ReadFile("templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}

	page := func(name string) (*template.Template, error) {
		content, err := templateFiles.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		tmpl, err := template.New(name).Funcs(funcs).Parse(string(base))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base for %s: %w", name, err)
		}
		if tmpl, err = tmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return tmpl, nil
	}

	r := &Renderer{}
	if r.shared, err = page("shared.html"); err != nil {
		return nil, err
	}
	if r.errors, err = page("error.html"); err != nil {
		return nil, err
	}
	return r, nil
}

// Shared renders the page for list.
func (r *Renderer) Shared(w io.Writer, list *models.FavoriteList) error {
	return execute(w, r.shared, SharedPage{List: list})
}

// Error renders an error page.
func (r *Renderer) Error(w io.Writer, title, message string) error {
	return execute(w, r.errors, ErrorPage{Title: title, Message: message})
}

// execute renders into a buffer first so a failed template never writes a partial page.
func execute(w io.Writer, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
