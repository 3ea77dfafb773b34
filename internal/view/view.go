// Package view renders the embedded HTML templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Views renders named page templates parsed from the embedded filesystem.
type Views struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Views, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		"markdown": Markdown,
	})

	tmpl, err := tmpl.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}

	return &Views{tmpl: tmpl}, nil
}

// Render writes the named page template with the given data.
func (v *Views) Render(w io.Writer, name string, data any) error {
	if err := v.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	return nil
}
