// Package web embeds the HTML templates and static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed public
var publicFS embed.FS

// RenderError wraps a template execution failure
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer executes the embedded page templates
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(templatesFS, "templates/*.html")
}

// NewRendererFS parses templates matching pattern in fsys
func NewRendererFS(fsys fs.FS, pattern string) (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the template called name into w. Output is buffered so a
// failed render never leaves a half written page behind.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return &RenderError{Template: name, Err: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &RenderError{Template: name, Err: err}
	}
	return nil
}

// Public returns the static assets served under /public
func Public() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
