// Package view renders the HTML pages. Templates are embedded in the binary
// so the server runs from any working directory and handler tests need no
// filesystem fixtures.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"gitlab.com/golang-commonmark/markdown"

	"github.com/nkazarin/noteboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages that are parsed together with the base layout.
var pageNames = []string{
	"home.html",
	"news_detail.html",
	"note_list.html",
	"note_detail.html",
	"note_form.html",
	"note_delete.html",
	"note_done.html",
	"comment_form.html",
	"comment_delete.html",
	"login.html",
	"signup.html",
	"logout.html",
	"not_found.html",
}

// Data is the envelope every template receives.
type Data struct {
	// User is the logged-in user, nil for anonymous visitors.
	User *model.User
	// Errors maps form field names to messages; templates show them next to
	// the offending field. The empty key holds a form-wide message.
	Errors map[string]string
	// Form holds submitted values so a re-rendered form keeps the input.
	Form map[string]string
	// Content is the page payload (a note, a news article with comments, ...).
	Content any
}

// FieldError builds the Errors map for a single-field failure.
func FieldError(field, message string) map[string]string {
	return map[string]string{field: message}
}

// Renderer parses the embedded templates once and renders pages by name.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page against the base layout. Parse failures are
// programmer errors, so they surface at startup, not per request.
func New() (*Renderer, error) {
	md := markdown.New(markdown.XHTMLOutput(true), markdown.Linkify(true))

	funcs := template.FuncMap{
		// markdown renders trusted article bodies. Comments and notes are
		// user input and go through plain {{ }} escaping instead.
		"markdown": func(text string) template.HTML {
			return template.HTML(md.RenderToString([]byte(text)))
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status. The page is executed
// into a buffer first so a template error becomes a clean 500 instead of a
// half-written body. An unknown page name is a bug and panics.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Data) {
	tmpl, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("view: unknown template %q", name))
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
