package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
)

//go:embed templates
var templateFS embed.FS

// Renderer writes a named page template with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, data any)
}

// View is the value every page template is executed with.
type View struct {
	User *models.User
	Path string
	Data any
}

type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"media": utils.MediaURL,
	"date": func(t time.Time) string {
		return t.Format("2 January 2006 15:04")
	},
	"short": func(p *models.Post) string { return p.Short() },
}

// NewTemplates parses every page under templates/ together with the base
// layout and the shared includes.
func NewTemplates() (*Templates, error) {
	t := &Templates{pages: map[string]*template.Template{}}

	shared := []string{"templates/base.html", "templates/includes/*.html"}
	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		if p == "templates/base.html" || strings.HasPrefix(p, "templates/includes/") {
			return nil
		}
		tmpl, err := template.New(path.Base(p)).Funcs(funcs).ParseFS(templateFS, append(shared, p)...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		t.pages[strings.TrimPrefix(p, "templates/")] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Templates) Has(name string) bool {
	_, ok := t.pages[name]
	return ok
}

func (t *Templates) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := t.pages[name]
	if !ok {
		log.Printf("Unknown template %s", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	view := View{User: utils.CurrentUser(r), Path: r.URL.Path, Data: data}
	if err := tmpl.ExecuteTemplate(&buf, "base", view); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
