package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"list", "game", "entity", "error"}

// page is the data every template renders from. List fields are used by
// the list and entity pages, Detail by the detail pages.
type page struct {
	Title     string
	Active    string
	Nav       []catalog.Resource
	Platforms []model.Card
	Genres    []model.Card

	Resource    catalog.Resource
	View        catalog.ListView
	Action      string
	Placeholder string
	PrevURL     string
	NextURL     string

	Detail any

	Heading string
	Message string
}

var funcs = template.FuncMap{
	"paragraphs": func(s string) []string {
		var out []string
		for _, p := range strings.Split(s, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func component(t *template.Template, data page) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", data)
	})
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	data.Nav = catalog.Resources()
	templ.Handler(component(h.templates[name], data), templ.WithStatus(status)).ServeHTTP(w, r)
}
