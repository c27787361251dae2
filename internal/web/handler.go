package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"playpedia/internal/api"
	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

// Pages is what the web front end reads from the catalog.
type Pages interface {
	List(ctx context.Context, state model.QueryState) (catalog.ListView, error)
	Preview(ctx context.Context, kind string, size int) ([]model.Card, error)
	GameDetail(ctx context.Context, id int, extra ...catalog.Secondary) (catalog.GameDetail, error)
	EntityDetail(ctx context.Context, kind string, id int, games model.QueryState, extra ...catalog.Secondary) (catalog.EntityDetail, error)
}

type handler struct {
	pages       Pages
	sidebarSize int
	templates   map[string]*template.Template
}

func NewHandler(pages Pages, sidebarSize int) (http.Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if sidebarSize <= 0 {
		sidebarSize = api.DefaultPageSize
	}
	h := &handler{pages: pages, sidebarSize: sidebarSize, templates: templates}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /{$}", h.list)
	mux.HandleFunc("GET /games/{id}", h.game)
	mux.HandleFunc("GET /{resource}", h.list)
	mux.HandleFunc("GET /{resource}/{id}", h.entity)

	return chain(mux, recoverPanic, requestLogger), nil
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// sidebar returns the secondaries that fill the platform and genre lists.
func (h *handler) sidebar(data *page) []catalog.Secondary {
	preview := func(kind string) func(context.Context) ([]model.Card, error) {
		return func(ctx context.Context) ([]model.Card, error) {
			return h.pages.Preview(ctx, kind, h.sidebarSize)
		}
	}
	return []catalog.Secondary{
		catalog.Section("sidebar platforms", &data.Platforms, preview(catalog.KindPlatforms)),
		catalog.Section("sidebar genres", &data.Genres, preview(catalog.KindGenres)),
	}
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("resource")
	if kind == "" {
		kind = catalog.KindGames
	}
	res, err := catalog.Lookup(kind)
	if err != nil {
		h.renderError(w, r, res, err)
		return
	}

	state := queryState(r, kind)
	data := page{Title: res.Title, Active: res.Kind, Resource: res}
	view, _, err := catalog.Aggregate(r.Context(), func(ctx context.Context) (catalog.ListView, error) {
		return h.pages.List(ctx, state)
	}, h.sidebar(&data)...)
	if err != nil {
		h.renderError(w, r, res, err)
		return
	}

	listing(&data, "/"+res.Kind, view, "Search "+strings.ToLower(res.Title)+"...")
	h.render(w, r, http.StatusOK, "list", data)
}

func (h *handler) game(w http.ResponseWriter, r *http.Request) {
	res, _ := catalog.Lookup(catalog.KindGames)
	id, ok := pathID(r)
	if !ok {
		h.renderError(w, r, res, &api.StatusError{Code: http.StatusNotFound, Path: r.URL.Path})
		return
	}

	data := page{Active: res.Kind}
	d, err := h.pages.GameDetail(r.Context(), id, h.sidebar(&data)...)
	if err != nil {
		h.renderError(w, r, res, err)
		return
	}
	data.Title = d.Game.Name
	data.Detail = d
	h.render(w, r, http.StatusOK, "game", data)
}

func (h *handler) entity(w http.ResponseWriter, r *http.Request) {
	res, err := catalog.Lookup(r.PathValue("resource"))
	if err != nil {
		h.renderError(w, r, res, err)
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.renderError(w, r, res, &api.StatusError{Code: http.StatusNotFound, Path: r.URL.Path})
		return
	}

	data := page{Active: res.Kind}
	d, err := h.pages.EntityDetail(r.Context(), res.Kind, id, queryState(r, catalog.KindGames), h.sidebar(&data)...)
	if err != nil {
		h.renderError(w, r, res, err)
		return
	}
	data.Title = d.Entity.Name
	data.Detail = d
	data.Resource, _ = catalog.Lookup(catalog.KindGames)
	listing(&data, r.URL.Path, d.Games, "Search "+d.Entity.Name+" games...")
	h.render(w, r, http.StatusOK, "entity", data)
}

func (h *handler) renderError(w http.ResponseWriter, r *http.Request, res catalog.Resource, err error) {
	status := http.StatusBadGateway
	data := page{Title: "Error", Active: res.Kind}

	var se *api.StatusError
	switch {
	case errors.Is(err, catalog.ErrUnknownResource), errors.As(err, &se) && se.NotFound():
		status = http.StatusNotFound
		data.Heading = "Not Found"
		data.Message = "The page you are looking for does not exist."
	default:
		what := "data"
		if res.Title != "" {
			what = strings.ToLower(res.Title)
		}
		data.Heading = "Error Loading " + cases(what)
		data.Message = "Failed to fetch " + what + ". Please try again later."
	}
	slog.Warn("page failed", "path", r.URL.Path, "status", status, "error", err)
	h.render(w, r, status, "error", data)
}

func cases(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// listing fills the search form and pagination links for view.
func listing(data *page, path string, view catalog.ListView, placeholder string) {
	data.View = view
	data.Action = path
	data.Placeholder = placeholder
	data.PrevURL, data.NextURL = "", ""
	if view.HasPrevious() {
		data.PrevURL = pageURL(path, view.State.Search, view.State.Page-1)
	}
	if view.HasNext {
		data.NextURL = pageURL(path, view.State.Search, view.State.Page+1)
	}
}

func pageURL(path, search string, page int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}

// queryState reads search and page from the request. A missing or invalid
// page means page 1.
func queryState(r *http.Request, kind string) model.QueryState {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	return model.QueryState{
		Resource: kind,
		Search:   strings.TrimSpace(q.Get("search")),
		Page:     page,
	}.Normalize()
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
