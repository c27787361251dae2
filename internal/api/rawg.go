package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"playpedia/internal/model"
)

const (
	DefaultBaseURL  = "https://api.rawg.io/api"
	DefaultPageSize = 20
)

// ListQuery describes one page of a list endpoint.
type ListQuery struct {
	Endpoint string
	Search   string
	Page     int
	PageSize int
	// Filters narrow the list, e.g. {"genres": "4"} for the games of a genre.
	Filters map[string]string
}

type RawgAPI struct {
	apiKey   string
	baseUrl  string
	pageSize int
	client   *http.Client
}

func NewRawgAPI(apiKey, baseUrl string, pageSize int, timeout time.Duration) *RawgAPI {
	if baseUrl == "" {
		baseUrl = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &RawgAPI{
		apiKey:   apiKey,
		baseUrl:  strings.TrimRight(baseUrl, "/"),
		pageSize: pageSize,
		client:   &http.Client{Timeout: timeout},
	}
}

func (k *RawgAPI) PageSize() int {
	return k.pageSize
}

// ListURL builds base/endpoint?key=K&page_size=N&page=P[&filters][&search=S].
func (k *RawgAPI) ListURL(q ListQuery) string {
	size := q.PageSize
	if size <= 0 {
		size = k.pageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s?key=%s&page_size=%d&page=%d",
		k.baseUrl, q.Endpoint, url.QueryEscape(k.apiKey), size, page)

	keys := make([]string, 0, len(q.Filters))
	for key := range q.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "&%s=%s", url.QueryEscape(key), url.QueryEscape(q.Filters[key]))
	}

	if q.Search != "" {
		b.WriteString("&search=" + encodeComponent(q.Search))
	}
	return b.String()
}

// ItemURL builds base/path?key=K for detail and sub-resource endpoints.
func (k *RawgAPI) ItemURL(path string) string {
	return fmt.Sprintf("%s/%s?key=%s", k.baseUrl, strings.TrimLeft(path, "/"), url.QueryEscape(k.apiKey))
}

func (k *RawgAPI) doRequest(ctx context.Context, rawURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Add("accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", redact(rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Path: redact(rawURL)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", redact(rawURL), err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode %s: %w", redact(rawURL), err)
	}
	return nil
}

// componentEscaper undoes the QueryEscape choices that differ from the
// browser's encodeURIComponent: spaces are %20 and !'()* stay literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeComponent(s string) string {
	return componentEscaper.Replace(url.QueryEscape(s))
}

// redact strips the credential so URLs are safe to log.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// FetchPage loads one page of a list endpoint decoded as T.
func FetchPage[T any](ctx context.Context, k *RawgAPI, q ListQuery) (Page[T], error) {
	var data Page[T]
	if err := k.doRequest(ctx, k.ListURL(q), &data); err != nil {
		slog.Error("list fetch err", "endpoint", q.Endpoint, "page", q.Page, "error", err)
		return Page[T]{}, err
	}
	data.Results = data.Items()
	return data, nil
}

// FetchItem loads a single record such as games/3498.
func FetchItem[T any](ctx context.Context, k *RawgAPI, endpoint string, id int) (T, error) {
	var data T
	path := endpoint + "/" + strconv.Itoa(id)
	if err := k.doRequest(ctx, k.ItemURL(path), &data); err != nil {
		slog.Error("detail fetch err", "endpoint", endpoint, "id", id, "error", err)
		var zero T
		return zero, err
	}
	return data, nil
}

func fetchGameRelated[T any](ctx context.Context, k *RawgAPI, gameID int, sub string) ([]T, error) {
	var data Page[T]
	path := fmt.Sprintf("games/%d/%s", gameID, sub)
	if err := k.doRequest(ctx, k.ItemURL(path), &data); err != nil {
		slog.Warn("related fetch err", "game", gameID, "resource", sub, "error", err)
		return nil, err
	}
	return data.Items(), nil
}

func (k *RawgAPI) ListGames(ctx context.Context, q ListQuery) (Page[model.Game], error) {
	q.Endpoint = "games"
	return FetchPage[model.Game](ctx, k, q)
}

func (k *RawgAPI) ListEntities(ctx context.Context, q ListQuery) (Page[model.Entity], error) {
	return FetchPage[model.Entity](ctx, k, q)
}

func (k *RawgAPI) Game(ctx context.Context, id int) (model.Game, error) {
	return FetchItem[model.Game](ctx, k, "games", id)
}

func (k *RawgAPI) Entity(ctx context.Context, endpoint string, id int) (model.Entity, error) {
	return FetchItem[model.Entity](ctx, k, endpoint, id)
}

func (k *RawgAPI) Screenshots(ctx context.Context, gameID int) ([]model.Screenshot, error) {
	return fetchGameRelated[model.Screenshot](ctx, k, gameID, "screenshots")
}

func (k *RawgAPI) Trailers(ctx context.Context, gameID int) ([]model.Trailer, error) {
	return fetchGameRelated[model.Trailer](ctx, k, gameID, "movies")
}

func (k *RawgAPI) Achievements(ctx context.Context, gameID int) ([]model.Achievement, error) {
	return fetchGameRelated[model.Achievement](ctx, k, gameID, "achievements")
}
