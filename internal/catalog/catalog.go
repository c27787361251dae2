package catalog

import (
	"context"
	"fmt"
	"strconv"

	"playpedia/internal/api"
	"playpedia/internal/model"
)

// Source is the subset of the RAWG client the catalog reads from.
type Source interface {
	ListGames(ctx context.Context, q api.ListQuery) (api.Page[model.Game], error)
	ListEntities(ctx context.Context, q api.ListQuery) (api.Page[model.Entity], error)
	Game(ctx context.Context, id int) (model.Game, error)
	Entity(ctx context.Context, endpoint string, id int) (model.Entity, error)
	Screenshots(ctx context.Context, gameID int) ([]model.Screenshot, error)
	Trailers(ctx context.Context, gameID int) ([]model.Trailer, error)
	Achievements(ctx context.Context, gameID int) ([]model.Achievement, error)
}

// ListView is one rendered page of a list.
type ListView struct {
	State   model.QueryState
	Cards   []model.Card
	Count   int
	HasNext bool
}

func (v ListView) HasPrevious() bool {
	return v.State.Page > 1
}

type Catalog struct {
	source Source
}

func New(source Source) *Catalog {
	return &Catalog{source: source}
}

// Query translates a list state into the API query it stands for.
func Query(state model.QueryState) (api.ListQuery, error) {
	state = state.Normalize()
	res, err := Lookup(state.Resource)
	if err != nil {
		return api.ListQuery{}, fmt.Errorf("%w: %q", err, state.Resource)
	}
	q := api.ListQuery{Endpoint: res.Endpoint, Search: state.Search, Page: state.Page}

	if state.Parent != "" {
		parent, err := Lookup(state.Parent)
		if err != nil || parent.Filter == "" {
			return api.ListQuery{}, fmt.Errorf("%w: parent %q", ErrUnknownResource, state.Parent)
		}
		q.Filters = map[string]string{parent.Filter: strconv.Itoa(state.ParentID)}
	}
	return q, nil
}

// List fetches the page of records that state describes.
func (c *Catalog) List(ctx context.Context, state model.QueryState) (ListView, error) {
	state = state.Normalize()
	q, err := Query(state)
	if err != nil {
		return ListView{State: state}, err
	}
	res, _ := Lookup(state.Resource)

	view := ListView{State: state, Cards: []model.Card{}}
	if res.IsGames() {
		page, err := c.source.ListGames(ctx, q)
		if err != nil {
			return view, err
		}
		for _, g := range page.Items() {
			view.Cards = append(view.Cards, GameCard(g))
		}
		view.Count, view.HasNext = page.Count, page.HasNext()
		return view, nil
	}

	page, err := c.source.ListEntities(ctx, q)
	if err != nil {
		return view, err
	}
	for _, e := range page.Items() {
		view.Cards = append(view.Cards, res.Card(e))
	}
	view.Count, view.HasNext = page.Count, page.HasNext()
	return view, nil
}

// Preview returns the first size records of a resource, used for the
// sidebar lists.
func (c *Catalog) Preview(ctx context.Context, kind string, size int) ([]model.Card, error) {
	res, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	q := api.ListQuery{Endpoint: res.Endpoint, Page: 1, PageSize: size}
	if res.IsGames() {
		page, err := c.source.ListGames(ctx, q)
		if err != nil {
			return nil, err
		}
		cards := make([]model.Card, 0, len(page.Results))
		for _, g := range page.Items() {
			cards = append(cards, GameCard(g))
		}
		return cards, nil
	}
	page, err := c.source.ListEntities(ctx, q)
	if err != nil {
		return nil, err
	}
	cards := make([]model.Card, 0, len(page.Results))
	for _, e := range page.Items() {
		cards = append(cards, res.Card(e))
	}
	return cards, nil
}
