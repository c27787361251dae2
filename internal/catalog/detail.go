package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"

	"playpedia/internal/model"
)

// Secondary is a related fetch shown next to a primary record. It owns the
// destination of its result.
type Secondary interface {
	Name() string
	run(ctx context.Context) error
	reset()
}

type section[S any] struct {
	name  string
	dst   *S
	fetch func(context.Context) (S, error)
}

// Section binds a secondary fetch to dst. On failure dst is left at its zero
// value, which renders as an empty section.
func Section[S any](name string, dst *S, fetch func(context.Context) (S, error)) Secondary {
	return &section[S]{name: name, dst: dst, fetch: fetch}
}

func (s *section[S]) Name() string { return s.name }

func (s *section[S]) run(ctx context.Context) error {
	v, err := s.fetch(ctx)
	if err != nil {
		s.reset()
		return fmt.Errorf("%s: %w", s.name, err)
	}
	*s.dst = v
	return nil
}

func (s *section[S]) reset() {
	var zero S
	*s.dst = zero
}

// Aggregate runs primary and every secondary concurrently. A primary failure
// is returned and clears all sections; secondary failures only empty their
// own section and are reported in the degraded error.
func Aggregate[T any](ctx context.Context, primary func(context.Context) (T, error), secondaries ...Secondary) (value T, degraded error, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg conc.WaitGroup
		mu sync.Mutex
	)
	wg.Go(func() {
		value, err = primary(ctx)
		if err != nil {
			cancel()
		}
	})
	for _, s := range secondaries {
		wg.Go(func() {
			if serr := s.run(ctx); serr != nil {
				mu.Lock()
				degraded = multierr.Append(degraded, serr)
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if err != nil {
		for _, s := range secondaries {
			s.reset()
		}
		var zero T
		return zero, nil, err
	}
	if degraded != nil {
		slog.Warn("detail sections degraded", "error", degraded)
	}
	return value, degraded, nil
}

// GameDetail is a game with its related media.
type GameDetail struct {
	Game         model.Game
	Card         model.Card
	Description  string
	Stores       []model.Card
	Screenshots  []model.Screenshot
	Trailers     []model.Trailer
	Achievements []model.Achievement
}

// GameDetail loads a game with its screenshots, trailers and achievements.
// extra secondaries run alongside, e.g. page chrome.
func (c *Catalog) GameDetail(ctx context.Context, id int, extra ...Secondary) (GameDetail, error) {
	var d GameDetail
	secondaries := append([]Secondary{
		Section("screenshots", &d.Screenshots, func(ctx context.Context) ([]model.Screenshot, error) {
			return c.source.Screenshots(ctx, id)
		}),
		Section("trailers", &d.Trailers, func(ctx context.Context) ([]model.Trailer, error) {
			return c.source.Trailers(ctx, id)
		}),
		Section("achievements", &d.Achievements, func(ctx context.Context) ([]model.Achievement, error) {
			return c.source.Achievements(ctx, id)
		}),
	}, extra...)

	game, _, err := Aggregate(ctx, func(ctx context.Context) (model.Game, error) {
		return c.source.Game(ctx, id)
	}, secondaries...)
	if err != nil {
		return GameDetail{}, err
	}

	d.Game = game
	d.Card = GameCard(game)
	d.Description = PlainText(game.Description)
	for _, s := range game.Stores {
		if s.Store.Name == "" {
			continue
		}
		store := model.Card{ID: s.Store.ID, Kind: KindStores, Title: s.Store.Name}
		if domain := strings.TrimSpace(s.Store.Domain); domain != "" {
			store.Link = "https://" + domain
		}
		d.Stores = append(d.Stores, store)
	}
	return d, nil
}

// EntityDetail is a genre, platform, store, tag, publisher, creator or
// developer with one page of its games.
type EntityDetail struct {
	Resource    Resource
	Entity      model.Entity
	Card        model.Card
	Description string
	Games       ListView
}

// EntityDetail loads an entity and the page of its games described by
// games. Only Search and Page are read from games.
func (c *Catalog) EntityDetail(ctx context.Context, kind string, id int, games model.QueryState, extra ...Secondary) (EntityDetail, error) {
	res, err := Lookup(kind)
	if err != nil {
		return EntityDetail{}, fmt.Errorf("%w: %q", err, kind)
	}
	if res.IsGames() {
		return EntityDetail{}, fmt.Errorf("%w: %q has no games list", ErrUnknownResource, kind)
	}

	state := model.QueryState{
		Resource: KindGames,
		Parent:   kind,
		ParentID: id,
		Search:   games.Search,
		Page:     games.Page,
	}.Normalize()

	d := EntityDetail{Resource: res}
	secondaries := append([]Secondary{
		Section("games", &d.Games, func(ctx context.Context) (ListView, error) {
			return c.List(ctx, state)
		}),
	}, extra...)

	entity, _, err := Aggregate(ctx, func(ctx context.Context) (model.Entity, error) {
		return c.source.Entity(ctx, res.Endpoint, id)
	}, secondaries...)
	if err != nil {
		return EntityDetail{}, err
	}

	if d.Games.State.Resource == "" {
		d.Games = ListView{State: state, Cards: []model.Card{}}
	}
	d.Entity = entity
	d.Card = res.Card(entity)
	d.Description = PlainText(entity.Description)
	return d, nil
}
