package catalog

import (
	"context"
	"errors"
	"sync"

	"playpedia/internal/api"
	"playpedia/internal/model"
)

var errUpstream = errors.New("upstream failure")

// fakeSource records list queries and answers from canned data.
type fakeSource struct {
	mu      sync.Mutex
	queries []api.ListQuery

	games    api.Page[model.Game]
	entities api.Page[model.Entity]
	listErr  error

	game      model.Game
	gameErr   error
	entity    model.Entity
	entityErr error

	screenshots    []model.Screenshot
	screenshotsErr error
	trailers       []model.Trailer
	trailersErr    error
	achievements   []model.Achievement
	achievementErr error
}

func (f *fakeSource) record(q api.ListQuery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
}

func (f *fakeSource) lastQuery() api.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeSource) ListGames(_ context.Context, q api.ListQuery) (api.Page[model.Game], error) {
	f.record(q)
	return f.games, f.listErr
}

func (f *fakeSource) ListEntities(_ context.Context, q api.ListQuery) (api.Page[model.Entity], error) {
	f.record(q)
	return f.entities, f.listErr
}

func (f *fakeSource) Game(context.Context, int) (model.Game, error) {
	return f.game, f.gameErr
}

func (f *fakeSource) Entity(context.Context, string, int) (model.Entity, error) {
	return f.entity, f.entityErr
}

func (f *fakeSource) Screenshots(context.Context, int) ([]model.Screenshot, error) {
	return f.screenshots, f.screenshotsErr
}

func (f *fakeSource) Trailers(context.Context, int) ([]model.Trailer, error) {
	return f.trailers, f.trailersErr
}

func (f *fakeSource) Achievements(context.Context, int) ([]model.Achievement, error) {
	return f.achievements, f.achievementErr
}
