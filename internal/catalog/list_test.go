package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playpedia/internal/api"
	"playpedia/internal/model"
)

// listerFunc adapts a function to Lister.
type listerFunc func(ctx context.Context, state model.QueryState) (ListView, error)

func (f listerFunc) List(ctx context.Context, state model.QueryState) (ListView, error) {
	return f(ctx, state)
}

func TestListControllerSearchResetsPage(t *testing.T) {
	src := &fakeSource{games: api.Page[model.Game]{Next: "more", Results: []model.Game{{ID: 1}}}}
	c := NewListController(New(src), model.QueryState{Resource: KindGames})
	ctx := context.Background()

	_, err := c.SetPage(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, src.lastQuery().Page)

	view, err := c.SetSearch(ctx, "zelda")
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)
	assert.Equal(t, api.ListQuery{Endpoint: "games", Search: "zelda", Page: 1}, src.lastQuery())

	// Same text again is not a change and keeps the page.
	_, err = c.SetPage(ctx, 2)
	require.NoError(t, err)
	_, err = c.SetSearch(ctx, "zelda")
	require.NoError(t, err)
	assert.Equal(t, 2, c.State().Page)
}

func TestListControllerNextKeepsSearch(t *testing.T) {
	src := &fakeSource{games: api.Page[model.Game]{Next: "more"}}
	c := NewListController(New(src), model.QueryState{Resource: KindGames})
	ctx := context.Background()

	_, err := c.SetSearch(ctx, "zelda")
	require.NoError(t, err)

	view, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, view.State.Page)
	assert.Equal(t, api.ListQuery{Endpoint: "games", Search: "zelda", Page: 2}, src.lastQuery())

	view, err = c.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)
	assert.False(t, view.HasPrevious())
}

func TestListControllerBoundaries(t *testing.T) {
	src := &fakeSource{games: api.Page[model.Game]{}}
	c := NewListController(New(src), model.QueryState{Resource: KindGames})
	ctx := context.Background()

	view, err := c.Load(ctx)
	require.NoError(t, err)
	assert.False(t, view.HasNext)
	calls := len(src.queries)

	view, err = c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)

	view, err = c.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)
	assert.Len(t, src.queries, calls, "no-op moves must not fetch")
}

func TestListControllerError(t *testing.T) {
	src := &fakeSource{listErr: errUpstream}
	c := NewListController(New(src), model.QueryState{Resource: KindGenres})

	view, err := c.SetSearch(context.Background(), "rpg")
	assert.ErrorIs(t, err, errUpstream)
	assert.Empty(t, view.Cards)
	assert.Equal(t, "rpg", c.State().Search)

	_, lastErr := c.View()
	assert.ErrorIs(t, lastErr, errUpstream)
}

func TestListControllerDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var canceled bool
	var mu sync.Mutex

	lister := listerFunc(func(ctx context.Context, state model.QueryState) (ListView, error) {
		if state.Search == "zel" {
			close(started)
			<-release
			mu.Lock()
			canceled = ctx.Err() != nil
			mu.Unlock()
		}
		return ListView{State: state, Cards: []model.Card{{Title: state.Search}}}, nil
	})
	c := NewListController(lister, model.QueryState{Resource: KindGames})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() {
		_, err := c.SetSearch(ctx, "zel")
		slow <- err
	}()
	<-started

	view, err := c.SetSearch(ctx, "zelda")
	require.NoError(t, err)
	assert.Equal(t, "zelda", view.Cards[0].Title)

	close(release)
	assert.ErrorIs(t, <-slow, ErrStale)

	mu.Lock()
	assert.True(t, canceled, "superseded request must be canceled")
	mu.Unlock()

	current, err := c.View()
	require.NoError(t, err)
	assert.Equal(t, "zelda", current.Cards[0].Title)
	assert.Equal(t, "zelda", c.State().Search)
}

func TestListControllerResetSupersedesInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	lister := listerFunc(func(ctx context.Context, state model.QueryState) (ListView, error) {
		if state.Resource == KindGenres {
			close(started)
			<-release
		}
		return ListView{State: state}, nil
	})
	c := NewListController(lister, model.QueryState{Resource: KindGenres})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() {
		_, err := c.SetSearch(ctx, "zelda")
		slow <- err
	}()
	<-started

	view, err := c.Reset(ctx, model.QueryState{Resource: KindPlatforms, Page: 0})
	require.NoError(t, err)
	assert.Equal(t, model.QueryState{Resource: KindPlatforms, Page: 1}, view.State)

	close(release)
	assert.ErrorIs(t, <-slow, ErrStale)
	assert.Equal(t, model.QueryState{Resource: KindPlatforms, Page: 1}, c.State())
}

func TestListControllerResetWith(t *testing.T) {
	c := NewListController(listerFunc(func(context.Context, model.QueryState) (ListView, error) {
		t.Fatal("lister must not be used")
		return ListView{}, nil
	}), model.QueryState{Resource: KindGames})

	state := model.QueryState{Resource: KindGames, Parent: KindGenres, ParentID: 4, Page: 1}
	view, err := c.ResetWith(context.Background(), state, func(_ context.Context, s model.QueryState) (ListView, error) {
		return ListView{State: s, HasNext: true}, nil
	})
	require.NoError(t, err)
	assert.True(t, view.HasNext)
	assert.Equal(t, state, c.State())
}

func TestListControllerStop(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var canceled bool

	lister := listerFunc(func(ctx context.Context, state model.QueryState) (ListView, error) {
		close(started)
		<-release
		canceled = ctx.Err() != nil
		return ListView{State: state}, nil
	})
	c := NewListController(lister, model.QueryState{Resource: KindTags})

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background())
		done <- err
	}()
	<-started
	c.Stop()
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.True(t, canceled)
}
