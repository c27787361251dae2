package catalog

import (
	"context"
	"errors"
	"sync"

	"playpedia/internal/model"
)

// ErrStale is returned to a caller whose request was superseded by a newer
// one before it completed. Its result is discarded.
var ErrStale = errors.New("stale list response")

type Lister interface {
	List(ctx context.Context, state model.QueryState) (ListView, error)
}

// ListController owns the search and page state of one list view. Every
// change fires a request; a newer request cancels the one in flight and only
// the latest response is applied.
type ListController struct {
	lister Lister

	mu     sync.Mutex
	state  model.QueryState
	view   ListView
	err    error
	seq    uint64
	cancel context.CancelFunc
}

func NewListController(lister Lister, state model.QueryState) *ListController {
	state = state.Normalize()
	return &ListController{
		lister: lister,
		state:  state,
		view:   ListView{State: state},
	}
}

func (c *ListController) State() model.QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the last applied page and the error of the last request.
func (c *ListController) View() (ListView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view, c.err
}

// Load fetches the current state again.
func (c *ListController) Load(ctx context.Context) (ListView, error) {
	return c.apply(ctx, func(s model.QueryState, _ ListView) (model.QueryState, bool) {
		return s, true
	})
}

// SetSearch filters the list. A changed search resets to page 1 before the
// request is issued.
func (c *ListController) SetSearch(ctx context.Context, search string) (ListView, error) {
	return c.apply(ctx, func(s model.QueryState, _ ListView) (model.QueryState, bool) {
		return s.WithSearch(search), true
	})
}

func (c *ListController) SetPage(ctx context.Context, page int) (ListView, error) {
	return c.apply(ctx, func(s model.QueryState, _ ListView) (model.QueryState, bool) {
		return s.WithPage(page), true
	})
}

// Next moves one page forward. Without a next page it is a no-op.
func (c *ListController) Next(ctx context.Context) (ListView, error) {
	return c.apply(ctx, func(s model.QueryState, v ListView) (model.QueryState, bool) {
		if !v.HasNext {
			return s, false
		}
		return s.WithPage(s.Page + 1), true
	})
}

// Previous moves one page back. On page 1 it is a no-op.
func (c *ListController) Previous(ctx context.Context) (ListView, error) {
	return c.apply(ctx, func(s model.QueryState, _ ListView) (model.QueryState, bool) {
		if s.Page <= 1 {
			return s, false
		}
		return s.WithPage(s.Page - 1), true
	})
}

// Reset switches the controller to a different list and loads it. Requests
// still in flight for the previous list become stale.
func (c *ListController) Reset(ctx context.Context, state model.QueryState) (ListView, error) {
	return c.ResetWith(ctx, state, c.lister.List)
}

// ResetWith is Reset with the page produced by fetch, for views that load the
// list together with other records.
func (c *ListController) ResetWith(ctx context.Context, state model.QueryState, fetch func(context.Context, model.QueryState) (ListView, error)) (ListView, error) {
	state = state.Normalize()
	return c.run(ctx, func(model.QueryState, ListView) (model.QueryState, bool) {
		return state, true
	}, fetch)
}

// Stop cancels the request in flight and marks it stale.
func (c *ListController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *ListController) apply(ctx context.Context, mutate func(model.QueryState, ListView) (model.QueryState, bool)) (ListView, error) {
	return c.run(ctx, mutate, c.lister.List)
}

func (c *ListController) run(ctx context.Context, mutate func(model.QueryState, ListView) (model.QueryState, bool), fetch func(context.Context, model.QueryState) (ListView, error)) (ListView, error) {
	c.mu.Lock()
	next, ok := mutate(c.state, c.view)
	if !ok {
		view, err := c.view, c.err
		c.mu.Unlock()
		return view, err
	}
	c.state = next
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	view, err := fetch(reqCtx, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()
	if seq != c.seq {
		return ListView{}, ErrStale
	}
	c.cancel = nil
	if err != nil {
		c.view = ListView{State: next}
		c.err = err
		return c.view, err
	}
	c.view = view
	c.err = nil
	return view, nil
}
