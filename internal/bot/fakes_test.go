package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	groups   []tgbotapi.MediaGroupConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = append(f.groups, config)
	return nil, nil
}

// messages returns the text messages sent so far.
func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) lastMessage() tgbotapi.MessageConfig {
	msgs := f.messages()
	if len(msgs) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return msgs[len(msgs)-1]
}

type memStore struct {
	mu     sync.Mutex
	states map[int64]model.QueryState
}

func newMemStore() *memStore {
	return &memStore{states: make(map[int64]model.QueryState)}
}

func (m *memStore) SaveState(_ context.Context, chatID int64, state model.QueryState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = state
	return nil
}

func (m *memStore) GetState(_ context.Context, chatID int64) (*model.QueryState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[chatID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) DeleteState(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
	return nil
}

type fakeBrowser struct {
	mu      sync.Mutex
	lists   []model.QueryState
	hasNext bool
	listErr error

	// List calls searching for holdSearch signal held and wait for release.
	holdSearch string
	held       chan struct{}
	release    chan struct{}

	game      catalog.GameDetail
	gameErr   error
	entity    catalog.EntityDetail
	entityErr error
}

// hold makes List calls searching for search block until the returned
// release func is called. held is closed once such a call has started.
func (f *fakeBrowser) hold(search string) (held <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdSearch = search
	f.held = make(chan struct{})
	f.release = make(chan struct{})
	return f.held, func() { close(f.release) }
}

func (f *fakeBrowser) List(_ context.Context, state model.QueryState) (catalog.ListView, error) {
	f.mu.Lock()
	if f.holdSearch != "" && state.Search == f.holdSearch {
		held, release := f.held, f.release
		f.holdSearch = ""
		f.mu.Unlock()
		close(held)
		<-release
		f.mu.Lock()
	}
	defer f.mu.Unlock()
	f.lists = append(f.lists, state)
	if f.listErr != nil {
		return catalog.ListView{State: state}, f.listErr
	}
	return catalog.ListView{
		State:   state,
		Cards:   []model.Card{{ID: 4, Kind: state.Resource, Title: "Action"}},
		HasNext: f.hasNext,
	}, nil
}

func (f *fakeBrowser) lastList() model.QueryState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[len(f.lists)-1]
}

func (f *fakeBrowser) GameDetail(context.Context, int, ...catalog.Secondary) (catalog.GameDetail, error) {
	return f.game, f.gameErr
}

func (f *fakeBrowser) EntityDetail(_ context.Context, kind string, id int, games model.QueryState, _ ...catalog.Secondary) (catalog.EntityDetail, error) {
	if f.entityErr != nil {
		return catalog.EntityDetail{}, f.entityErr
	}
	d := f.entity
	res, _ := catalog.Lookup(kind)
	d.Resource = res
	d.Games = catalog.ListView{State: games}
	return d, nil
}
