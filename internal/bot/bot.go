package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

const (
	telegramCaptionLimit = 1024
	telegramMessageLimit = 4096
	mediaGroupLimit      = 10

	sweepInterval = 10 * time.Minute
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

type stateStore interface {
	SaveState(ctx context.Context, chatID int64, state model.QueryState) error
	GetState(ctx context.Context, chatID int64) (*model.QueryState, error)
	DeleteState(ctx context.Context, chatID int64) error
}

type browser interface {
	List(ctx context.Context, state model.QueryState) (catalog.ListView, error)
	GameDetail(ctx context.Context, id int, extra ...catalog.Secondary) (catalog.GameDetail, error)
	EntityDetail(ctx context.Context, kind string, id int, games model.QueryState, extra ...catalog.Secondary) (catalog.EntityDetail, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	catalog browser
	redis   stateStore
	posters *posterLoader

	// sessions holds one list controller per chat. A chat whose controller
	// is gone is restored from redis.
	mu       sync.Mutex
	sessions map[int64]*chatSession
	idleTTL  time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}  // Channel to signal stopping
	wg       sync.WaitGroup // WaitGroup for graceful shutdown
}

type chatSession struct {
	list     *catalog.ListController
	lastSeen time.Time
}

// NewBot connects to Telegram. Controllers of chats idle for longer than
// idleTTL are released from memory; a zero idleTTL keeps them.
func NewBot(token string, store stateStore, cat browser, idleTTL time.Duration) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(botAPI, store, cat)
	b.api = botAPI
	b.idleTTL = idleTTL
	return b, nil
}

func newBot(s sender, store stateStore, cat browser) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		sender:   s,
		catalog:  cat,
		redis:    store,
		posters:  newPosterLoader(),
		sessions: make(map[int64]*chatSession),
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
	}
}

func (b *Bot) Start() {
	slog.Info("Authorized on account", slog.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	defer b.wg.Done()

	if b.idleTTL > 0 {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.sweepPeriodically(sweepInterval)
		}()
	}

	for {
		select {
		case <-b.stopChan:
			slog.Info("Stopping bot update processing")
			return
		case update, ok := <-updates:
			if !ok {
				slog.Info("Updates channel closed")
				return
			}

			// Updates run concurrently; list controllers discard responses
			// that a newer search or page change has superseded.
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !update.Message.IsCommand() {
		b.handleMessage(update.Message)
		return
	}

	switch update.Message.Command() {
	case "start":
		b.handleStartCommand(update.Message)
	case "help":
		b.handleHelpCommand(update.Message)
	}
}

func (b *Bot) Stop() {
	slog.Info("Initiating bot shutdown...")
	close(b.stopChan) // Signal to stop processing updates

	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.cancel()
	b.wg.Wait()

	slog.Info("Bot shutdown complete")
}

// session returns the chat's controller. The stored state is read on every
// call, which keeps it alive in redis; a chat whose state has expired loses
// its controller and gets nil.
func (b *Bot) session(chatID int64) (*catalog.ListController, error) {
	state, err := b.redis.GetState(b.ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		b.evict(chatID)
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		s = &chatSession{list: catalog.NewListController(b.catalog, *state)}
		b.sessions[chatID] = s
	}
	s.lastSeen = time.Now()
	return s.list, nil
}

// controller returns the chat's controller, creating one when the chat has
// none. Callers switch it to a new list with Reset.
func (b *Bot) controller(chatID int64) *catalog.ListController {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		s = &chatSession{list: catalog.NewListController(b.catalog, model.QueryState{})}
		b.sessions[chatID] = s
	}
	s.lastSeen = time.Now()
	return s.list
}

// evict releases the chat's controller. Its request in flight, if any,
// turns stale.
func (b *Bot) evict(chatID int64) {
	b.mu.Lock()
	s, ok := b.sessions[chatID]
	delete(b.sessions, chatID)
	b.mu.Unlock()
	if ok {
		s.list.Stop()
	}
}

// dropSession forgets the chat in memory and in redis.
func (b *Bot) dropSession(chatID int64) {
	b.evict(chatID)
	if err := b.redis.DeleteState(b.ctx, chatID); err != nil {
		slog.Error("Error deleting state from Redis", "error", err)
	}
}

// sweep releases controllers unused since before now-idleTTL. Their state
// stays in redis and is restored on the chat's next request.
func (b *Bot) sweep(now time.Time) int {
	b.mu.Lock()
	var idle []*chatSession
	for chatID, s := range b.sessions {
		if now.Sub(s.lastSeen) > b.idleTTL {
			idle = append(idle, s)
			delete(b.sessions, chatID)
		}
	}
	b.mu.Unlock()

	for _, s := range idle {
		s.list.Stop()
	}
	return len(idle)
}

func (b *Bot) sweepPeriodically(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			return
		case now := <-ticker.C:
			if n := b.sweep(now); n > 0 {
				slog.Debug("Released idle chat sessions", "count", n)
			}
		}
	}
}

func (b *Bot) saveState(chatID int64, state model.QueryState) {
	if err := b.redis.SaveState(b.ctx, chatID, state); err != nil {
		slog.Error("Error saving state to Redis", "chat", chatID, "error", err)
	}
}
