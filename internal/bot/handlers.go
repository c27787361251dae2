package bot

import (
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

// handleStartCommand starts the chat over from the menu.
func (b *Bot) handleStartCommand(msg *tgbotapi.Message) {
	b.dropSession(msg.Chat.ID)

	text := "Hi! I browse the RAWG video game database.\n\n" +
		"Pick a section to start:"
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = b.createMainMenuKeyboard()
	if _, err := b.sender.Send(reply); err != nil {
		slog.Error("Error sending message in handleStartCommand", "error", err)
	}
}

func (b *Bot) handleHelpCommand(msg *tgbotapi.Message) {
	text := "How to use the bot:\n\n" +
		"1. Pick a section from the menu\n" +
		"2. Type any text to search within it\n" +
		"3. Use ⬅ and ➡ to change pages, tap an item to open it\n\n" +
		"Commands:\n" +
		"/start - show the menu\n" +
		"/help - show this help"
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = b.createMainMenuKeyboard()
	if _, err := b.sender.Send(reply); err != nil {
		slog.Error("Error sending message in handleHelpCommand", "error", err)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if res, ok := catalog.LookupLabel(msg.Text); ok {
		b.selectResource(msg.Chat.ID, res)
		return
	}
	b.processSearchQuery(msg)
}

// selectResource opens the first unfiltered page of a section.
func (b *Bot) selectResource(chatID int64, res catalog.Resource) {
	c := b.controller(chatID)
	view, err := c.Reset(b.ctx, model.QueryState{Resource: res.Kind, Page: 1})
	b.deliverList(chatID, c, view, err)
}

func (b *Bot) processSearchQuery(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	c, err := b.session(chatID)
	if err != nil {
		slog.Error("Error getting state from Redis", "error", err)
		return
	}

	if c == nil {
		reply := tgbotapi.NewMessage(chatID, "Please pick a section with the buttons below 👇")
		reply.ReplyMarkup = b.createMainMenuKeyboard()
		if _, err := b.sender.Send(reply); err != nil {
			slog.Error("Error sending choose section message", "error", err)
		}
		return
	}

	query := strings.TrimSpace(msg.Text)
	if query == "" {
		b.sendText(chatID, "Please type something to search for")
		return
	}

	view, err := c.SetSearch(b.ctx, query)
	b.deliverList(chatID, c, view, err)
}

// deliverList persists the controller state and sends the page, or the
// error view. Superseded responses are dropped silently.
func (b *Bot) deliverList(chatID int64, c *catalog.ListController, view catalog.ListView, err error) {
	if errors.Is(err, catalog.ErrStale) || b.superseded(chatID, c, view.State) {
		slog.Debug("Dropped stale list response", "chat", chatID)
		return
	}
	b.saveState(chatID, c.State())
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendList(chatID, view)
}

// superseded reports whether the chat has moved on from state since it was
// requested on c: c was replaced or released, or has a newer state.
func (b *Bot) superseded(chatID int64, c *catalog.ListController, state model.QueryState) bool {
	b.mu.Lock()
	s, ok := b.sessions[chatID]
	b.mu.Unlock()
	return !ok || s.list != c || c.State() != state
}
