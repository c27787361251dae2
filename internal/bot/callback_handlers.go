package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

const (
	callbackPage  = "page"
	callbackClear = "clear"
	callbackOpen  = "open"
)

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		slog.Warn("Received callback without message", "data", query.Data)
		return
	}

	callbackConfig := tgbotapi.CallbackConfig{
		CallbackQueryID: query.ID,
	}
	if _, err := b.sender.Request(callbackConfig); err != nil {
		slog.Error("Error sending callback response", "error", err)
	}

	parts := strings.Split(query.Data, ":")
	chatID := query.Message.Chat.ID

	requiredParts := map[string]int{
		callbackPage: 2,
		callbackOpen: 3,
	}
	if n, ok := requiredParts[parts[0]]; ok && len(parts) < n {
		slog.Warn("Invalid callback format", "data", query.Data)
		return
	}

	switch parts[0] {
	case callbackClear:
		b.handleClearSearch(chatID)
	case callbackPage:
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			slog.Warn("Invalid page in callback", "data", query.Data)
			return
		}
		b.handlePagination(chatID, page)
	case callbackOpen:
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			slog.Warn("Invalid id in callback", "data", query.Data)
			return
		}
		b.handleOpen(chatID, parts[1], id)
	default:
		slog.Warn("Unknown callback", "data", query.Data)
	}
}

func (b *Bot) handlePagination(chatID int64, page int) {
	c, err := b.session(chatID)
	if err != nil {
		slog.Error("Error getting state in handlePagination", "error", err)
		b.sendStateExpired(chatID)
		return
	}
	if c == nil {
		b.sendStateExpired(chatID)
		return
	}

	view, err := c.SetPage(b.ctx, page)
	b.deliverList(chatID, c, view, err)
}

func (b *Bot) handleClearSearch(chatID int64) {
	c, err := b.session(chatID)
	if err != nil || c == nil {
		b.sendStateExpired(chatID)
		return
	}
	view, err := c.SetSearch(b.ctx, "")
	b.deliverList(chatID, c, view, err)
}

func (b *Bot) handleOpen(chatID int64, kind string, id int) {
	res, err := catalog.Lookup(kind)
	if err != nil {
		slog.Warn("Open of unknown resource", "kind", kind)
		return
	}

	if res.IsGames() {
		b.sendChatAction(chatID, tgbotapi.ChatTyping)
		detail, err := b.catalog.GameDetail(b.ctx, id)
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		b.sendGameDetail(chatID, detail)
		return
	}

	// An opened entity becomes the chat's list: typing searches its games
	// and the page buttons move through them.
	state := model.QueryState{Resource: catalog.KindGames, Parent: res.Kind, ParentID: id, Page: 1}
	c := b.controller(chatID)
	var detail catalog.EntityDetail
	view, err := c.ResetWith(b.ctx, state, func(ctx context.Context, s model.QueryState) (catalog.ListView, error) {
		d, err := b.catalog.EntityDetail(ctx, res.Kind, id, s)
		if err != nil {
			return catalog.ListView{State: s}, err
		}
		detail = d
		return d.Games, nil
	})
	if errors.Is(err, catalog.ErrStale) || b.superseded(chatID, c, view.State) {
		slog.Debug("Dropped stale entity response", "chat", chatID)
		return
	}
	b.saveState(chatID, c.State())
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendEntityDetail(chatID, detail)
}
