package bot

import (
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"playpedia/internal/catalog"
)

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("Error sending message", "error", err)
	}
}

func (b *Bot) sendStateExpired(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Your browsing session has expired. Please pick a section again.")
	msg.ReplyMarkup = b.createMainMenuKeyboard()
	if _, err := b.sender.Send(msg); err != nil {
		slog.Error("Error sending session expired message", "error", err)
	}
}

func (b *Bot) sendError(chatID int64, err error) {
	slog.Error("Page load failed", "chat", chatID, "error", err)
	b.sendText(chatID, formatError(err))
}

func (b *Bot) sendChatAction(chatID int64, action string) {
	if _, err := b.sender.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		slog.Error("Error sending chat action", "action", action, "error", err)
	}
}

func (b *Bot) sendList(chatID int64, view catalog.ListView) {
	msg := tgbotapi.NewMessage(chatID, formatList(view))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if keyboard := b.createListKeyboard(view); keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.sender.Send(msg); err != nil {
		slog.Error("Error sending list", "resource", view.State.Resource, "error", err)
	}
}

func (b *Bot) sendGameDetail(chatID int64, d catalog.GameDetail) {
	start := time.Now()
	defer func() {
		slog.Debug("sendGameDetail executed",
			"duration", time.Since(start).Seconds(),
			"screenshots", len(d.Screenshots))
	}()

	b.sendCover(chatID, d)
	b.sendScreenshots(chatID, d)

	if sections := formatGameSections(d); sections != "" {
		msg := tgbotapi.NewMessage(chatID, sections)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := b.sender.Send(msg); err != nil {
			slog.Error("Error sending game sections", "game", d.Game.ID, "error", err)
		}
	}
}

// sendCover sends the cover with the caption, or the caption alone when the
// cover cannot be used.
func (b *Bot) sendCover(chatID int64, d catalog.GameDetail) {
	caption := formatGameCaption(d)
	if d.Game.BackgroundImage != "" {
		b.sendChatAction(chatID, tgbotapi.ChatUploadPhoto)
		cover, err := b.posters.load(b.ctx, d.Game.BackgroundImage)
		if err != nil {
			slog.Warn("Failed to download cover", "game", d.Game.ID, "error", err)
			b.sendText(chatID, caption)
			return
		}
		photo := tgbotapi.NewPhoto(chatID, cover)
		photo.Caption = caption
		if _, err = b.sender.Send(photo); err == nil {
			return
		}
		slog.Error("Failed to send game cover", "game", d.Game.ID, "error", err)
	}
	b.sendText(chatID, caption)
}

func (b *Bot) sendScreenshots(chatID int64, d catalog.GameDetail) {
	var urls []string
	for _, s := range d.Screenshots {
		if len(urls) == mediaGroupLimit {
			break
		}
		urls = append(urls, s.Image)
	}
	if len(urls) == 0 {
		return
	}

	files := b.posters.loadAll(b.ctx, urls)
	if len(files) == 0 {
		return
	}
	var media []interface{}
	for _, f := range files {
		media = append(media, tgbotapi.NewInputMediaPhoto(f))
	}
	if _, err := b.sender.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media)); err != nil {
		slog.Error("SendMediaGroup error", "game", d.Game.ID, "error", err)
	}
}

func (b *Bot) sendEntityDetail(chatID int64, d catalog.EntityDetail) {
	msg := tgbotapi.NewMessage(chatID, formatEntityDetail(d))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.sender.Send(msg); err != nil {
		slog.Error("Error sending entity detail", "resource", d.Resource.Kind, "error", err)
	}
	b.sendList(chatID, d.Games)
}
