package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

const buttonTextLimit = 60

func (b *Bot) createMainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, res := range catalog.Resources() {
		row = append(row, tgbotapi.NewKeyboardButton(res.Label))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

// createListKeyboard lists one button per card and a navigation row. A
// control that cannot be used is left out: no ⬅ on page 1, no ➡ without a
// next page.
func (b *Bot) createListKeyboard(view catalog.ListView) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, card := range view.Cards {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(openButton(card)))
	}

	if nav := b.createPaginationRow(view); len(nav) > 0 {
		rows = append(rows, nav)
	}
	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func (b *Bot) createPaginationRow(view catalog.ListView) []tgbotapi.InlineKeyboardButton {
	var buttons []tgbotapi.InlineKeyboardButton
	if view.HasPrevious() {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("⬅", callbackPage+":"+strconv.Itoa(view.State.Page-1)))
	}
	if view.State.Search != "" {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("✖ Clear search", callbackClear))
	}
	if view.HasNext {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("➡", callbackPage+":"+strconv.Itoa(view.State.Page+1)))
	}
	return buttons
}

func openButton(card model.Card) tgbotapi.InlineKeyboardButton {
	text := []rune(card.Title)
	if len(text) > buttonTextLimit {
		text = append(text[:buttonTextLimit-1], '…')
	}
	return tgbotapi.NewInlineKeyboardButtonData(string(text), callbackOpen+":"+card.Kind+":"+strconv.Itoa(card.ID))
}
