package handler

import (
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/noah-isme/schedule-bot/internal/repository"
)

func senderOf(update tgbotapi.Update) *tgbotapi.User {
	switch {
	case update.Message != nil:
		return update.Message.From
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From
	case update.InlineQuery != nil:
		return update.InlineQuery.From
	}
	return nil
}

// stateKey scopes wizard state to one member of a chat.
func stateKey(chatID, userID int64) repository.StateKey {
	return repository.StateKey{ChatID: chatID, UserID: userID}
}

// chatOf returns the chat a callback was pressed in. Buttons under inline
// messages have no chat.
func chatOf(q *tgbotapi.CallbackQuery) (int64, bool) {
	if q.Message == nil || q.Message.Chat == nil {
		return 0, false
	}
	return q.Message.Chat.ID, true
}

func (b *Bot) reply(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) answer(q *tgbotapi.CallbackQuery, text string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(q.ID, text))
	return err
}

// edit replaces the text of the message behind q, whether it lives in a chat
// or was sent through inline mode.
func (b *Bot) edit(q *tgbotapi.CallbackQuery, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	var cfg tgbotapi.EditMessageTextConfig
	if chatID, ok := chatOf(q); ok {
		cfg = tgbotapi.NewEditMessageText(chatID, q.Message.MessageID, text)
	} else {
		cfg = tgbotapi.EditMessageTextConfig{BaseEdit: tgbotapi.BaseEdit{InlineMessageID: q.InlineMessageID}, Text: text}
	}
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.DisableWebPagePreview = true
	cfg.ReplyMarkup = markup
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) deleteMessage(q *tgbotapi.CallbackQuery) error {
	chatID, ok := chatOf(q)
	if !ok {
		_, err := b.api.Request(tgbotapi.EditMessageReplyMarkupConfig{BaseEdit: tgbotapi.BaseEdit{InlineMessageID: q.InlineMessageID}})
		return err
	}
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, q.Message.MessageID))
	return err
}

func escape(s string) string {
	return html.EscapeString(s)
}
