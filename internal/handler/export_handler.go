package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/noah-isme/schedule-bot/internal/service"
)

// sendExport attaches the current week of the sender as a document. The
// optional argument picks the format.
func (b *Bot) sendExport(ctx context.Context, msg *tgbotapi.Message) error {
	format := service.ExportPDF
	if strings.EqualFold(strings.TrimSpace(msg.CommandArguments()), string(service.ExportCSV)) {
		format = service.ExportCSV
	}

	doc, err := b.exports.Week(ctx, msg.From.ID, nil, format)
	if err != nil {
		return b.failChat(msg.Chat.ID, err)
	}

	cfg := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: doc.Name, Bytes: doc.Content})
	cfg.Caption = "📄 Розклад на тиждень"
	_, err = b.api.Send(cfg)
	return err
}
