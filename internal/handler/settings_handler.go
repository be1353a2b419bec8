package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
)

func (b *Bot) openSettings(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.users.Resolve(ctx, msg.From.ID); err != nil {
		return b.failChat(msg.Chat.ID, err)
	}
	return b.reply(msg.Chat.ID, "Оберіть, що бажаєте змінити:", settingsKeyboard())
}

func (b *Bot) handleSettingsAction(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID, ok := chatOf(q)
	if !ok {
		return b.answer(q, msgStaleAction)
	}

	switch strings.TrimPrefix(q.Data, cbSettings) {
	case "change_group":
		groups, err := b.groups.List(ctx)
		if err != nil {
			return b.failCallback(q, err)
		}
		if len(groups) == 0 {
			return b.answer(q, msgNoGroups)
		}
		b.states.Set(stateKey(chatID, q.From.ID), models.ChatState{Step: models.StepSettingsGroup})
		markup := groupsKeyboard(groups)
		if err := b.edit(q, "Будь ласка, оберіть вашу нову групу зі списку:", &markup); err != nil {
			return err
		}
		return b.answer(q, "")

	case "change_region":
		regions, err := b.regions.List(ctx)
		if err != nil {
			return b.failCallback(q, err)
		}
		if len(regions) == 0 {
			return b.answer(q, msgNoRegions)
		}
		b.states.Set(stateKey(chatID, q.From.ID), models.ChatState{Step: models.StepSettingsRegion})
		markup := regionsKeyboard(regions)
		if err := b.edit(q, "Будь ласка, оберіть ваш новий часовий пояс:", &markup); err != nil {
			return err
		}
		return b.answer(q, "")

	case "close":
		b.states.Clear(stateKey(chatID, q.From.ID))
		if err := b.deleteMessage(q); err != nil {
			b.logger.Debug("failed to close settings", zap.Error(err))
		}
		return b.answer(q, "")
	}
	return b.answer(q, msgUnknownAction)
}
