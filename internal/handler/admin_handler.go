package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/internal/service"
)

const (
	msgAdminOnly       = "⛔️ Ця дія доступна лише адміністраторам."
	msgAdminWelcome    = "Вітаємо в адмін-панелі!"
	msgBroadcastType   = "Оберіть тип розсилки:"
	msgBroadcastText   = "Введіть текст повідомлення для негайної розсилки:"
	msgBroadcastAgain  = "Введіть новий текст повідомлення:"
	msgBroadcastTime   = "Введіть дату та час розсилки у форматі <code>РРРР-ММ-ДД ГГ:ХХ</code> (UTC), наприклад: <code>2024-09-01 08:30</code>"
	msgBroadcastEmpty  = "Текст повідомлення не може бути порожнім. Спробуйте ще раз:"
	previewSeparator   = "────────────────────"
	msgBroadcastHeader = "<b><u>Попередній перегляд розсилки</u></b>\n\n"

	stepBroadcastPrefix = "broadcast:"
)

func (b *Bot) openAdminPanel(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.isAdmin(ctx, msg.From.ID) {
		return b.reply(msg.Chat.ID, msgAdminOnly, nil)
	}
	return b.reply(msg.Chat.ID, msgAdminWelcome, adminPanelKeyboard())
}

func (b *Bot) handleAdminCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID, ok := chatOf(q)
	if !ok {
		return b.answer(q, msgStaleAction)
	}
	key := stateKey(chatID, q.From.ID)
	if !b.isAdmin(ctx, q.From.ID) {
		b.states.Clear(key)
		return b.answer(q, msgAdminOnly)
	}

	if strings.HasPrefix(q.Data, cbAdmin) {
		switch strings.TrimPrefix(q.Data, cbAdmin) {
		case "broadcast":
			b.states.Set(key, models.ChatState{Step: models.StepBroadcastType})
			markup := broadcastTypeKeyboard()
			return b.editAndAnswer(q, msgBroadcastType, &markup)
		case "close":
			b.states.Clear(key)
			if err := b.deleteMessage(q); err != nil {
				b.logger.Debug("failed to close admin panel", zap.Error(err))
			}
			return b.answer(q, "")
		}
		return b.answer(q, msgUnknownAction)
	}

	action := strings.TrimPrefix(q.Data, cbBroadcast)
	if action == "cancel" {
		b.states.Clear(key)
		return b.editAndAnswer(q, msgCancelled, nil)
	}

	if !b.states.InStep(key, stepBroadcastPrefix) {
		return b.answer(q, msgStaleAction)
	}
	state, _ := b.states.Get(key)
	cancel := cancelKeyboard()

	switch action {
	case "now":
		b.states.Set(key, models.ChatState{Step: models.StepBroadcastMessage})
		return b.editAndAnswer(q, msgBroadcastText, &cancel)

	case "schedule":
		b.states.Set(key, models.ChatState{Step: models.StepBroadcastTime, Broadcast: models.BroadcastDraft{Scheduled: true}})
		return b.editAndAnswer(q, msgBroadcastTime, &cancel)

	case "edit_text":
		state.Step = models.StepBroadcastMessage
		b.states.Set(key, state)
		return b.editAndAnswer(q, msgBroadcastAgain, &cancel)

	case "edit_time":
		if !state.Broadcast.Scheduled {
			return b.answer(q, msgUnknownAction)
		}
		state.Step = models.StepBroadcastTime
		b.states.Set(key, state)
		return b.editAndAnswer(q, msgBroadcastTime, &cancel)

	case "send":
		if state.Step != models.StepBroadcastConfirm {
			return b.answer(q, msgStaleAction)
		}
		b.states.Clear(key)
		report, err := b.broadcasts.Create(ctx, state.Broadcast.Text, state.Broadcast.ScheduledAt)
		if err != nil {
			return b.failCallback(q, err)
		}
		b.logger.Info("broadcast submitted", zap.Int64("telegram_id", q.From.ID), zap.Bool("scheduled", state.Broadcast.Scheduled))
		return b.editAndAnswer(q, report, nil)
	}
	return b.answer(q, msgUnknownAction)
}

func (b *Bot) receiveBroadcastTime(ctx context.Context, msg *tgbotapi.Message, state models.ChatState) error {
	if !b.isAdmin(ctx, msg.From.ID) {
		b.states.Clear(stateKey(msg.Chat.ID, msg.From.ID))
		return b.reply(msg.Chat.ID, msgAdminOnly, nil)
	}

	at, err := b.broadcasts.ParseScheduleTime(msg.Text)
	if err != nil {
		if expected(err) {
			return b.reply(msg.Chat.ID, userMessage(err), cancelKeyboard())
		}
		return b.failChat(msg.Chat.ID, err)
	}

	state.Broadcast.Scheduled = true
	state.Broadcast.ScheduledAt = &at
	if state.Broadcast.Text != "" {
		return b.sendBroadcastPreview(msg, state)
	}

	state.Step = models.StepBroadcastMessage
	b.states.Set(stateKey(msg.Chat.ID, msg.From.ID), state)
	text := "✅ Час заплановано на " + at.Format(service.BroadcastTimeLayout) + " UTC.\n\nТепер введіть текст повідомлення:"
	return b.reply(msg.Chat.ID, text, cancelKeyboard())
}

func (b *Bot) receiveBroadcastText(ctx context.Context, msg *tgbotapi.Message, state models.ChatState) error {
	if !b.isAdmin(ctx, msg.From.ID) {
		b.states.Clear(stateKey(msg.Chat.ID, msg.From.ID))
		return b.reply(msg.Chat.ID, msgAdminOnly, nil)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return b.reply(msg.Chat.ID, msgBroadcastEmpty, cancelKeyboard())
	}
	state.Broadcast.Text = text
	return b.sendBroadcastPreview(msg, state)
}

func (b *Bot) sendBroadcastPreview(msg *tgbotapi.Message, state models.ChatState) error {
	chatID := msg.Chat.ID
	state.Step = models.StepBroadcastConfirm
	b.states.Set(stateKey(chatID, msg.From.ID), state)

	var sb strings.Builder
	sb.WriteString(msgBroadcastHeader)
	if state.Broadcast.Scheduled && state.Broadcast.ScheduledAt != nil {
		sb.WriteString("🕒 <b>Заплановано на:</b> " + state.Broadcast.ScheduledAt.UTC().Format(service.BroadcastTimeLayout) + " UTC\n\n")
	} else {
		sb.WriteString("🚀 <b>Тип:</b> негайна розсилка\n\n")
	}
	sb.WriteString("<b>Текст повідомлення:</b>\n" + previewSeparator + "\n")
	sb.WriteString(state.Broadcast.Text)

	return b.reply(chatID, sb.String(), broadcastConfirmKeyboard(state.Broadcast.Scheduled))
}

func (b *Bot) editAndAnswer(q *tgbotapi.CallbackQuery, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if err := b.edit(q, text, markup); err != nil {
		return err
	}
	return b.answer(q, "")
}
