package handler

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/navigation"
	"github.com/noah-isme/schedule-bot/internal/render"
)

const msgNoFurther = "Далі розкладу в цьому семестрі немає."

// scheduleView renders the schedule of owner with its navigation keyboard. A
// nil date lets the catalog choose today.
func (b *Bot) scheduleView(ctx context.Context, owner int64, mode navigation.Mode, date *time.Time, bounds navigation.Bounds) (string, tgbotapi.InlineKeyboardMarkup, error) {
	var (
		text string
		view time.Time
	)
	switch mode {
	case navigation.ModeWeek:
		week, err := b.schedules.ForWeek(ctx, owner, date)
		if err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, err
		}
		if text, err = render.Week(*week); err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, dataIntegrity(err)
		}
		if view, err = week.Start(); err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, dataIntegrity(err)
		}
	default:
		day, err := b.schedules.ForDay(ctx, owner, date)
		if err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, err
		}
		if text, err = render.Day(*day); err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, dataIntegrity(err)
		}
		if view, err = day.Day(); err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, dataIntegrity(err)
		}
	}

	rows := navigation.Affordances(navigation.View{Mode: mode, Date: view, OwnerID: owner}, bounds)
	return text, navigationKeyboard(rows), nil
}

func (b *Bot) sendDay(ctx context.Context, chatID, telegramID int64) error {
	return b.sendSchedule(ctx, chatID, telegramID, navigation.ModeDay)
}

func (b *Bot) sendWeek(ctx context.Context, chatID, telegramID int64) error {
	return b.sendSchedule(ctx, chatID, telegramID, navigation.ModeWeek)
}

func (b *Bot) sendSchedule(ctx context.Context, chatID, telegramID int64, mode navigation.Mode) error {
	bounds, err := b.semesters.Bounds(ctx)
	if err != nil {
		return b.failChat(chatID, err)
	}
	text, markup, err := b.scheduleView(ctx, telegramID, mode, nil, bounds)
	if err != nil {
		return b.failChat(chatID, err)
	}
	return b.reply(chatID, text, markup)
}

// handleNavigation moves a schedule message according to its token. The
// schedule always belongs to the token owner, whoever pressed the button.
func (b *Bot) handleNavigation(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	token, err := navigation.Decode(q.Data)
	if err != nil {
		b.logger.Debug("bad navigation token", zap.String("data", q.Data), zap.Error(err))
		return b.answer(q, msgUnknownAction)
	}

	if token.Action == navigation.ActionClose {
		if err := b.deleteMessage(q); err != nil {
			b.logger.Debug("failed to close schedule", zap.Error(err))
		}
		return b.answer(q, "")
	}

	bounds, err := b.semesters.Bounds(ctx)
	if err != nil {
		return b.failCallback(q, err)
	}

	target := token.Date
	if token.Action == navigation.ActionShow {
		target = clamp(target, bounds)
	} else {
		var ok bool
		target, ok = navigation.Step(token.Date, token.Mode, token.Action, bounds)
		if !ok {
			return b.answer(q, msgNoFurther)
		}
	}

	text, markup, err := b.scheduleView(ctx, token.OwnerID, token.Mode, &target, bounds)
	if err != nil {
		return b.failCallback(q, err)
	}
	if err := b.edit(q, text, &markup); err != nil {
		// an unchanged message is rejected by Telegram
		b.logger.Debug("failed to edit schedule", zap.Error(err))
	}
	return b.answer(q, "")
}

func clamp(date time.Time, bounds navigation.Bounds) time.Time {
	if !bounds.Known() {
		return date
	}
	if date.Before(bounds.Start) {
		return bounds.Start
	}
	if date.After(bounds.End) {
		return bounds.End
	}
	return date
}
