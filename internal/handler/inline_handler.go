package handler

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/navigation"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

// handleInlineQuery offers the querying user's own day and week schedules
// for posting into any chat, or a registration prompt.
func (b *Bot) handleInlineQuery(ctx context.Context, q *tgbotapi.InlineQuery) error {
	owner := q.From.ID

	var results []interface{}
	_, err := b.users.Resolve(ctx, owner)
	switch {
	case errors.Is(err, appErrors.ErrNotRegistered):
		markup := registrationKeyboard(b.botUsername)
		results = append(results, tgbotapi.InlineQueryResultArticle{
			Type:        "article",
			ID:          uuid.NewString(),
			Title:       "⚠️ Потрібна реєстрація",
			Description: "Щоб користуватися ботом, спершу потрібно зареєструватися.",
			InputMessageContent: tgbotapi.InputTextMessageContent{
				Text: "Я бот для перегляду розкладу. Щоб почати, будь ласка, зареєструйтесь.",
			},
			ReplyMarkup: &markup,
		})
	case err != nil:
		results = append(results, errorArticle("❌ Не вдалося отримати ваші дані", err))
	default:
		bounds, err := b.semesters.Bounds(ctx)
		if err != nil {
			b.logger.Warn("inline semester lookup failed", zap.Int64("telegram_id", owner), zap.Error(err))
			bounds = navigation.Bounds{}
		}
		results = append(results,
			b.scheduleArticle(ctx, owner, navigation.ModeDay, bounds, "🗓 Мій розклад на сьогодні", "Натисніть, щоб надіслати розклад у цей чат."),
			b.scheduleArticle(ctx, owner, navigation.ModeWeek, bounds, "🗓 Мій розклад на тиждень", "Натисніть, щоб надіслати розклад на весь тиждень."),
		)
	}

	_, reqErr := b.api.Request(tgbotapi.InlineConfig{
		InlineQueryID: q.ID,
		IsPersonal:    true,
		CacheTime:     b.inlineCacheTime,
		Results:       results,
	})
	if reqErr != nil {
		return reqErr
	}
	if err != nil && !expected(err) {
		return err
	}
	return nil
}

func (b *Bot) scheduleArticle(ctx context.Context, owner int64, mode navigation.Mode, bounds navigation.Bounds, title, description string) interface{} {
	text, markup, err := b.scheduleView(ctx, owner, mode, nil, bounds)
	if err != nil {
		b.logger.Warn("inline schedule failed", zap.Int64("telegram_id", owner), zap.String("mode", string(mode)), zap.Error(err))
		return errorArticle("❌ Помилка отримання розкладу", err)
	}
	return tgbotapi.InlineQueryResultArticle{
		Type:        "article",
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		InputMessageContent: tgbotapi.InputTextMessageContent{
			Text:                  text,
			ParseMode:             tgbotapi.ModeHTML,
			DisableWebPagePreview: true,
		},
		ReplyMarkup: &markup,
	}
}

func errorArticle(title string, err error) tgbotapi.InlineQueryResultArticle {
	text := userMessage(err)
	return tgbotapi.InlineQueryResultArticle{
		Type:                "article",
		ID:                  uuid.NewString(),
		Title:               title,
		Description:         text,
		InputMessageContent: tgbotapi.InputTextMessageContent{Text: text},
	}
}
