package handler

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

const (
	msgUnknownCommand = "Невідома команда. Скористайтеся кнопками меню."
	msgUnknownAction  = "Невідома дія."
	msgStaleAction    = "Ця дія вже неактуальна. Почніть знову."
	msgCancelled      = "Дію скасовано."
	msgUnexpected     = "Сталася непередбачена помилка. Спробуйте пізніше."
)

// userMessage maps an error to the text shown to the user.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, appErrors.ErrNotRegistered):
		return "⚠️ Ви ще не зареєстровані. Натисніть /start, щоб почати."
	case errors.Is(err, appErrors.ErrValidation):
		return appErrors.FromError(err).Message
	case errors.Is(err, appErrors.ErrNotFound):
		return "❌ Дані не знайдено. Спробуйте почати з /start."
	case errors.Is(err, appErrors.ErrRemoteRejection):
		return "❌ Запит відхилено: " + appErrors.FromError(err).Message
	case errors.Is(err, appErrors.ErrRemoteUnavailable):
		return "⚠️ Сервіс розкладу тимчасово недоступний. Спробуйте пізніше."
	case errors.Is(err, appErrors.ErrDataIntegrity):
		return "❌ Отримано некоректні дані розкладу. Спробуйте пізніше."
	default:
		return msgUnexpected
	}
}

// expected reports errors that are a normal outcome of user input rather
// than a fault worth surfacing.
func expected(err error) bool {
	return errors.Is(err, appErrors.ErrNotRegistered) ||
		errors.Is(err, appErrors.ErrValidation) ||
		errors.Is(err, appErrors.ErrNotFound) ||
		errors.Is(err, appErrors.ErrRemoteRejection)
}

// failChat reports err in a chat. Expected errors are swallowed once the user
// has been told.
func (b *Bot) failChat(chatID int64, err error) error {
	if sendErr := b.reply(chatID, userMessage(err), nil); sendErr != nil {
		b.logger.Warn("failed to report error", zap.Error(sendErr))
	}
	if expected(err) {
		return nil
	}
	return err
}

// failCallback reports err in place of the message behind q.
func (b *Bot) failCallback(q *tgbotapi.CallbackQuery, err error) error {
	if editErr := b.edit(q, userMessage(err), nil); editErr != nil {
		b.logger.Warn("failed to report error", zap.Error(editErr))
	}
	if answerErr := b.answer(q, ""); answerErr != nil {
		b.logger.Debug("failed to answer callback", zap.Error(answerErr))
	}
	if expected(err) {
		return nil
	}
	return err
}

func dataIntegrity(err error) error {
	return appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "catalog returned an unreadable schedule")
}
