package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/render"
)

const (
	msgSubjectsPrompt  = "Оберіть предмет, щоб переглянути детальну інформацію:"
	msgSubjectsEmpty   = "Список предметів порожній."
	msgSubjectNotFound = "❌ Предмет не знайдено, або для вашої групи немає інформації."
)

func (b *Bot) sendSubjects(ctx context.Context, chatID int64) error {
	subjects, err := b.subjects.List(ctx)
	if err != nil {
		return b.failChat(chatID, err)
	}
	if len(subjects) == 0 {
		return b.reply(chatID, msgSubjectsEmpty, nil)
	}
	return b.reply(chatID, msgSubjectsPrompt, subjectsKeyboard(subjects))
}

func (b *Bot) handleSubjectCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if strings.HasPrefix(q.Data, cbSubjects) {
		switch strings.TrimPrefix(q.Data, cbSubjects) {
		case "back":
			subjects, err := b.subjects.List(ctx)
			if err != nil {
				return b.failCallback(q, err)
			}
			markup := subjectsKeyboard(subjects)
			if err := b.edit(q, msgSubjectsPrompt, &markup); err != nil {
				return err
			}
			return b.answer(q, "")
		case "close":
			if err := b.deleteMessage(q); err != nil {
				b.logger.Debug("failed to close subjects", zap.Error(err))
			}
			return b.answer(q, "")
		}
		return b.answer(q, msgUnknownAction)
	}

	abbreviation := strings.TrimPrefix(q.Data, cbSubject)
	if abbreviation == "" {
		return b.answer(q, msgUnknownAction)
	}

	// details are scoped to the group of a registered user
	user, err := b.users.Resolve(ctx, q.From.ID)
	if err != nil {
		return b.failCallback(q, err)
	}

	details, found, err := b.subjects.Details(ctx, abbreviation, user.GroupID)
	if err != nil {
		return b.failCallback(q, err)
	}
	if !found {
		return b.answer(q, msgSubjectNotFound)
	}

	markup := subjectDetailsKeyboard()
	if err := b.edit(q, render.SubjectDetails(*details), &markup); err != nil {
		return err
	}
	return b.answer(q, "")
}
