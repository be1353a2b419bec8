package handler

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/render"
)

const (
	msgTeachersPrompt  = "Оберіть викладача, щоб переглянути детальну інформацію:"
	msgTeachersEmpty   = "Список викладачів порожній."
	msgTeacherNotFound = "❌ Викладача не знайдено. Можливо, його було видалено."
	msgPhotoFailed     = "\n\n<i>(Не вдалося завантажити фото)</i>"
)

func (b *Bot) sendTeachers(ctx context.Context, chatID int64) error {
	teachers, err := b.teachers.List(ctx)
	if err != nil {
		return b.failChat(chatID, err)
	}
	if len(teachers) == 0 {
		return b.reply(chatID, msgTeachersEmpty, nil)
	}
	return b.reply(chatID, msgTeachersPrompt, teachersKeyboard(teachers))
}

func (b *Bot) handleTeacherCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if strings.HasPrefix(q.Data, cbTeachers) {
		switch strings.TrimPrefix(q.Data, cbTeachers) {
		case "back":
			chatID, ok := chatOf(q)
			if !ok {
				return b.answer(q, msgStaleAction)
			}
			// the details message may be a photo, which cannot become text
			if err := b.sendTeachers(ctx, chatID); err != nil {
				return err
			}
			if err := b.deleteMessage(q); err != nil {
				b.logger.Debug("failed to remove teacher details", zap.Error(err))
			}
			return b.answer(q, "")
		case "close":
			if err := b.deleteMessage(q); err != nil {
				b.logger.Debug("failed to close teachers", zap.Error(err))
			}
			return b.answer(q, "")
		}
		return b.answer(q, msgUnknownAction)
	}

	id, err := strconv.Atoi(strings.TrimPrefix(q.Data, cbTeacher))
	if err != nil {
		return b.answer(q, msgUnknownAction)
	}

	teacher, found, err := b.teachers.Get(ctx, id)
	if err != nil {
		return b.failCallback(q, err)
	}
	if !found {
		return b.answer(q, msgTeacherNotFound)
	}

	photo, infos := teacher.SplitPhoto()
	text := render.TeacherDetails(*teacher, infos)
	markup := teacherDetailsKeyboard()

	chatID, inChat := chatOf(q)
	if photo == "" || !inChat {
		if err := b.edit(q, text, &markup); err != nil {
			return err
		}
		return b.answer(q, "")
	}

	if err := b.deleteMessage(q); err != nil {
		b.logger.Debug("failed to remove teacher list", zap.Error(err))
	}
	cfg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photo))
	cfg.Caption = text
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.ReplyMarkup = markup
	if _, err := b.api.Send(cfg); err != nil {
		b.logger.Warn("teacher photo failed", zap.Int("teacher_id", id), zap.String("photo", photo), zap.Error(err))
		if err := b.reply(chatID, text+msgPhotoFailed, markup); err != nil {
			return err
		}
	}
	return b.answer(q, "")
}
