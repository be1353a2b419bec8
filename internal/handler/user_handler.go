package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/internal/render"
	"github.com/noah-isme/schedule-bot/internal/service"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

const (
	msgWelcome        = "👋 Привіт! Я бот для роботи з розкладом.\n\nДля початку, будь ласка, оберіть вашу групу зі списку:"
	msgNoGroups       = "На жаль, зараз немає доступних груп для вибору. Спробуйте пізніше."
	msgNoRegions      = "На жаль, зараз немає доступних часових поясів. Спробуйте пізніше."
	msgAlreadyExists  = "⚠️ Ви вже були зареєстровані."
	msgChooseAction   = "Оберіть дію з меню:"
	msgStrangeFailure = "❌ Сталася дивна помилка: обрану групу або регіон не знайдено. Спробуйте /start."
)

// startRegistration begins the group then region wizard.
func (b *Bot) startRegistration(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	groups, err := b.groups.List(ctx)
	if err != nil {
		return b.failChat(chatID, err)
	}
	if len(groups) == 0 {
		return b.reply(chatID, msgNoGroups, nil)
	}

	b.states.Set(stateKey(chatID, msg.From.ID), models.ChatState{Step: models.StepRegistrationGroup})
	return b.reply(chatID, msgWelcome, groupsKeyboard(groups))
}

func (b *Bot) sendGroups(ctx context.Context, msg *tgbotapi.Message) error {
	groups, err := b.groups.List(ctx)
	if err != nil {
		return b.failChat(msg.Chat.ID, err)
	}
	return b.reply(msg.Chat.ID, render.Groups(groups), nil)
}

func (b *Bot) handleGroupChoice(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID, ok := chatOf(q)
	if !ok {
		return b.answer(q, msgStaleAction)
	}
	groupID, err := strconv.Atoi(strings.TrimPrefix(q.Data, cbGroup))
	if err != nil {
		return b.answer(q, msgUnknownAction)
	}

	key := stateKey(chatID, q.From.ID)
	state, ok := b.states.Get(key)
	if !ok {
		return b.answer(q, msgStaleAction)
	}

	name, found, err := b.groups.NameByID(ctx, groupID)
	if err != nil {
		return b.failCallback(q, err)
	}
	if !found {
		name = strconv.Itoa(groupID)
	}

	switch state.Step {
	case models.StepRegistrationGroup:
		regions, err := b.regions.List(ctx)
		if err != nil {
			return b.failCallback(q, err)
		}
		if len(regions) == 0 {
			b.states.Clear(key)
			if err := b.edit(q, msgNoRegions, nil); err != nil {
				return err
			}
			return b.answer(q, "")
		}
		b.states.Set(stateKey(chatID, q.From.ID), models.ChatState{Step: models.StepRegistrationRegion, GroupID: groupID, GroupName: name})
		markup := regionsKeyboard(regions)
		if err := b.edit(q, "✅ Ви обрали групу: <b>"+escape(name)+"</b>\n\nТепер, будь ласка, оберіть ваш часовий пояс:", &markup); err != nil {
			return err
		}
		return b.answer(q, "")

	case models.StepSettingsGroup:
		b.states.Clear(key)
		if err := b.edit(q, "Оновлюю вашу групу...", nil); err != nil {
			b.logger.Debug("failed to show progress", zap.Error(err))
		}
		if err := b.users.ChangeGroup(ctx, q.From.ID, groupID); err != nil {
			return b.settingsFailure(q, "❌ Сталася помилка під час зміни групи: ", err)
		}
		if err := b.edit(q, "✅ Вашу групу успішно змінено на <b>"+escape(name)+"</b>.", nil); err != nil {
			return err
		}
		return b.answer(q, "")
	}
	return b.answer(q, msgStaleAction)
}

func (b *Bot) handleRegionChoice(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID, ok := chatOf(q)
	if !ok {
		return b.answer(q, msgStaleAction)
	}
	rawRegion := strings.TrimPrefix(q.Data, cbRegion)

	key := stateKey(chatID, q.From.ID)
	state, ok := b.states.Get(key)
	if !ok {
		return b.answer(q, msgStaleAction)
	}

	switch state.Step {
	case models.StepRegistrationRegion:
		b.states.Clear(key)
		return b.completeRegistration(ctx, q, chatID, state, rawRegion)

	case models.StepSettingsRegion:
		b.states.Clear(key)
		regionID, err := strconv.Atoi(rawRegion)
		if err != nil {
			return b.answer(q, msgUnknownAction)
		}
		name, found, err := b.regions.NameByID(ctx, regionID)
		if err != nil {
			return b.failCallback(q, err)
		}
		if !found {
			name = rawRegion
		}
		if err := b.edit(q, "Оновлюю ваш часовий пояс...", nil); err != nil {
			b.logger.Debug("failed to show progress", zap.Error(err))
		}
		if err := b.users.ChangeRegion(ctx, q.From.ID, regionID); err != nil {
			return b.settingsFailure(q, "❌ Сталася помилка під час зміни часового поясу: ", err)
		}
		if err := b.edit(q, "✅ Ваш часовий пояс успішно змінено на <b>"+escape(name)+"</b>.", nil); err != nil {
			return err
		}
		return b.answer(q, "")
	}
	return b.answer(q, msgStaleAction)
}

func (b *Bot) completeRegistration(ctx context.Context, q *tgbotapi.CallbackQuery, chatID int64, state models.ChatState, rawRegion string) error {
	if err := b.edit(q, "Реєструю вас...", nil); err != nil {
		b.logger.Debug("failed to show progress", zap.Error(err))
	}

	confirmation, err := b.users.Register(ctx, service.RegisterRequest{
		TelegramID: q.From.ID,
		Username:   q.From.UserName,
		GroupID:    strconv.Itoa(state.GroupID),
		RegionID:   rawRegion,
	})
	switch {
	case err == nil:
		if err := b.edit(q, confirmation, nil); err != nil {
			b.logger.Debug("failed to confirm registration", zap.Error(err))
		}
		if err := b.answer(q, ""); err != nil {
			b.logger.Debug("failed to answer callback", zap.Error(err))
		}
		text := "Чудово, " + escape(q.From.FirstName) + "! Тепер ви можете користуватися ботом. Оберіть дію з меню нижче:"
		return b.reply(chatID, text, mainKeyboard(b.isAdmin(ctx, q.From.ID)))

	case errors.Is(err, appErrors.ErrRemoteRejection):
		if err := b.edit(q, msgAlreadyExists, nil); err != nil {
			b.logger.Debug("failed to report registration", zap.Error(err))
		}
		if err := b.answer(q, ""); err != nil {
			b.logger.Debug("failed to answer callback", zap.Error(err))
		}
		return b.reply(chatID, msgChooseAction, mainKeyboard(b.isAdmin(ctx, q.From.ID)))

	case errors.Is(err, appErrors.ErrNotFound):
		if err := b.edit(q, msgStrangeFailure, nil); err != nil {
			return err
		}
		return b.answer(q, "")
	}
	return b.failCallback(q, err)
}

func (b *Bot) settingsFailure(q *tgbotapi.CallbackQuery, prefix string, err error) error {
	if editErr := b.edit(q, prefix+userMessage(err), nil); editErr != nil {
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

// isAdmin reports whether telegramID is a registered admin. Lookup failures
// count as not admin.
func (b *Bot) isAdmin(ctx context.Context, telegramID int64) bool {
	user, err := b.users.Resolve(ctx, telegramID)
	if err != nil {
		if !expected(err) {
			b.logger.Warn("admin lookup failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
		return false
	}
	return user.IsAdmin
}
