package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/dto"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

// BroadcastTimeLayout is the format admins type schedule times in. Times are UTC.
const BroadcastTimeLayout = "2006-01-02 15:04"

type broadcastRepository interface {
	Create(ctx context.Context, req dto.CreateBroadcastRequest) error
}

// BroadcastService submits admin broadcasts to the catalog.
type BroadcastService struct {
	repo      broadcastRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBroadcastService creates a broadcast service.
func NewBroadcastService(repo broadcastRepository, validate *validator.Validate, logger *zap.Logger) *BroadcastService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BroadcastService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// ParseScheduleTime parses an admin supplied send time, which must lie in
// the future.
func (s *BroadcastService) ParseScheduleTime(raw string) (time.Time, error) {
	at, err := time.ParseInLocation(BroadcastTimeLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"❌ Неправильний формат. Будь ласка, введіть дату та час у форматі `РРРР-ММ-ДД ГГ:ХХ`.")
	}
	if !at.After(s.now().UTC()) {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "❌ Помилка: вказаний час вже минув. Введіть майбутню дату та час.")
	}
	return at, nil
}

// Create queues a broadcast and returns the report for the admin. Catalog
// failures are reported in the text; a non-nil error means the input was
// rejected before any call was made.
func (s *BroadcastService) Create(ctx context.Context, text string, scheduledAt *time.Time) (string, error) {
	req := dto.CreateBroadcastRequest{MessageText: text, ScheduledAt: scheduledAt}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"❌ Помилка: текст повідомлення не знайдено. Спробуйте знову.")
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Warn("create broadcast failed", zap.Int("status", appErrors.StatusOf(err)), zap.Error(err))
		return broadcastFailure(err), nil
	}

	if scheduledAt != nil {
		return fmt.Sprintf("✅ Розсилку успішно заплановано на %s (UTC)!\n\n"+
			"Вона буде надіслана при наступному запуску розсилки після вказаного часу.",
			scheduledAt.UTC().Format(BroadcastTimeLayout)), nil
	}
	return "✅ Розсилку для негайної відправки успішно створено!\n\n" +
		"Вона буде надіслана при наступному запуску розсилки.", nil
}

func broadcastFailure(err error) string {
	if errors.Is(err, appErrors.ErrRemoteRejection) {
		return "❌ Помилка валідації: " + appErrors.FromError(err).Message
	}
	status := appErrors.StatusOf(err)
	if status == http.StatusUnauthorized {
		return "❌ Помилка авторизації: Невірний ключ доступу до API. Перевірте налаштування."
	}
	return fmt.Sprintf("❌ Сталася непередбачена помилка API (%d) при створенні розсилки.", status)
}
