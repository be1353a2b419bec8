package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

type scheduleRepository interface {
	Daily(ctx context.Context, groupID int, timeZoneID string, date *time.Time) (*models.DailySchedule, error)
	Weekly(ctx context.Context, groupID int, timeZoneID string, date *time.Time) (*models.WeeklySchedule, error)
}

type userResolver interface {
	Resolve(ctx context.Context, telegramID int64) (*models.User, error)
}

type timezoneResolver interface {
	TimezoneByID(ctx context.Context, id int) (string, bool, error)
}

// ScheduleService resolves group schedules for Telegram identities.
type ScheduleService struct {
	repo    scheduleRepository
	users   userResolver
	regions timezoneResolver
	logger  *zap.Logger
}

// NewScheduleService creates a schedule resolver.
func NewScheduleService(repo scheduleRepository, users userResolver, regions timezoneResolver, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, users: users, regions: regions, logger: logger}
}

// ForDay returns the schedule of the user's group on date. A nil date lets
// the catalog pick today in the user's timezone.
func (s *ScheduleService) ForDay(ctx context.Context, telegramID int64, date *time.Time) (*models.DailySchedule, error) {
	user, tz, err := s.resolve(ctx, telegramID, "day")
	if err != nil {
		return nil, err
	}
	schedule, err := s.repo.Daily(ctx, user.GroupID, tz, date)
	if err != nil {
		s.logFailure("day", telegramID, err)
		return nil, err
	}
	return schedule, nil
}

// ForWeek returns the schedule of the week containing date.
func (s *ScheduleService) ForWeek(ctx context.Context, telegramID int64, date *time.Time) (*models.WeeklySchedule, error) {
	user, tz, err := s.resolve(ctx, telegramID, "week")
	if err != nil {
		return nil, err
	}
	schedule, err := s.repo.Weekly(ctx, user.GroupID, tz, date)
	if err != nil {
		s.logFailure("week", telegramID, err)
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) resolve(ctx context.Context, telegramID int64, operation string) (*models.User, string, error) {
	user, err := s.users.Resolve(ctx, telegramID)
	if err != nil {
		s.logFailure(operation, telegramID, err)
		return nil, "", err
	}

	tz, ok, err := s.regions.TimezoneByID(ctx, user.RegionID)
	if err != nil {
		s.logFailure(operation, telegramID, err)
		return nil, "", err
	}
	if !ok {
		err := appErrors.Clone(appErrors.ErrDataIntegrity, fmt.Sprintf("region %d of user %d is missing from the catalog", user.RegionID, user.ID))
		s.logFailure(operation, telegramID, err)
		return nil, "", err
	}
	return user, tz, nil
}

func (s *ScheduleService) logFailure(operation string, telegramID int64, err error) {
	s.logger.Warn("resolve schedule failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", telegramID),
		zap.String("code", appErrors.FromError(err).Code),
		zap.Error(err),
	)
}
