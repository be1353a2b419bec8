package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/dto"
	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/pkg/cache"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

const (
	msgRegistered     = "✅ Вас успішно зареєстровано!"
	msgInvalidIDPairs = "❌ ID групи та часового поясу мають бути цілими числами."
)

type userRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) error
	UpdateGroup(ctx context.Context, userID int, req dto.ChangeGroupRequest) error
	UpdateRegion(ctx context.Context, userID int, req dto.ChangeRegionRequest) error
}

// RegisterRequest carries registration input as typed by the user.
type RegisterRequest struct {
	TelegramID int64
	Username   string
	GroupID    string
	RegionID   string
}

// UserService maps Telegram identities to catalog profiles.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	users     *cache.Keyed[int64, models.User]
	logger    *zap.Logger
}

// NewUserService creates a user directory.
func NewUserService(repo userRepository, validate *validator.Validate, caches *CacheService, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &UserService{
		repo:      repo,
		validator: validate,
		users:     cache.NewKeyed[int64, models.User](caches.Options("users")),
		logger:    logger,
	}
	caches.Register("users", s.users.Clear)
	return s
}

// Resolve returns the profile of a Telegram identity. Unregistered identities
// yield appErrors.ErrNotRegistered and are not cached.
func (s *UserService) Resolve(ctx context.Context, telegramID int64) (*models.User, error) {
	user, found, err := s.users.Load(ctx, telegramID, func(ctx context.Context) (models.User, bool, error) {
		u, err := s.repo.FindByTelegramID(ctx, telegramID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				return models.User{}, false, nil
			}
			return models.User{}, false, err
		}
		return *u, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotRegistered, fmt.Sprintf("telegram user %d is not registered", telegramID))
	}
	return &user, nil
}

// Register creates a catalog profile and returns the confirmation text.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	groupID, groupErr := strconv.Atoi(strings.TrimSpace(req.GroupID))
	regionID, regionErr := strconv.Atoi(strings.TrimSpace(req.RegionID))
	if groupErr != nil || regionErr != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, msgInvalidIDPairs)
	}

	payload := dto.CreateUserRequest{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		GroupID:    groupID,
		RegionID:   regionID,
	}
	if err := s.validator.Struct(payload); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgInvalidIDPairs)
	}

	if err := s.repo.Create(ctx, payload); err != nil {
		s.logger.Warn("register user failed", zap.Int64("telegram_id", req.TelegramID), zap.Error(err))
		return "", err
	}

	s.users.Delete(req.TelegramID)
	s.logger.Info("user registered", zap.Int64("telegram_id", req.TelegramID), zap.Int("group_id", groupID), zap.Int("region_id", regionID))
	return msgRegistered, nil
}

// ChangeGroup moves the user to another group.
func (s *UserService) ChangeGroup(ctx context.Context, telegramID int64, groupID int) error {
	user, err := s.Resolve(ctx, telegramID)
	if err != nil {
		return err
	}
	req := dto.ChangeGroupRequest{GroupID: groupID}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "❌ Некоректний ID групи.")
	}
	if err := s.repo.UpdateGroup(ctx, user.ID, req); err != nil {
		s.logger.Warn("change group failed", zap.Int64("telegram_id", telegramID), zap.Int("group_id", groupID), zap.Error(err))
		return err
	}
	s.users.Delete(telegramID)
	return nil
}

// ChangeRegion moves the user to another region.
func (s *UserService) ChangeRegion(ctx context.Context, telegramID int64, regionID int) error {
	user, err := s.Resolve(ctx, telegramID)
	if err != nil {
		return err
	}
	req := dto.ChangeRegionRequest{RegionID: regionID}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "❌ Некоректний ID часового поясу.")
	}
	if err := s.repo.UpdateRegion(ctx, user.ID, req); err != nil {
		s.logger.Warn("change region failed", zap.Int64("telegram_id", telegramID), zap.Int("region_id", regionID), zap.Error(err))
		return err
	}
	s.users.Delete(telegramID)
	return nil
}

// Invalidate evicts the cached profile of telegramID.
func (s *UserService) Invalidate(telegramID int64) {
	s.users.Delete(telegramID)
}

// PurgeExpired drops expired profiles and reports how many were removed.
func (s *UserService) PurgeExpired() int {
	return s.users.Purge()
}
