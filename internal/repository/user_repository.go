package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/schedule-bot/internal/dto"
	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/pkg/apiclient"
)

// UserRepository reads and mutates catalog user profiles.
type UserRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewUserRepository instantiates a user repository.
func NewUserRepository(client catalogClient, validate *validator.Validate) *UserRepository {
	return &UserRepository{client: client, validator: defaultValidator(validate)}
}

// FindByTelegramID returns the profile bound to a Telegram identity or
// appErrors.ErrNotFound.
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	const route = "/api/User/telegram/{telegramId}"
	var user models.User
	if err := r.client.Get(ctx, fmt.Sprintf("/api/User/telegram/%d", telegramID), route, nil, &user); err != nil {
		return nil, err
	}
	if err := validateOne(r.validator, route, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a new user.
func (r *UserRepository) Create(ctx context.Context, req dto.CreateUserRequest) error {
	return r.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/api/User", Body: req}, nil)
}

// UpdateGroup moves the user to another group.
func (r *UserRepository) UpdateGroup(ctx context.Context, userID int, req dto.ChangeGroupRequest) error {
	return r.client.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/api/User/%d/group", userID),
		Route:  "/api/User/{id}/group",
		Body:   req,
	}, nil)
}

// UpdateRegion moves the user to another region.
func (r *UserRepository) UpdateRegion(ctx context.Context, userID int, req dto.ChangeRegionRequest) error {
	return r.client.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/api/User/%d/region", userID),
		Route:  "/api/User/{id}/region",
		Body:   req,
	}, nil)
}
