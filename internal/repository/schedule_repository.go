package repository

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/schedule-bot/internal/models"
)

// ScheduleRepository fetches group schedules. Schedules are never cached.
type ScheduleRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewScheduleRepository instantiates a schedule repository.
func NewScheduleRepository(client catalogClient, validate *validator.Validate) *ScheduleRepository {
	return &ScheduleRepository{client: client, validator: defaultValidator(validate)}
}

// Daily returns the group's schedule for date. A nil date lets the catalog
// pick "today" in the given timezone.
func (r *ScheduleRepository) Daily(ctx context.Context, groupID int, timeZoneID string, date *time.Time) (*models.DailySchedule, error) {
	const path = "/api/schedule/group"
	var schedule models.DailySchedule
	if err := r.client.Get(ctx, path, path, scheduleQuery(groupID, timeZoneID, date), &schedule); err != nil {
		return nil, err
	}
	if err := validateOne(r.validator, path, schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Weekly returns the week containing date.
func (r *ScheduleRepository) Weekly(ctx context.Context, groupID int, timeZoneID string, date *time.Time) (*models.WeeklySchedule, error) {
	const path = "/api/schedule/group/week"
	var schedule models.WeeklySchedule
	if err := r.client.Get(ctx, path, path, scheduleQuery(groupID, timeZoneID, date), &schedule); err != nil {
		return nil, err
	}
	if err := validateOne(r.validator, path, schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func scheduleQuery(groupID int, timeZoneID string, date *time.Time) url.Values {
	query := url.Values{}
	query.Set("groupId", strconv.Itoa(groupID))
	query.Set("timeZoneId", timeZoneID)
	if date != nil {
		query.Set("date", models.FormatDate(*date))
	}
	return query
}
