package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/schedule-bot/internal/dto"
	"github.com/noah-isme/schedule-bot/internal/models"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 10, 7, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCaches(clock *testClock) *CacheService {
	caches := NewCacheService(time.Hour, nil, nil)
	caches.now = clock.Now
	return caches
}

type listRepo[T any] struct {
	items []T
	err   error
	calls int
}

func (r *listRepo[T]) List(context.Context) ([]T, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]T(nil), r.items...), nil
}

type fakeUserRepo struct {
	users       map[int64]models.User
	lookups     int
	created     []dto.CreateUserRequest
	createErr   error
	groupPatch  []dto.ChangeGroupRequest
	regionPatch []dto.ChangeRegionRequest
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]models.User)}
	for _, u := range users {
		repo.users[*u.TelegramID] = u
	}
	return repo
}

func (r *fakeUserRepo) FindByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	r.lookups++
	u, ok := r.users[telegramID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, req dto.CreateUserRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, req)
	id := req.TelegramID
	r.users[id] = models.User{ID: len(r.users) + 1, TelegramID: &id, GroupID: req.GroupID, RegionID: req.RegionID}
	return nil
}

func (r *fakeUserRepo) UpdateGroup(_ context.Context, userID int, req dto.ChangeGroupRequest) error {
	r.groupPatch = append(r.groupPatch, req)
	for key, u := range r.users {
		if u.ID == userID {
			u.GroupID = req.GroupID
			r.users[key] = u
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateRegion(_ context.Context, userID int, req dto.ChangeRegionRequest) error {
	r.regionPatch = append(r.regionPatch, req)
	for key, u := range r.users {
		if u.ID == userID {
			u.RegionID = req.RegionID
			r.users[key] = u
		}
	}
	return nil
}

type fakeScheduleRepo struct {
	daily      *models.DailySchedule
	weekly     *models.WeeklySchedule
	err        error
	lastGroup  int
	lastTZ     string
	lastDate   *time.Time
	dailyCalls int
}

func (r *fakeScheduleRepo) Daily(_ context.Context, groupID int, tz string, date *time.Time) (*models.DailySchedule, error) {
	r.dailyCalls++
	r.lastGroup, r.lastTZ, r.lastDate = groupID, tz, date
	if r.err != nil {
		return nil, r.err
	}
	return r.daily, nil
}

func (r *fakeScheduleRepo) Weekly(_ context.Context, groupID int, tz string, date *time.Time) (*models.WeeklySchedule, error) {
	r.lastGroup, r.lastTZ, r.lastDate = groupID, tz, date
	if r.err != nil {
		return nil, r.err
	}
	return r.weekly, nil
}

type fakeBroadcastRepo struct {
	requests []dto.CreateBroadcastRequest
	err      error
}

func (r *fakeBroadcastRepo) Create(_ context.Context, req dto.CreateBroadcastRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

func int64Ptr(id int64) *int64 {
	return &id
}
