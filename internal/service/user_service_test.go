package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-bot/internal/models"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

func TestResolveUnregisteredIsNotCached(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Resolve(context.Background(), 555)
		assert.ErrorIs(t, err, appErrors.ErrNotRegistered)
	}
	assert.Equal(t, 2, repo.lookups)
}

func TestResolveCachesProfileWithinTTL(t *testing.T) {
	clock := newTestClock()
	repo := newFakeUserRepo(models.User{ID: 1, TelegramID: int64Ptr(555), GroupID: 10, RegionID: 3})
	svc := NewUserService(repo, nil, newTestCaches(clock), nil)

	for i := 0; i < 3; i++ {
		user, err := svc.Resolve(context.Background(), 555)
		require.NoError(t, err)
		assert.Equal(t, 10, user.GroupID)
	}
	assert.Equal(t, 1, repo.lookups)

	clock.Advance(time.Hour)
	_, err := svc.Resolve(context.Background(), 555)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lookups)
}

func TestRegisterFlow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, 555)
	require.ErrorIs(t, err, appErrors.ErrNotRegistered)

	msg, err := svc.Register(ctx, RegisterRequest{TelegramID: 555, Username: "student", GroupID: "10", RegionID: "3"})
	require.NoError(t, err)
	assert.Equal(t, "✅ Вас успішно зареєстровано!", msg)

	require.Len(t, repo.created, 1)
	assert.Equal(t, int64(555), repo.created[0].TelegramID)
	assert.Equal(t, 10, repo.created[0].GroupID)
	assert.Equal(t, 3, repo.created[0].RegionID)
	assert.False(t, repo.created[0].IsAdmin)

	user, err := svc.Resolve(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, 10, user.GroupID)
	assert.Equal(t, 3, user.RegionID)
}

func TestRegisterRejectsNonNumericIDsWithoutCalling(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)

	for _, req := range []RegisterRequest{
		{TelegramID: 555, GroupID: "abc", RegionID: "3"},
		{TelegramID: 555, GroupID: "10", RegionID: ""},
		{TelegramID: 555, GroupID: "0", RegionID: "3"},
		{TelegramID: 555, GroupID: "-4", RegionID: "3"},
	} {
		_, err := svc.Register(context.Background(), req)
		require.ErrorIs(t, err, appErrors.ErrValidation)
		assert.Equal(t, "❌ ID групи та часового поясу мають бути цілими числами.", appErrors.FromError(err).Message)
	}
	assert.Empty(t, repo.created)
}

func TestRegisterDuplicateSurfacesRejection(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = appErrors.WithStatus(appErrors.ErrRemoteRejection, http.StatusConflict, "already exists")
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)

	_, err := svc.Register(context.Background(), RegisterRequest{TelegramID: 555, GroupID: "10", RegionID: "3"})
	assert.ErrorIs(t, err, appErrors.ErrRemoteRejection)
}

func TestChangeGroupEvictsOnlyThatIdentity(t *testing.T) {
	repo := newFakeUserRepo(
		models.User{ID: 1, TelegramID: int64Ptr(555), GroupID: 10, RegionID: 3},
		models.User{ID: 2, TelegramID: int64Ptr(777), GroupID: 10, RegionID: 3},
	)
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, 555)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, 777)
	require.NoError(t, err)
	require.Equal(t, 2, repo.lookups)

	require.NoError(t, svc.ChangeGroup(ctx, 555, 12))
	require.Len(t, repo.groupPatch, 1)
	assert.Equal(t, 12, repo.groupPatch[0].GroupID)

	user, err := svc.Resolve(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, 12, user.GroupID)
	assert.Equal(t, 3, repo.lookups)

	_, err = svc.Resolve(ctx, 777)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.lookups)

	require.NoError(t, svc.ChangeRegion(ctx, 777, 4))
	user, err = svc.Resolve(ctx, 777)
	require.NoError(t, err)
	assert.Equal(t, 4, user.RegionID)
}

func TestChangeRegionEvictsProfile(t *testing.T) {
	repo := newFakeUserRepo(models.User{ID: 1, TelegramID: int64Ptr(555), GroupID: 10, RegionID: 3})
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, 555)
	require.NoError(t, err)
	require.Equal(t, 1, repo.lookups)

	require.NoError(t, svc.ChangeRegion(ctx, 555, 4))
	require.Len(t, repo.regionPatch, 1)
	assert.Equal(t, 4, repo.regionPatch[0].RegionID)
	assert.Equal(t, 1, repo.lookups)

	user, err := svc.Resolve(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, 4, user.RegionID)
	assert.Equal(t, 2, repo.lookups)

	_, err = svc.Resolve(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lookups)
}

func TestChangeGroupRequiresRegistration(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, validator.New(), newTestCaches(newTestClock()), nil)

	err := svc.ChangeGroup(context.Background(), 555, 12)
	assert.ErrorIs(t, err, appErrors.ErrNotRegistered)
	assert.Empty(t, repo.groupPatch)
}

func TestUserCacheInvalidateAndPurge(t *testing.T) {
	clock := newTestClock()
	repo := newFakeUserRepo(models.User{ID: 1, TelegramID: int64Ptr(555), GroupID: 10, RegionID: 3})
	svc := NewUserService(repo, validator.New(), newTestCaches(clock), nil)

	_, err := svc.Resolve(context.Background(), 555)
	require.NoError(t, err)
	svc.Invalidate(555)
	_, err = svc.Resolve(context.Background(), 555)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lookups)

	assert.Equal(t, 0, svc.PurgeExpired())
	clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, svc.PurgeExpired())
}
