package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-bot/internal/models"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

func TestGroupServiceCachesWithinTTL(t *testing.T) {
	clock := newTestClock()
	repo := &listRepo[models.Group]{items: []models.Group{{ID: 10, Name: "КН-21"}}}
	svc := NewGroupService(repo, newTestCaches(clock), nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	clock.Advance(59 * time.Minute)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	clock.Advance(time.Minute)
	repo.items = append(repo.items, models.Group{ID: 11, Name: "КН-22"})
	groups, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Len(t, groups, 2)

	name, ok, err := svc.NameByID(ctx, 11)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "КН-22", name)
}

func TestGroupServiceFailureIsNotCached(t *testing.T) {
	repo := &listRepo[models.Group]{err: appErrors.Clone(appErrors.ErrRemoteUnavailable, "down")}
	svc := NewGroupService(repo, newTestCaches(newTestClock()), nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)

	repo.err = nil
	repo.items = []models.Group{}
	groups, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, 2, repo.calls)
}

func TestRegionTimezoneIndexFollowsSnapshot(t *testing.T) {
	clock := newTestClock()
	repo := &listRepo[models.Region]{items: []models.Region{{ID: 3, Name: "Київ", TimeZoneID: "Europe/Kyiv"}}}
	svc := NewRegionService(repo, newTestCaches(clock), nil)
	ctx := context.Background()

	tz, ok, err := svc.TimezoneByID(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Europe/Kyiv", tz)

	repo.items = []models.Region{{ID: 3, Name: "Варшава", TimeZoneID: "Europe/Warsaw"}}
	tz, _, _ = svc.TimezoneByID(ctx, 3)
	assert.Equal(t, "Europe/Kyiv", tz)

	clock.Advance(time.Hour)
	tz, ok, err = svc.TimezoneByID(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Europe/Warsaw", tz)

	name, ok, err := svc.NameByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Варшава", name)

	_, ok, err = svc.TimezoneByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheServiceInvalidate(t *testing.T) {
	caches := newTestCaches(newTestClock())
	repo := &listRepo[models.Region]{items: []models.Region{{ID: 3, Name: "Київ", TimeZoneID: "Europe/Kyiv"}}}
	svc := NewRegionService(repo, caches, nil)
	NewGroupService(&listRepo[models.Group]{}, caches, nil)

	assert.Equal(t, []string{"groups", "regions"}, caches.Names())

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, caches.Invalidate("regions"))
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	err = caches.Invalidate("nope")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	caches.InvalidateAll()
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestSemesterCurrentPrefersContainingSemester(t *testing.T) {
	repo := &listRepo[models.Semester]{items: []models.Semester{
		{ID: 1, Name: "Осінь", StartDate: "2024-09-01T00:00:00", EndDate: "2024-12-31T00:00:00"},
		{ID: 2, Name: "Весна", StartDate: "2025-02-01", EndDate: "2025-06-30"},
	}}
	svc := NewSemesterService(repo, newTestCaches(newTestClock()), nil)
	svc.now = func() time.Time { return time.Date(2024, 10, 7, 23, 30, 0, 0, time.UTC) }

	semester, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, semester)
	assert.Equal(t, 1, semester.ID)

	bounds, err := svc.Bounds(context.Background())
	require.NoError(t, err)
	assert.True(t, bounds.Known())
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), bounds.Start)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), bounds.End)
}

func TestSemesterCurrentFallsBackToLatestStart(t *testing.T) {
	repo := &listRepo[models.Semester]{items: []models.Semester{
		{ID: 1, StartDate: "2024-09-01", EndDate: "2024-12-31"},
		{ID: 3, StartDate: "2025-09-01", EndDate: "2025-12-31"},
		{ID: 2, StartDate: "2025-02-01", EndDate: "2025-06-30"},
	}}
	svc := NewSemesterService(repo, newTestCaches(newTestClock()), nil)
	svc.now = func() time.Time { return time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC) }

	semester, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, semester)
	assert.Equal(t, 3, semester.ID)
}

func TestSemesterCurrentWithoutSemesters(t *testing.T) {
	svc := NewSemesterService(&listRepo[models.Semester]{}, newTestCaches(newTestClock()), nil)

	semester, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, semester)

	bounds, err := svc.Bounds(context.Background())
	require.NoError(t, err)
	assert.False(t, bounds.Known())
}

func TestSemesterCurrentRejectsBadDates(t *testing.T) {
	repo := &listRepo[models.Semester]{items: []models.Semester{{ID: 1, StartDate: "01.09.2024", EndDate: "2024-12-31"}}}
	svc := NewSemesterService(repo, newTestCaches(newTestClock()), nil)

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrDataIntegrity)
}

type fakeTeacherRepo struct {
	listRepo[models.Teacher]
	byID map[int]models.Teacher
	err  error
}

func (r *fakeTeacherRepo) FindByID(_ context.Context, id int) (*models.Teacher, error) {
	if r.err != nil {
		return nil, r.err
	}
	teacher, ok := r.byID[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return &teacher, nil
}

func TestTeacherServiceGet(t *testing.T) {
	repo := &fakeTeacherRepo{byID: map[int]models.Teacher{1: {ID: 1, FullName: "Іваненко І.І."}}}
	svc := NewTeacherService(repo, newTestCaches(newTestClock()), nil)

	teacher, ok, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Іваненко І.І.", teacher.FullName)

	_, ok, err = svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	repo.err = appErrors.Clone(appErrors.ErrRemoteUnavailable, "down")
	_, _, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
}

type fakeSubjectRepo struct {
	listRepo[models.Subject]
	details map[string]models.SubjectDetails
	groups  []int
	calls   int
}

func (r *fakeSubjectRepo) FindByAbbreviation(_ context.Context, abbreviation string, groupID int) (*models.SubjectDetails, error) {
	r.calls++
	r.groups = append(r.groups, groupID)
	d, ok := r.details[abbreviation]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return &d, nil
}

func TestSubjectDetailsCachedPerAbbreviation(t *testing.T) {
	clock := newTestClock()
	repo := &fakeSubjectRepo{details: map[string]models.SubjectDetails{"АЛГ": {Name: "Алгебра", Abbreviation: "АЛГ"}}}
	svc := NewSubjectService(repo, newTestCaches(clock), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		details, ok, err := svc.Details(ctx, "АЛГ", 10)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Алгебра", details.Name)
	}
	assert.Equal(t, 1, repo.calls)

	for i := 0; i < 2; i++ {
		_, ok, err := svc.Details(ctx, "ФІЗ", 10)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, repo.calls)

	clock.Advance(time.Hour)
	_, _, err := svc.Details(ctx, "АЛГ", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.calls)
}

func TestSubjectDetailsCachedPerGroup(t *testing.T) {
	repo := &fakeSubjectRepo{details: map[string]models.SubjectDetails{"АЛГ": {Name: "Алгебра", Abbreviation: "АЛГ"}}}
	svc := NewSubjectService(repo, newTestCaches(newTestClock()), nil)
	ctx := context.Background()

	for _, groupID := range []int{10, 11, 10, 11} {
		_, ok, err := svc.Details(ctx, "АЛГ", groupID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, []int{10, 11}, repo.groups)
}
