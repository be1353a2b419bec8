package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/internal/navigation"
	"github.com/noah-isme/schedule-bot/pkg/cache"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

type semesterRepository interface {
	List(ctx context.Context) ([]models.Semester, error)
}

// SemesterService resolves the current academic semester.
type SemesterService struct {
	repo      semesterRepository
	semesters *cache.Snapshot[[]models.Semester]
	logger    *zap.Logger
	now       func() time.Time
}

// NewSemesterService creates a semester service.
func NewSemesterService(repo semesterRepository, caches *CacheService, logger *zap.Logger) *SemesterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SemesterService{
		repo:      repo,
		semesters: cache.NewSnapshot[[]models.Semester](caches.Options("semesters")),
		logger:    logger,
		now:       time.Now,
	}
	caches.Register("semesters", s.semesters.Invalidate)
	return s
}

// List returns all semesters.
func (s *SemesterService) List(ctx context.Context) ([]models.Semester, error) {
	semesters, _, err := s.semesters.Load(ctx, s.repo.List)
	return semesters, err
}

// Current returns the semester containing today or, failing that, the one
// that starts last. It returns nil only when no semesters exist.
func (s *SemesterService) Current(ctx context.Context) (*models.Semester, error) {
	semesters, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(semesters) == 0 {
		return nil, nil
	}

	today := models.DateOf(s.now().UTC())
	var latest *models.Semester
	var latestStart time.Time
	for i := range semesters {
		start, err := semesters[i].Start()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid semester start date")
		}
		end, err := semesters[i].End()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid semester end date")
		}
		if !today.Before(start) && !today.After(end) {
			semester := semesters[i]
			return &semester, nil
		}
		if latest == nil || start.After(latestStart) {
			latest = &semesters[i]
			latestStart = start
		}
	}

	semester := *latest
	return &semester, nil
}

// Bounds returns navigation bounds of the current semester. Without a
// semester the bounds are open.
func (s *SemesterService) Bounds(ctx context.Context) (navigation.Bounds, error) {
	semester, err := s.Current(ctx)
	if err != nil || semester == nil {
		return navigation.Bounds{}, err
	}
	start, err := semester.Start()
	if err != nil {
		return navigation.Bounds{}, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid semester start date")
	}
	end, err := semester.End()
	if err != nil {
		return navigation.Bounds{}, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid semester end date")
	}
	return navigation.NewBounds(start, end), nil
}
