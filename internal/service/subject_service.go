package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/pkg/cache"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByAbbreviation(ctx context.Context, abbreviation string, groupID int) (*models.SubjectDetails, error)
}

// subjectKey identifies subject details; the same subject differs per group.
type subjectKey struct {
	abbreviation string
	groupID      int
}

// SubjectService serves the subject catalog and per-subject details.
type SubjectService struct {
	repo     subjectRepository
	subjects *cache.Snapshot[[]models.Subject]
	details  *cache.Keyed[subjectKey, models.SubjectDetails]
	logger   *zap.Logger
}

// NewSubjectService creates a subject service.
func NewSubjectService(repo subjectRepository, caches *CacheService, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SubjectService{
		repo:     repo,
		subjects: cache.NewSnapshot[[]models.Subject](caches.Options("subjects")),
		details:  cache.NewKeyed[subjectKey, models.SubjectDetails](caches.Options("subject_details")),
		logger:   logger,
	}
	caches.Register("subjects", s.subjects.Invalidate)
	caches.Register("subject_details", s.details.Clear)
	return s
}

// List returns all subjects.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, _, err := s.subjects.Load(ctx, s.repo.List)
	return subjects, err
}

// Details returns the details of a subject as taught to a group. Unknown
// abbreviations report found=false and are not cached.
func (s *SubjectService) Details(ctx context.Context, abbreviation string, groupID int) (*models.SubjectDetails, bool, error) {
	key := subjectKey{abbreviation: abbreviation, groupID: groupID}
	details, found, err := s.details.Load(ctx, key, func(ctx context.Context) (models.SubjectDetails, bool, error) {
		d, err := s.repo.FindByAbbreviation(ctx, abbreviation, groupID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				return models.SubjectDetails{}, false, nil
			}
			return models.SubjectDetails{}, false, err
		}
		return *d, true, nil
	})
	if err != nil {
		s.logger.Warn("fetch subject details failed", zap.String("abbreviation", abbreviation), zap.Int("group_id", groupID), zap.Error(err))
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &details, true, nil
}
