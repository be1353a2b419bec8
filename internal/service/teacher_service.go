package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/pkg/cache"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id int) (*models.Teacher, error)
}

// TeacherService serves the teacher directory.
type TeacherService struct {
	repo     teacherRepository
	teachers *cache.Snapshot[[]models.Teacher]
	logger   *zap.Logger
}

// NewTeacherService creates a teacher service.
func NewTeacherService(repo teacherRepository, caches *CacheService, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TeacherService{
		repo:     repo,
		teachers: cache.NewSnapshot[[]models.Teacher](caches.Options("teachers")),
		logger:   logger,
	}
	caches.Register("teachers", s.teachers.Invalidate)
	return s
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	teachers, _, err := s.teachers.Load(ctx, s.repo.List)
	return teachers, err
}

// Get fetches a single teacher. A missing teacher is reported as found=false.
func (s *TeacherService) Get(ctx context.Context, id int) (*models.Teacher, bool, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, false, nil
		}
		s.logger.Warn("fetch teacher failed", zap.Int("teacher_id", id), zap.Error(err))
		return nil, false, err
	}
	return teacher, true, nil
}
