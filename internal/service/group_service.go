package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/pkg/cache"
)

type groupRepository interface {
	List(ctx context.Context) ([]models.Group, error)
}

// GroupService serves the cached group catalog.
type GroupService struct {
	repo   groupRepository
	groups *cache.Snapshot[[]models.Group]
	byID   *cache.Index[[]models.Group, int, models.Group]
	logger *zap.Logger
}

// NewGroupService creates a group service backed by caches from caches.
func NewGroupService(repo groupRepository, caches *CacheService, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GroupService{
		repo:   repo,
		groups: cache.NewSnapshot[[]models.Group](caches.Options("groups")),
		byID: cache.NewIndex(func(groups []models.Group) map[int]models.Group {
			index := make(map[int]models.Group, len(groups))
			for _, g := range groups {
				index[g.ID] = g
			}
			return index
		}),
		logger: logger,
	}
	caches.Register("groups", s.groups.Invalidate)
	return s
}

// List returns all groups.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	groups, _, err := s.groups.Load(ctx, s.repo.List)
	return groups, err
}

// Find looks a group up by id.
func (s *GroupService) Find(ctx context.Context, id int) (*models.Group, bool, error) {
	groups, version, err := s.groups.Load(ctx, s.repo.List)
	if err != nil {
		return nil, false, err
	}
	group, ok := s.byID.Lookup(groups, version, id)
	if !ok {
		return nil, false, nil
	}
	return &group, true, nil
}

// NameByID returns the display name of a group.
func (s *GroupService) NameByID(ctx context.Context, id int) (string, bool, error) {
	group, ok, err := s.Find(ctx, id)
	if err != nil || !ok {
		return "", false, err
	}
	return group.Name, true, nil
}
