package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/pkg/cache"
)

type regionRepository interface {
	List(ctx context.Context) ([]models.Region, error)
}

// RegionService serves the cached region catalog and its id→timezone index.
type RegionService struct {
	repo    regionRepository
	regions *cache.Snapshot[[]models.Region]
	byID    *cache.Index[[]models.Region, int, models.Region]
	logger  *zap.Logger
}

// NewRegionService creates a region service.
func NewRegionService(repo regionRepository, caches *CacheService, logger *zap.Logger) *RegionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RegionService{
		repo:    repo,
		regions: cache.NewSnapshot[[]models.Region](caches.Options("regions")),
		byID: cache.NewIndex(func(regions []models.Region) map[int]models.Region {
			index := make(map[int]models.Region, len(regions))
			for _, r := range regions {
				index[r.ID] = r
			}
			return index
		}),
		logger: logger,
	}
	caches.Register("regions", s.regions.Invalidate)
	return s
}

// List returns all regions.
func (s *RegionService) List(ctx context.Context) ([]models.Region, error) {
	regions, _, err := s.regions.Load(ctx, s.repo.List)
	return regions, err
}

// Find looks a region up by id using the derived index.
func (s *RegionService) Find(ctx context.Context, id int) (*models.Region, bool, error) {
	regions, version, err := s.regions.Load(ctx, s.repo.List)
	if err != nil {
		return nil, false, err
	}
	region, ok := s.byID.Lookup(regions, version, id)
	if !ok {
		return nil, false, nil
	}
	return &region, true, nil
}

// TimezoneByID returns the IANA timezone of a region.
func (s *RegionService) TimezoneByID(ctx context.Context, id int) (string, bool, error) {
	region, ok, err := s.Find(ctx, id)
	if err != nil || !ok {
		return "", false, err
	}
	return region.TimeZoneID, true, nil
}

// NameByID returns the display name of a region.
func (s *RegionService) NameByID(ctx context.Context, id int) (string, bool, error) {
	region, ok, err := s.Find(ctx, id)
	if err != nil || !ok {
		return "", false, err
	}
	return region.Name, true, nil
}
