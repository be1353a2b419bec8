package service

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/pkg/cache"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

// CacheService hands out cache options to catalog services and keeps a
// registry of their invalidation hooks for operational flushes.
type CacheService struct {
	ttl      time.Duration
	now      func() time.Time
	recorder cache.Recorder
	logger   *zap.Logger

	mu          sync.Mutex
	invalidates map[string]func()
}

// NewCacheService constructs a cache service. A nil metrics service disables
// lookup recording.
func NewCacheService(ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var recorder cache.Recorder
	if metrics != nil {
		recorder = metrics
	}
	return &CacheService{ttl: ttl, now: time.Now, recorder: recorder, logger: logger, invalidates: make(map[string]func())}
}

// Options returns cache options for the named cache.
func (s *CacheService) Options(name string) cache.Options {
	return cache.Options{Name: name, TTL: s.ttl, Now: s.clock, Recorder: s.recorder}
}

// TTL reports the configured time-to-live.
func (s *CacheService) TTL() time.Duration {
	return s.ttl
}

func (s *CacheService) clock() time.Time {
	return s.now()
}

// Register records an invalidation hook under name.
func (s *CacheService) Register(name string, invalidate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidates[name] = invalidate
}

// Names lists the registered caches.
func (s *CacheService) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.invalidates))
	for name := range s.invalidates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invalidate drops the named cache so its next lookup refetches.
func (s *CacheService) Invalidate(name string) error {
	s.mu.Lock()
	invalidate, ok := s.invalidates[name]
	s.mu.Unlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "unknown cache "+name)
	}
	invalidate()
	s.logger.Info("cache invalidated", zap.String("cache", name))
	return nil
}

// InvalidateAll drops every registered cache.
func (s *CacheService) InvalidateAll() {
	for _, name := range s.Names() {
		_ = s.Invalidate(name)
	}
}
