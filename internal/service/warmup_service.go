package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// WarmupTask refreshes one cache.
type WarmupTask struct {
	Name string
	Run  func(ctx context.Context) error
}

// ListTask adapts a cached list loader into a warmup task.
func ListTask[T any](name string, load func(ctx context.Context) ([]T, error)) WarmupTask {
	return WarmupTask{Name: name, Run: func(ctx context.Context) error {
		_, err := load(ctx)
		return err
	}}
}

// WarmupService periodically touches reference caches so user-facing lookups
// rarely pay for a refetch.
type WarmupService struct {
	schedule string
	tasks    []WarmupTask
	logger   *zap.Logger
}

// NewWarmupService creates a warmup service. An empty schedule disables the
// periodic run.
func NewWarmupService(schedule string, logger *zap.Logger, tasks ...WarmupTask) *WarmupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarmupService{schedule: schedule, tasks: tasks, logger: logger}
}

// RunOnce executes every task and returns how many failed.
func (s *WarmupService) RunOnce(ctx context.Context) int {
	failed := 0
	for _, task := range s.tasks {
		if err := task.Run(ctx); err != nil {
			failed++
			s.logger.Warn("cache warmup failed", zap.String("cache", task.Name), zap.Error(err))
			continue
		}
		s.logger.Debug("cache warmed", zap.String("cache", task.Name))
	}
	return failed
}

// Start schedules RunOnce and stops the scheduler when ctx is cancelled.
func (s *WarmupService) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("cache warmup disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid warmup schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.logger.Info("cache warmup scheduled", zap.String("schedule", s.schedule), zap.Int("tasks", len(s.tasks)))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}
