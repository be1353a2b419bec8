package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/handler"
	"github.com/noah-isme/schedule-bot/internal/middleware"
	"github.com/noah-isme/schedule-bot/internal/repository"
	"github.com/noah-isme/schedule-bot/internal/service"
	"github.com/noah-isme/schedule-bot/pkg/apiclient"
	"github.com/noah-isme/schedule-bot/pkg/config"
	"github.com/noah-isme/schedule-bot/pkg/jobs"
	"github.com/noah-isme/schedule-bot/pkg/logger"
	reqidmiddleware "github.com/noah-isme/schedule-bot/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("bot stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	metrics := service.NewMetricsService()
	validate := validator.New()

	client := apiclient.New(apiclient.Config{
		BaseURL:    cfg.API.BaseURL,
		APIKey:     cfg.API.Key,
		HTTPClient: &http.Client{Timeout: cfg.API.HTTPTimeout},
		Observer:   metrics,
		Logger:     logr,
	})

	caches := service.NewCacheService(cfg.Cache.TTL, metrics, logr)

	groups := service.NewGroupService(repository.NewGroupRepository(client, validate), caches, logr)
	regions := service.NewRegionService(repository.NewRegionRepository(client, validate), caches, logr)
	semesters := service.NewSemesterService(repository.NewSemesterRepository(client, validate), caches, logr)
	teachers := service.NewTeacherService(repository.NewTeacherRepository(client, validate), caches, logr)
	subjects := service.NewSubjectService(repository.NewSubjectRepository(client, validate), caches, logr)
	users := service.NewUserService(repository.NewUserRepository(client, validate), validate, caches, logr)
	schedules := service.NewScheduleService(repository.NewScheduleRepository(client, validate), users, regions, logr)
	broadcasts := service.NewBroadcastService(repository.NewBroadcastRepository(client, cfg.API.AdminKey), validate, logr)
	exports := service.NewExportService(schedules, cfg.Export.FontPath, logr)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = cfg.Telegram.Debug
	logr.Info("authorized on telegram", zap.String("username", api.Self.UserName))

	bot := handler.NewBot(handler.Deps{
		API:             api,
		Users:           users,
		Groups:          groups,
		Regions:         regions,
		Semesters:       semesters,
		Schedules:       schedules,
		Teachers:        teachers,
		Subjects:        subjects,
		Broadcasts:      broadcasts,
		Exports:         exports,
		States:          repository.NewStateRepository(0),
		Metrics:         metrics,
		BotUsername:     api.Self.UserName,
		InlineCacheTime: cfg.Telegram.InlineCacheTime,
		Logger:          logr,
	})

	queue := jobs.NewQueue("updates", func(ctx context.Context, job jobs.Job) error {
		update, ok := job.Payload.(tgbotapi.Update)
		if !ok {
			return fmt.Errorf("unexpected payload %T", job.Payload)
		}
		return bot.HandleUpdate(ctx, update)
	}, jobs.QueueConfig{
		Workers:    cfg.Updates.Workers,
		BufferSize: cfg.Updates.BufferSize,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	warmup := service.NewWarmupService(cfg.Cache.WarmupSchedule, logr,
		service.ListTask("groups", groups.List),
		service.ListTask("regions", regions.List),
		service.ListTask("semesters", semesters.List),
		service.ListTask("teachers", teachers.List),
		service.ListTask("subjects", subjects.List),
		service.WarmupTask{Name: "users_purge", Run: func(context.Context) error {
			if n := users.PurgeExpired(); n > 0 {
				logr.Debug("expired profiles purged", zap.Int("count", n))
			}
			return nil
		}},
	)
	if err := warmup.Start(ctx); err != nil {
		return fmt.Errorf("start warmup: %w", err)
	}

	if cfg.Ops.Enabled {
		srv := opsServer(cfg, logr, metrics, caches)
		go func() {
			logr.Info("ops server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logr.Error("ops server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logr.Warn("ops server shutdown", zap.Error(err))
			}
		}()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.PollTimeout
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	logr.Info("polling for updates", zap.Int("workers", cfg.Updates.Workers))
	for {
		select {
		case <-ctx.Done():
			logr.Info("shutting down")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			job := jobs.Job{Type: "telegram_update", Payload: update}
			if err := queue.Enqueue(job); err != nil {
				logr.Warn("failed to enqueue update", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

func opsServer(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, caches *service.CacheService) *http.Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))

	handler.NewOpsHandler(metrics, caches).Register(r)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Ops.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
