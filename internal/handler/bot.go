package handler

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/internal/navigation"
	"github.com/noah-isme/schedule-bot/internal/repository"
	"github.com/noah-isme/schedule-bot/internal/service"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type userDirectory interface {
	Resolve(ctx context.Context, telegramID int64) (*models.User, error)
	Register(ctx context.Context, req service.RegisterRequest) (string, error)
	ChangeGroup(ctx context.Context, telegramID int64, groupID int) error
	ChangeRegion(ctx context.Context, telegramID int64, regionID int) error
}

type groupCatalog interface {
	List(ctx context.Context) ([]models.Group, error)
	NameByID(ctx context.Context, id int) (string, bool, error)
}

type regionCatalog interface {
	List(ctx context.Context) ([]models.Region, error)
	NameByID(ctx context.Context, id int) (string, bool, error)
}

type semesterResolver interface {
	Bounds(ctx context.Context) (navigation.Bounds, error)
}

type scheduleResolver interface {
	ForDay(ctx context.Context, telegramID int64, date *time.Time) (*models.DailySchedule, error)
	ForWeek(ctx context.Context, telegramID int64, date *time.Time) (*models.WeeklySchedule, error)
}

type teacherDirectory interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Get(ctx context.Context, id int) (*models.Teacher, bool, error)
}

type subjectCatalog interface {
	List(ctx context.Context) ([]models.Subject, error)
	Details(ctx context.Context, abbreviation string, groupID int) (*models.SubjectDetails, bool, error)
}

type broadcaster interface {
	ParseScheduleTime(raw string) (time.Time, error)
	Create(ctx context.Context, text string, scheduledAt *time.Time) (string, error)
}

type exporter interface {
	Week(ctx context.Context, telegramID int64, date *time.Time, format service.ExportFormat) (*service.Document, error)
}

type updateObserver interface {
	ObserveUpdate(kind string, err error, duration time.Duration)
}

// Deps wires the bot to its services.
type Deps struct {
	API             botAPI
	Users           userDirectory
	Groups          groupCatalog
	Regions         regionCatalog
	Semesters       semesterResolver
	Schedules       scheduleResolver
	Teachers        teacherDirectory
	Subjects        subjectCatalog
	Broadcasts      broadcaster
	Exports         exporter
	States          *repository.StateRepository
	Metrics         updateObserver
	BotUsername     string
	InlineCacheTime int
	Logger          *zap.Logger
}

// Bot dispatches Telegram updates to the feature handlers.
type Bot struct {
	api             botAPI
	users           userDirectory
	groups          groupCatalog
	regions         regionCatalog
	semesters       semesterResolver
	schedules       scheduleResolver
	teachers        teacherDirectory
	subjects        subjectCatalog
	broadcasts      broadcaster
	exports         exporter
	states          *repository.StateRepository
	metrics         updateObserver
	botUsername     string
	inlineCacheTime int
	logger          *zap.Logger
}

// NewBot constructs the update dispatcher.
func NewBot(d Deps) *Bot {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	states := d.States
	if states == nil {
		states = repository.NewStateRepository(0)
	}
	return &Bot{
		api:             d.API,
		users:           d.Users,
		groups:          d.Groups,
		regions:         d.Regions,
		semesters:       d.Semesters,
		schedules:       d.Schedules,
		teachers:        d.Teachers,
		subjects:        d.Subjects,
		broadcasts:      d.Broadcasts,
		exports:         d.Exports,
		states:          states,
		metrics:         d.Metrics,
		botUsername:     d.BotUsername,
		inlineCacheTime: d.InlineCacheTime,
		logger:          logger,
	}
}

// HandleUpdate processes a single update. The returned error is reported
// after the user has already been told what went wrong.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	start := time.Now()
	kind := updateKind(update)

	err := b.dispatch(ctx, update)

	duration := time.Since(start)
	if b.metrics != nil {
		b.metrics.ObserveUpdate(kind, err, duration)
	}

	fields := []zap.Field{zap.String("kind", kind), zap.Duration("latency", duration)}
	if from := senderOf(update); from != nil {
		fields = append(fields, zap.Int64("telegram_id", from.ID))
	}
	if err != nil {
		b.logger.Warn("update failed", append(fields, zap.Error(err))...)
		return err
	}
	b.logger.Debug("update handled", fields...)
	return nil
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.InlineQuery != nil:
		return b.handleInlineQuery(ctx, update.InlineQuery)
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return b.startRegistration(ctx, msg)
		case "groups":
			return b.sendGroups(ctx, msg)
		case "today":
			return b.sendDay(ctx, msg.Chat.ID, msg.From.ID)
		case "week":
			return b.sendWeek(ctx, msg.Chat.ID, msg.From.ID)
		case "export":
			return b.sendExport(ctx, msg)
		case "cancel":
			b.states.Clear(stateKey(msg.Chat.ID, msg.From.ID))
			return b.reply(msg.Chat.ID, msgCancelled, nil)
		default:
			return b.reply(msg.Chat.ID, msgUnknownCommand, nil)
		}
	}

	if state, ok := b.states.Get(stateKey(msg.Chat.ID, msg.From.ID)); ok {
		switch state.Step {
		case models.StepBroadcastTime:
			return b.receiveBroadcastTime(ctx, msg, state)
		case models.StepBroadcastMessage:
			return b.receiveBroadcastText(ctx, msg, state)
		}
	}

	switch strings.TrimSpace(msg.Text) {
	case btnSchedule:
		return b.sendDay(ctx, msg.Chat.ID, msg.From.ID)
	case btnSettings:
		return b.openSettings(ctx, msg)
	case btnSubjects:
		return b.sendSubjects(ctx, msg.Chat.ID)
	case btnTeachers:
		return b.sendTeachers(ctx, msg.Chat.ID)
	case btnAdmin:
		return b.openAdminPanel(ctx, msg)
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	data := q.Data
	switch {
	case navigation.IsToken(data):
		return b.handleNavigation(ctx, q)
	case strings.HasPrefix(data, cbGroup):
		return b.handleGroupChoice(ctx, q)
	case strings.HasPrefix(data, cbRegion):
		return b.handleRegionChoice(ctx, q)
	case strings.HasPrefix(data, cbSettings):
		return b.handleSettingsAction(ctx, q)
	case strings.HasPrefix(data, cbTeacher), strings.HasPrefix(data, cbTeachers):
		return b.handleTeacherCallback(ctx, q)
	case strings.HasPrefix(data, cbSubject), strings.HasPrefix(data, cbSubjects):
		return b.handleSubjectCallback(ctx, q)
	case strings.HasPrefix(data, cbAdmin), strings.HasPrefix(data, cbBroadcast):
		return b.handleAdminCallback(ctx, q)
	}
	return b.answer(q, msgUnknownAction)
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.InlineQuery != nil:
		return "inline_query"
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message != nil && update.Message.IsCommand():
		return "command"
	case update.Message != nil:
		return "message"
	}
	return "other"
}
