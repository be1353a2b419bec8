package handler

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/internal/navigation"
	"github.com/noah-isme/schedule-bot/internal/repository"
	"github.com/noah-isme/schedule-bot/internal/service"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	photoErr error
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, c)
	if _, ok := c.(tgbotapi.PhotoConfig); ok && a.photoErr != nil {
		return tgbotapi.Message{}, a.photoErr
	}
	return tgbotapi.Message{MessageID: len(a.sent)}, nil
}

func (a *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *fakeAPI) messages() []tgbotapi.MessageConfig {
	var out []tgbotapi.MessageConfig
	for _, c := range a.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (a *fakeAPI) edits() []tgbotapi.EditMessageTextConfig {
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range a.requests {
		if m, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (a *fakeAPI) answers() []tgbotapi.CallbackConfig {
	var out []tgbotapi.CallbackConfig
	for _, c := range a.requests {
		if m, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (a *fakeAPI) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	edits := a.edits()
	if len(edits) == 0 {
		t.Fatal("no message was edited")
	}
	return edits[len(edits)-1]
}

type fakeUsers struct {
	users       map[int64]models.User
	registered  []service.RegisterRequest
	registerErr error
	groupMoves  map[int64]int
	regionMoves map[int64]int
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]models.User), groupMoves: make(map[int64]int), regionMoves: make(map[int64]int)}
	for _, u := range users {
		f.users[*u.TelegramID] = u
	}
	return f
}

func (f *fakeUsers) Resolve(_ context.Context, telegramID int64) (*models.User, error) {
	u, ok := f.users[telegramID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotRegistered, "not registered")
	}
	return &u, nil
}

func (f *fakeUsers) Register(_ context.Context, req service.RegisterRequest) (string, error) {
	f.registered = append(f.registered, req)
	if f.registerErr != nil {
		return "", f.registerErr
	}
	groupID, _ := strconv.Atoi(req.GroupID)
	regionID, _ := strconv.Atoi(req.RegionID)
	id := req.TelegramID
	f.users[id] = models.User{ID: len(f.users) + 1, TelegramID: &id, GroupID: groupID, RegionID: regionID}
	return "✅ Вас успішно зареєстровано!", nil
}

func (f *fakeUsers) ChangeGroup(_ context.Context, telegramID int64, groupID int) error {
	if _, ok := f.users[telegramID]; !ok {
		return appErrors.Clone(appErrors.ErrNotRegistered, "not registered")
	}
	f.groupMoves[telegramID] = groupID
	return nil
}

func (f *fakeUsers) ChangeRegion(_ context.Context, telegramID int64, regionID int) error {
	if _, ok := f.users[telegramID]; !ok {
		return appErrors.Clone(appErrors.ErrNotRegistered, "not registered")
	}
	f.regionMoves[telegramID] = regionID
	return nil
}

type fakeGroups struct{ items []models.Group }

func (f *fakeGroups) List(context.Context) ([]models.Group, error) { return f.items, nil }

func (f *fakeGroups) NameByID(_ context.Context, id int) (string, bool, error) {
	for _, g := range f.items {
		if g.ID == id {
			return g.Name, true, nil
		}
	}
	return "", false, nil
}

type fakeRegions struct{ items []models.Region }

func (f *fakeRegions) List(context.Context) ([]models.Region, error) { return f.items, nil }

func (f *fakeRegions) NameByID(_ context.Context, id int) (string, bool, error) {
	for _, r := range f.items {
		if r.ID == id {
			return r.Name, true, nil
		}
	}
	return "", false, nil
}

type fakeSemesters struct {
	bounds navigation.Bounds
	err    error
}

func (f *fakeSemesters) Bounds(context.Context) (navigation.Bounds, error) { return f.bounds, f.err }

type scheduleCall struct {
	owner int64
	mode  navigation.Mode
	date  *time.Time
}

type fakeSchedules struct {
	today time.Time
	calls []scheduleCall
	err   error
}

func (f *fakeSchedules) ForDay(_ context.Context, telegramID int64, date *time.Time) (*models.DailySchedule, error) {
	f.calls = append(f.calls, scheduleCall{owner: telegramID, mode: navigation.ModeDay, date: date})
	if f.err != nil {
		return nil, f.err
	}
	day := f.today
	if date != nil {
		day = *date
	}
	return &models.DailySchedule{
		Date:          models.FormatDate(day),
		DayOfWeekName: "понеділок",
		GroupName:     "КН-21",
		Lessons:       []models.Lesson{{PairNumber: 1, PairStartTime: "08:30:00", PairEndTime: "09:50:00", SubjectName: "Алгоритми"}},
	}, nil
}

func (f *fakeSchedules) ForWeek(_ context.Context, telegramID int64, date *time.Time) (*models.WeeklySchedule, error) {
	f.calls = append(f.calls, scheduleCall{owner: telegramID, mode: navigation.ModeWeek, date: date})
	if f.err != nil {
		return nil, f.err
	}
	day := f.today
	if date != nil {
		day = *date
	}
	start := navigation.WeekStart(day)
	return &models.WeeklySchedule{
		WeekStartDate: models.FormatDate(start),
		WeekEndDate:   models.FormatDate(start.AddDate(0, 0, 6)),
		GroupName:     "КН-21",
		Days:          []models.DailySchedule{{Date: models.FormatDate(start), DayOfWeekName: "понеділок"}},
	}, nil
}

type fakeTeachers struct{ items []models.Teacher }

func (f *fakeTeachers) List(context.Context) ([]models.Teacher, error) { return f.items, nil }

func (f *fakeTeachers) Get(_ context.Context, id int) (*models.Teacher, bool, error) {
	for _, t := range f.items {
		if t.ID == id {
			t := t
			return &t, true, nil
		}
	}
	return nil, false, nil
}

type fakeSubjects struct {
	items   []models.Subject
	details map[string]models.SubjectDetails
	groups  []int
}

func (f *fakeSubjects) List(context.Context) ([]models.Subject, error) { return f.items, nil }

func (f *fakeSubjects) Details(_ context.Context, abbreviation string, groupID int) (*models.SubjectDetails, bool, error) {
	f.groups = append(f.groups, groupID)
	d, ok := f.details[abbreviation]
	if !ok {
		return nil, false, nil
	}
	return &d, true, nil
}

type broadcastCall struct {
	text string
	at   *time.Time
}

type fakeBroadcasts struct {
	now   time.Time
	calls []broadcastCall
}

func (f *fakeBroadcasts) ParseScheduleTime(raw string) (time.Time, error) {
	at, err := time.ParseInLocation(service.BroadcastTimeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "❌ Неправильний формат.")
	}
	if !at.After(f.now) {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "❌ Помилка: вказаний час вже минув.")
	}
	return at, nil
}

func (f *fakeBroadcasts) Create(_ context.Context, text string, scheduledAt *time.Time) (string, error) {
	f.calls = append(f.calls, broadcastCall{text: text, at: scheduledAt})
	return "✅ Розсилку створено", nil
}

type fakeExports struct {
	format service.ExportFormat
	owner  int64
}

func (f *fakeExports) Week(_ context.Context, telegramID int64, _ *time.Time, format service.ExportFormat) (*service.Document, error) {
	f.owner = telegramID
	f.format = format
	return &service.Document{Name: "schedule-2024-10-07." + string(format), Content: []byte("data")}, nil
}

type harness struct {
	bot        *Bot
	api        *fakeAPI
	users      *fakeUsers
	semesters  *fakeSemesters
	schedules  *fakeSchedules
	teachers   *fakeTeachers
	subjects   *fakeSubjects
	broadcasts *fakeBroadcasts
	exports    *fakeExports
	states     *repository.StateRepository
}

func newHarness(users ...models.User) *harness {
	h := &harness{
		api:       &fakeAPI{},
		users:     newFakeUsers(users...),
		semesters: &fakeSemesters{bounds: navigation.NewBounds(day(2024, 9, 1), day(2024, 12, 31))},
		schedules: &fakeSchedules{today: day(2024, 10, 7)},
		teachers: &fakeTeachers{items: []models.Teacher{
			{ID: 1, FullName: "Іваненко Іван", Infos: []models.TeacherInfo{{InfoTypeName: "photoUrl", Value: "https://example.com/p.jpg"}, {InfoTypeName: "Email", Value: "i@example.com"}}},
			{ID: 2, FullName: "Петренко Петро"},
		}},
		subjects: &fakeSubjects{
			items:   []models.Subject{{Name: "Алгоритми", Abbreviation: "ALG"}},
			details: map[string]models.SubjectDetails{"ALG": {Name: "Алгоритми", Abbreviation: "ALG"}},
		},
		broadcasts: &fakeBroadcasts{now: time.Date(2024, 10, 7, 9, 0, 0, 0, time.UTC)},
		exports:    &fakeExports{},
		states:     repository.NewStateRepository(time.Hour),
	}
	h.bot = NewBot(Deps{
		API:         h.api,
		Users:       h.users,
		Groups:      &fakeGroups{items: []models.Group{{ID: 10, Name: "КН-21"}, {ID: 11, Name: "КН-22"}}},
		Regions:     &fakeRegions{items: []models.Region{{ID: 3, Name: "Київ"}}},
		Semesters:   h.semesters,
		Schedules:   h.schedules,
		Teachers:    h.teachers,
		Subjects:    h.subjects,
		Broadcasts:  h.broadcasts,
		Exports:     h.exports,
		States:      h.states,
		BotUsername: "schedule_test_bot",
	})
	return h
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func registered(telegramID int64, admin bool) models.User {
	id := telegramID
	return models.User{ID: 1, TelegramID: &id, GroupID: 10, RegionID: 3, IsAdmin: admin}
}

func command(chatID, from int64, text string) tgbotapi.Update {
	cmd := text
	for i, r := range text {
		if r == ' ' {
			cmd = text[:i]
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from, FirstName: "Олена", UserName: "olena"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func message(chatID, from int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from, FirstName: "Олена"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}}
}

func callback(chatID, from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    &tgbotapi.User{ID: from, FirstName: "Олена", UserName: "olena"},
		Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func inlineCallback(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:              "icb-" + data,
		From:            &tgbotapi.User{ID: from},
		InlineMessageID: "inline-1",
		Data:            data,
	}}
}

// buttonData flattens the callback data of an inline keyboard.
func buttonData(markup interface{}) []string {
	var kb tgbotapi.InlineKeyboardMarkup
	switch m := markup.(type) {
	case tgbotapi.InlineKeyboardMarkup:
		kb = m
	case *tgbotapi.InlineKeyboardMarkup:
		if m == nil {
			return nil
		}
		kb = *m
	default:
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}
