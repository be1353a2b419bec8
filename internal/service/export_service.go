package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-bot/internal/models"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
	"github.com/noah-isme/schedule-bot/pkg/export"
)

// ExportFormat selects the document type of a schedule export.
type ExportFormat string

const (
	ExportPDF ExportFormat = "pdf"
	ExportCSV ExportFormat = "csv"
)

var weekColumns = []string{"Дата", "День", "Пара", "Час", "Предмет", "Тип", "Викладач"}

type weekResolver interface {
	ForWeek(ctx context.Context, telegramID int64, date *time.Time) (*models.WeeklySchedule, error)
}

// Document is a rendered export ready to be uploaded.
type Document struct {
	Name    string
	Content []byte
}

// ExportService renders week schedules as downloadable documents.
type ExportService struct {
	schedules weekResolver
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	logger    *zap.Logger
}

// NewExportService creates an export service.
func NewExportService(schedules weekResolver, fontPath string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		pdf:       export.NewPDFExporter(fontPath),
		csv:       export.NewCSVExporter(),
		logger:    logger,
	}
}

// Week exports the week containing date for the user.
func (s *ExportService) Week(ctx context.Context, telegramID int64, date *time.Time, format ExportFormat) (*Document, error) {
	week, err := s.schedules.ForWeek(ctx, telegramID, date)
	if err != nil {
		return nil, err
	}

	start, err := week.Start()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid week start date")
	}

	dataset := WeekDataset(*week)
	name := fmt.Sprintf("schedule-%s.%s", models.FormatDate(start), format)

	var content []byte
	switch format {
	case ExportCSV:
		content, err = s.csv.Render(dataset)
	case ExportPDF:
		title := fmt.Sprintf("%s %s", week.GroupName, start.Format("02.01.2006"))
		content, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format "+string(format))
	}
	if err != nil {
		s.logger.Error("render export failed", zap.Int64("telegram_id", telegramID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &Document{Name: name, Content: content}, nil
}

// WeekDataset flattens a week into one row per lesson. Days without lessons
// keep a single row so the table still lists them.
func WeekDataset(week models.WeeklySchedule) export.Dataset {
	data := export.Dataset{
		Headers: weekColumns,
		Weights: []float64{1.2, 1.5, 0.7, 1.4, 4, 0.8, 3},
	}
	for _, day := range week.Days {
		date := day.Date
		if d, err := day.Day(); err == nil {
			date = d.Format("02.01")
		}
		if len(day.Lessons) == 0 {
			data.Rows = append(data.Rows, map[string]string{"Дата": date, "День": day.DayOfWeekName, "Предмет": "—"})
			continue
		}
		for _, lesson := range sortedLessons(day.Lessons) {
			data.Rows = append(data.Rows, map[string]string{
				"Дата":     date,
				"День":     day.DayOfWeekName,
				"Пара":     strconv.Itoa(lesson.PairNumber),
				"Час":      models.ClockTime(lesson.PairStartTime) + "-" + models.ClockTime(lesson.PairEndTime),
				"Предмет":  lesson.SubjectName,
				"Тип":      lesson.SubjectTypeAbbreviation,
				"Викладач": lesson.TeacherFullName,
			})
		}
	}
	return data
}

func sortedLessons(lessons []models.Lesson) []models.Lesson {
	out := append([]models.Lesson(nil), lessons...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PairNumber < out[j].PairNumber })
	return out
}
