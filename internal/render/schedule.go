// Package render turns catalog entities into Telegram HTML messages.
package render

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/noah-isme/schedule-bot/internal/models"
)

const (
	separator = "━━━━━━━━━━━━━━━━━━"
	freeDay   = "🎉 Пар немає, можна відпочити!"
)

var months = [...]string{
	"Січня", "Лютого", "Березня", "Квітня", "Травня", "Червня",
	"Липня", "Серпня", "Вересня", "Жовтня", "Листопада", "Грудня",
}

// SeasonalEmoji picks the emoji of the season date falls in.
func SeasonalEmoji(date time.Time) string {
	switch date.Month() {
	case time.December, time.January, time.February:
		return "❄️"
	case time.March, time.April, time.May:
		return "🌷"
	case time.June, time.July, time.August:
		return "☀️"
	default:
		return "🍁"
	}
}

// MonthGenitive returns the Ukrainian genitive month name.
func MonthGenitive(m time.Month) string {
	return months[m-1]
}

// Day renders one day of a group schedule. Missing pair numbers between the
// first pair and the last scheduled one are shown as free periods.
func Day(schedule models.DailySchedule) (string, error) {
	date, err := schedule.Day()
	if err != nil {
		return "", err
	}

	weekType := "непарний"
	if schedule.IsEvenWeek {
		weekType = "парний"
	}

	parts := []string{
		fmt.Sprintf("%s %s. %02d %s", SeasonalEmoji(date), capitalise(html.EscapeString(schedule.DayOfWeekName)), date.Day(), MonthGenitive(date.Month())),
		fmt.Sprintf("%s Тиждень %d (%s)", html.EscapeString(schedule.GroupName), schedule.WeekNumber, weekType),
	}

	if o := schedule.OverrideInfo; o != nil {
		parts = append(parts, "❗️ <b>Заміна:</b> "+html.EscapeString(o.SubstitutedDayName))
		if o.Description != "" {
			parts = append(parts, "<i>"+html.EscapeString(o.Description)+"</i>")
		}
	}

	parts = append(parts, separator)

	if len(schedule.Lessons) == 0 {
		parts = append(parts, freeDay)
		return strings.Join(parts, "\n"), nil
	}

	// a repeated pair number keeps the last lesson
	byNumber := make(map[int]models.Lesson, len(schedule.Lessons))
	maxPair := 0
	for _, lesson := range schedule.Lessons {
		byNumber[lesson.PairNumber] = lesson
		if lesson.PairNumber > maxPair {
			maxPair = lesson.PairNumber
		}
	}

	for n := 1; n <= maxPair; n++ {
		lesson, ok := byNumber[n]
		if !ok {
			parts = append(parts, fmt.Sprintf("%d. 😴 Вікно", n))
			continue
		}
		parts = append(parts, lessonLine(lesson))
	}

	return strings.Join(parts, "\n"), nil
}

// Week renders a week title followed by every day in date order.
func Week(schedule models.WeeklySchedule) (string, error) {
	start, err := schedule.Start()
	if err != nil {
		return "", err
	}
	end := start.AddDate(0, 0, 6)
	if schedule.WeekEndDate != "" {
		if end, err = models.ParseDate(schedule.WeekEndDate); err != nil {
			return "", err
		}
	}

	days := append([]models.DailySchedule(nil), schedule.Days...)
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	blocks := []string{fmt.Sprintf("🗓 <b>Тиждень %s–%s</b>", start.Format("02.01"), end.Format("02.01"))}
	for _, day := range days {
		text, err := Day(day)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, text)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func lessonLine(lesson models.Lesson) string {
	name := html.EscapeString(lesson.SubjectName)
	if lesson.LessonURL != "" {
		name = fmt.Sprintf("<a href='%s'>%s</a>", html.EscapeString(lesson.LessonURL), name)
	}
	return fmt.Sprintf("%d. %s (%s) (%s-%s) %s",
		lesson.PairNumber,
		name,
		html.EscapeString(lesson.SubjectTypeAbbreviation),
		models.ClockTime(lesson.PairStartTime),
		models.ClockTime(lesson.PairEndTime),
		html.EscapeString(lesson.TeacherFullName),
	)
}

// capitalise upper-cases the first letter and lower-cases the rest.
func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
