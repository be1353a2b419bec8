package models

import (
	"fmt"
	"strings"
	"time"
)

// Lesson occupies one pair slot. Pair numbers are not contiguous: a missing
// number is a free period.
type Lesson struct {
	PairNumber              int    `json:"pairNumber" validate:"gt=0"`
	PairStartTime           string `json:"pairStartTime"`
	PairEndTime             string `json:"pairEndTime"`
	SubjectName             string `json:"subjectName"`
	SubjectShortName        string `json:"subjectShortName"`
	Abbreviation            string `json:"abbreviation"`
	SubjectTypeAbbreviation string `json:"subjectTypeAbbreviation"`
	TeacherFullName         string `json:"teacherFullName"`
	LessonURL               string `json:"lessonUrl"`
}

// ScheduleOverrideInfo is present when the day follows another weekday's pattern.
type ScheduleOverrideInfo struct {
	SubstitutedDayName string `json:"substitutedDayName"`
	Description        string `json:"description"`
}

// DailySchedule is the resolved schedule of a group for one date.
type DailySchedule struct {
	Date                  string                `json:"date" validate:"required"`
	DayOfWeekName         string                `json:"dayOfWeekName"`
	DayOfWeekAbbreviation string                `json:"dayOfWeekAbbreviation"`
	WeekNumber            int                   `json:"weekNumber"`
	IsEvenWeek            bool                  `json:"isEvenWeek"`
	OverrideInfo          *ScheduleOverrideInfo `json:"overrideInfo"`
	GroupName             string                `json:"groupName"`
	Lessons               []Lesson              `json:"lessons" validate:"dive"`
}

// Day parses the schedule date.
func (d DailySchedule) Day() (time.Time, error) {
	return ParseDate(d.Date)
}

// WeeklySchedule aggregates the daily schedules of one week.
type WeeklySchedule struct {
	WeekStartDate string          `json:"weekStartDate" validate:"required"`
	WeekEndDate   string          `json:"weekEndDate"`
	GroupName     string          `json:"groupName"`
	Days          []DailySchedule `json:"days" validate:"dive"`
}

// Start parses the week start date.
func (w WeeklySchedule) Start() (time.Time, error) {
	return ParseDate(w.WeekStartDate)
}

// ClockTime renders a catalog time such as "08:30:00" as "8:30".
func ClockTime(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
		}
	}
	return raw
}
