package models

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Group is an academic group from the catalog.
type Group struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
}

// Region binds a user-facing region name to an IANA timezone identifier.
type Region struct {
	ID         int    `json:"id" validate:"gt=0"`
	Name       string `json:"name" validate:"required"`
	TimeZoneID string `json:"timeZoneId" validate:"required"`
}

// Semester bounds an academic term. The catalog sends ISO timestamps; only
// the calendar date is significant.
type Semester struct {
	ID        int    `json:"id" validate:"gt=0"`
	Name      string `json:"name"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// Start returns the semester start as a UTC calendar date.
func (s Semester) Start() (time.Time, error) {
	return ParseDate(s.StartDate)
}

// End returns the semester end as a UTC calendar date.
func (s Semester) End() (time.Time, error) {
	return ParseDate(s.EndDate)
}

// ParseDate parses a catalog date, tolerating a trailing time component.
func ParseDate(raw string) (time.Time, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(raw), "T")
	t, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// FormatDate renders t as a catalog date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
