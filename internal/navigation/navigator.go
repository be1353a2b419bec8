package navigation

import (
	"time"

	"github.com/icza/gox/timex"
)

// Bounds are the calendar dates navigation may not pass. The zero value is
// unbounded.
type Bounds struct {
	Start time.Time
	End   time.Time
	known bool
}

// NewBounds builds bounds from inclusive start and end dates.
func NewBounds(start, end time.Time) Bounds {
	return Bounds{Start: dateOf(start), End: dateOf(end), known: true}
}

// Known reports whether the bounds constrain navigation.
func (b Bounds) Known() bool {
	return b.known
}

// View is the schedule currently on screen.
type View struct {
	Mode    Mode
	Date    time.Time
	OwnerID int64
}

// Affordance is a button of the navigation keyboard.
type Affordance struct {
	Label string
	Token Token
}

// WeekStart returns the Monday of the ISO week containing date.
func WeekStart(date time.Time) time.Time {
	year, week := dateOf(date).ISOWeek()
	return timex.WeekStart(year, week)
}

// Normalise aligns date to the granularity of mode.
func Normalise(date time.Time, mode Mode) time.Time {
	if mode == ModeWeek {
		return WeekStart(date)
	}
	return dateOf(date)
}

// CanStep reports whether action leads anywhere from date within b.
func CanStep(date time.Time, mode Mode, action Action, b Bounds) bool {
	if !b.known {
		return true
	}
	first, last := span(date, mode)
	switch action {
	case ActionPrev, ActionPrevWeek:
		return first.After(b.Start)
	case ActionNext, ActionNextWeek:
		return last.Before(b.End)
	default:
		return true
	}
}

// Step returns the date reached by action, clamped to b. The bool is false
// when the view already sits on the bound in that direction.
func Step(date time.Time, mode Mode, action Action, b Bounds) (time.Time, bool) {
	date = Normalise(date, mode)
	if !CanStep(date, mode, action, b) {
		return date, false
	}

	var target time.Time
	switch action {
	case ActionPrev:
		target = date.AddDate(0, 0, -1)
	case ActionNext:
		target = date.AddDate(0, 0, 1)
	case ActionPrevWeek:
		target = date.AddDate(0, 0, -7)
	case ActionNextWeek:
		target = date.AddDate(0, 0, 7)
	default:
		return date, true
	}

	if b.known {
		if target.Before(b.Start) {
			target = b.Start
		}
		if target.After(b.End) {
			target = b.End
		}
	}
	return Normalise(target, mode), true
}

// Affordances lays out the navigation keyboard of v. A direction that is
// blocked by a bound is left out entirely.
func Affordances(v View, b Bounds) [][]Affordance {
	date := Normalise(v.Date, v.Mode)
	token := func(action Action, mode Mode) Token {
		return Token{Action: action, Mode: mode, Date: date, OwnerID: v.OwnerID}
	}

	prev, next := ActionPrev, ActionNext
	prevLabel, nextLabel := "⬅️ Попередній день", "Наступний день ➡️"
	toggle := Affordance{Label: "🗓 Тиждень", Token: token(ActionShow, ModeWeek)}
	if v.Mode == ModeWeek {
		prev, next = ActionPrevWeek, ActionNextWeek
		prevLabel, nextLabel = "⬅️ Попередній тиждень", "Наступний тиждень ➡️"
		toggle = Affordance{Label: "📅 День", Token: token(ActionShow, ModeDay)}
	}

	var arrows []Affordance
	if CanStep(date, v.Mode, prev, b) {
		arrows = append(arrows, Affordance{Label: prevLabel, Token: token(prev, v.Mode)})
	}
	if CanStep(date, v.Mode, next, b) {
		arrows = append(arrows, Affordance{Label: nextLabel, Token: token(next, v.Mode)})
	}

	rows := make([][]Affordance, 0, 2)
	if len(arrows) > 0 {
		rows = append(rows, arrows)
	}
	rows = append(rows, []Affordance{toggle, {Label: "❌ Закрити", Token: token(ActionClose, v.Mode)}})
	return rows
}

// span is the first and last calendar day covered by a view.
func span(date time.Time, mode Mode) (time.Time, time.Time) {
	if mode == ModeWeek {
		start := WeekStart(date)
		return start, start.AddDate(0, 0, 6)
	}
	d := dateOf(date)
	return d, d
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
