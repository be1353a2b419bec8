// Package navigation encodes schedule view state into callback tokens and
// computes the semester-clamped affordances shown under a schedule.
package navigation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Action is the navigation step a button performs.
type Action string

const (
	ActionPrev     Action = "p"
	ActionNext     Action = "n"
	ActionPrevWeek Action = "pw"
	ActionNextWeek Action = "nw"
	ActionShow     Action = "s"
	ActionClose    Action = "c"
)

// Mode is the schedule granularity.
type Mode string

const (
	ModeDay  Mode = "d"
	ModeWeek Mode = "w"
)

const (
	tokenPrefix = "nav"
	dateLayout  = "2006-01-02"

	// MaxTokenLength is Telegram's callback_data limit.
	MaxTokenLength = 64
)

// Token is the state carried by a navigation button. OwnerID is the identity
// the schedule belongs to, which is not necessarily the user who clicks.
type Token struct {
	Action  Action
	Mode    Mode
	Date    time.Time
	OwnerID int64
}

// Encode renders t as nav:{action}:{mode}:{date}:{owner}.
func Encode(t Token) string {
	return strings.Join([]string{
		tokenPrefix,
		string(t.Action),
		string(t.Mode),
		t.Date.Format(dateLayout),
		strconv.FormatInt(t.OwnerID, 10),
	}, ":")
}

// IsToken reports whether raw looks like a navigation token.
func IsToken(raw string) bool {
	return strings.HasPrefix(raw, tokenPrefix+":")
}

// Decode parses a token produced by Encode.
func Decode(raw string) (Token, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 5 || parts[0] != tokenPrefix {
		return Token{}, fmt.Errorf("malformed navigation token %q", raw)
	}

	action := Action(parts[1])
	switch action {
	case ActionPrev, ActionNext, ActionPrevWeek, ActionNextWeek, ActionShow, ActionClose:
	default:
		return Token{}, fmt.Errorf("unknown navigation action %q", parts[1])
	}

	mode := Mode(parts[2])
	if mode != ModeDay && mode != ModeWeek {
		return Token{}, fmt.Errorf("unknown navigation mode %q", parts[2])
	}

	date, err := time.Parse(dateLayout, parts[3])
	if err != nil {
		return Token{}, fmt.Errorf("invalid navigation date: %w", err)
	}

	owner, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil || owner == 0 {
		return Token{}, fmt.Errorf("invalid navigation owner %q", parts[4])
	}

	return Token{Action: action, Mode: mode, Date: date, OwnerID: owner}, nil
}
