package models

import "time"

// Wizard steps tracked per chat.
const (
	StepRegistrationGroup  = "registration:group"
	StepRegistrationRegion = "registration:region"
	StepSettingsGroup      = "settings:group"
	StepSettingsRegion     = "settings:region"
	StepBroadcastType      = "broadcast:type"
	StepBroadcastTime      = "broadcast:time"
	StepBroadcastMessage   = "broadcast:message"
	StepBroadcastConfirm   = "broadcast:confirm"
)

// ChatState is the in-progress wizard of one chat.
type ChatState struct {
	Step      string
	GroupID   int
	GroupName string
	Broadcast BroadcastDraft
	UpdatedAt time.Time
}

// BroadcastDraft collects the admin's broadcast while the wizard runs.
type BroadcastDraft struct {
	Scheduled   bool
	ScheduledAt *time.Time
	Text        string
}
