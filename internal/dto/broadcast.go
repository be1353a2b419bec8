package dto

import "time"

// CreateBroadcastRequest queues a message for every registered user. A nil
// ScheduledAt sends on the next fan-out run.
type CreateBroadcastRequest struct {
	MessageText string     `json:"messageText" validate:"required,max=4096"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}
