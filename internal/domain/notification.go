package domain

import (
	"time"
)

// Notification statuses.
const (
	NotificationStatusPending = "Pending"
	NotificationStatusSent    = "Sent"
	NotificationStatusFailed  = "Failed"
)

// Notification represents a stored notification for an account. Records are
// created in Pending status; delivery is handled out of band.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Content   string     `json:"content"`
	SendAt    *time.Time `json:"send_at,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
