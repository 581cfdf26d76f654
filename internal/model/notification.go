package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationChannel identifies the transport a notification was sent over.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSlack NotificationChannel = "slack"
)

// Notification is an append-only audit entry for an attempted send. Sent is
// recorded at dispatch time, not on confirmed delivery.
type Notification struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	UserID    string              `json:"user_id" db:"user_id"`
	Type      NotificationChannel `json:"type" db:"type"`
	Content   string              `json:"content" db:"content"`
	Sent      bool                `json:"sent" db:"sent"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}
