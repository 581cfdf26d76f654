package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries per-user notification preferences. The sweep only reads it;
// a missing profile disables notifications for that user without failing the
// alert.
type Profile struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	RedditUsername    *string   `json:"reddit_username" db:"reddit_username"`
	EmailAddress      string    `json:"email_address" db:"email_address"`
	NotificationEmail bool      `json:"notification_email" db:"notification_email"`
	NotificationSlack bool      `json:"notification_slack" db:"notification_slack"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
