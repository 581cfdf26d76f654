package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TriggerMode controls whether an alert keeps firing after its first match.
// single-fire alerts are currently informational only: the sweep does not
// deactivate them after a match.
type TriggerMode string

const (
	TriggerModeSingle    TriggerMode = "single"
	TriggerModeRecurring TriggerMode = "recurring"
)

// Alert is a keyword watch over one or more subreddits, owned by a single user.
type Alert struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      string         `json:"user_id" db:"user_id"`
	Keywords    pq.StringArray `json:"keywords" db:"keywords"`
	Subreddits  pq.StringArray `json:"subreddits" db:"subreddits"`
	Active      bool           `json:"active" db:"active"`
	TriggerMode TriggerMode    `json:"trigger_mode" db:"trigger_mode"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
