package model

import (
	"time"

	"github.com/google/uuid"
)

// Draft is an AI-generated reply saved for a specific post.
type Draft struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	PostID    string    `json:"post_id" db:"post_id"`
	Content   string    `json:"draft_content" db:"draft_content"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
