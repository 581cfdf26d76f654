package model

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is the classification label attached to a seen post.
type Sentiment string

const (
	SentimentOpportunity Sentiment = "opportunity"
	SentimentNeutral     Sentiment = "neutral"
	SentimentIrrelevant  Sentiment = "irrelevant"
)

// Post is the persisted record of a Reddit post already processed by a sweep.
// PostID is the Reddit-assigned id and is unique across the whole store; it is
// the dedup key, so a post matched by several keywords or alerts is recorded
// at most once.
type Post struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	PostID      string     `json:"post_id" db:"post_id"`
	Subreddit   string     `json:"subreddit" db:"subreddit"`
	Title       string     `json:"title" db:"title"`
	Content     string     `json:"content" db:"content"`
	Author      string     `json:"author" db:"author"`
	URL         string     `json:"url" db:"url"`
	Score       int        `json:"score" db:"score"`
	NumComments int        `json:"num_comments" db:"num_comments"`
	Sentiment   *Sentiment `json:"sentiment" db:"sentiment"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	FetchedAt   time.Time  `json:"fetched_at" db:"fetched_at"`
}
