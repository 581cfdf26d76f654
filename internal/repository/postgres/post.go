package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type postRepository struct {
	BaseRepository
}

func NewPostRepository(base BaseRepository) repository.PostRepository {
	return &postRepository{base}
}

// Create inserts a seen post record. reddit_posts carries a unique index on
// post_id; a conflicting insert reports ErrDuplicate instead of failing, so
// concurrent sweeps racing on the same post converge on "already seen".
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO reddit_posts (
			id, user_id, post_id, subreddit, title, content, author, url,
			score, num_comments, sentiment, created_at, fetched_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (post_id) DO NOTHING
	`
	post.ID = uuid.New()
	if post.FetchedAt.IsZero() {
		post.FetchedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.PostID,
		post.Subreddit,
		post.Title,
		post.Content,
		post.Author,
		post.URL,
		post.Score,
		post.NumComments,
		post.Sentiment,
		post.CreatedAt,
		post.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrDuplicate
	}
	return nil
}

func (r *postRepository) Exists(ctx context.Context, postID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reddit_posts WHERE post_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, postID); err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}

func (r *postRepository) List(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	query := `
		SELECT id, user_id, post_id, subreddit, title, content, author, url,
			score, num_comments, sentiment, created_at, fetched_at
		FROM reddit_posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var posts []*model.Post
	if err := r.db.SelectContext(ctx, &posts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}
