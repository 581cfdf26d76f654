package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type draftRepository struct {
	BaseRepository
}

func NewDraftRepository(base BaseRepository) repository.DraftRepository {
	return &draftRepository{base}
}

func (r *draftRepository) Create(ctx context.Context, draft *model.Draft) error {
	query := `
		INSERT INTO ai_drafts (id, user_id, post_id, draft_content, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	draft.ID = uuid.New()
	draft.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		draft.ID,
		draft.UserID,
		draft.PostID,
		draft.Content,
		draft.Used,
		draft.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (r *draftRepository) List(ctx context.Context, userID string) ([]*model.Draft, error) {
	query := `
		SELECT id, user_id, post_id, draft_content, used, created_at
		FROM ai_drafts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var drafts []*model.Draft
	if err := r.db.SelectContext(ctx, &drafts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

func (r *draftRepository) MarkUsed(ctx context.Context, id uuid.UUID, userID string) error {
	query := `UPDATE ai_drafts SET used = true WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark draft used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
