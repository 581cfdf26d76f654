package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type alertRepository struct {
	BaseRepository
}

func NewAlertRepository(base BaseRepository) repository.AlertRepository {
	return &alertRepository{base}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.Alert) error {
	query := `
		INSERT INTO keyword_alerts (
			id, user_id, keywords, subreddits, active, trigger_mode, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	alert.ID = uuid.New()
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.UserID,
		alert.Keywords,
		alert.Subreddits,
		alert.Active,
		alert.TriggerMode,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *alertRepository) Get(ctx context.Context, id uuid.UUID, userID string) (*model.Alert, error) {
	query := `
		SELECT id, user_id, keywords, subreddits, active, trigger_mode, created_at, updated_at
		FROM keyword_alerts
		WHERE id = $1 AND user_id = $2
	`
	var alert model.Alert
	err := r.db.GetContext(ctx, &alert, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return &alert, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.Alert) error {
	query := `
		UPDATE keyword_alerts
		SET keywords = $1, subreddits = $2, active = $3, trigger_mode = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	alert.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		alert.Keywords,
		alert.Subreddits,
		alert.Active,
		alert.TriggerMode,
		alert.UpdatedAt,
		alert.ID,
		alert.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
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

func (r *alertRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM keyword_alerts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
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

func (r *alertRepository) List(ctx context.Context, userID string) ([]*model.Alert, error) {
	query := `
		SELECT id, user_id, keywords, subreddits, active, trigger_mode, created_at, updated_at
		FROM keyword_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var alerts []*model.Alert
	if err := r.db.SelectContext(ctx, &alerts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) ListActive(ctx context.Context) ([]*model.Alert, error) {
	query := `
		SELECT id, user_id, keywords, subreddits, active, trigger_mode, created_at, updated_at
		FROM keyword_alerts
		WHERE active = true
		ORDER BY created_at
	`
	var alerts []*model.Alert
	if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	return alerts, nil
}
