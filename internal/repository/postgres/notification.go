package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, content, sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Content,
		notification.Sent,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification entry: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, type, content, sent, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
