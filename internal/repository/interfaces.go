package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert collides with a uniqueness
// constraint. The sweep treats it on posts as "already seen".
var ErrDuplicate = errors.New("duplicate record")

// All repository interfaces in one file
type (
	// AlertRepository handles keyword alert persistence. All single-row
	// operations are owner-scoped; the sweep uses ListActive across owners.
	AlertRepository interface {
		Create(ctx context.Context, alert *model.Alert) error
		Get(ctx context.Context, id uuid.UUID, userID string) (*model.Alert, error)
		Update(ctx context.Context, alert *model.Alert) error
		Delete(ctx context.Context, id uuid.UUID, userID string) error
		List(ctx context.Context, userID string) ([]*model.Alert, error)
		ListActive(ctx context.Context) ([]*model.Alert, error)
	}

	// PostRepository stores seen post records. PostID (the Reddit id) is
	// unique across the table.
	PostRepository interface {
		Create(ctx context.Context, post *model.Post) error
		Exists(ctx context.Context, postID string) (bool, error)
		List(ctx context.Context, userID string, limit int) ([]*model.Post, error)
	}

	// NotificationRepository is the append-only notification audit log.
	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		List(ctx context.Context, userID string, limit int) ([]*model.Notification, error)
	}

	// DraftRepository stores AI reply drafts.
	DraftRepository interface {
		Create(ctx context.Context, draft *model.Draft) error
		List(ctx context.Context, userID string) ([]*model.Draft, error)
		MarkUsed(ctx context.Context, id uuid.UUID, userID string) error
	}

	// ProfileRepository reads and writes user notification preferences.
	ProfileRepository interface {
		GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
		Upsert(ctx context.Context, profile *model.Profile) error
	}
)
