package alert

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
)

type AlertServicer interface {
	CreateAlert(ctx context.Context, alert *model.Alert) error
	GetAlert(ctx context.Context, id uuid.UUID, userID string) (*model.Alert, error)
	UpdateAlert(ctx context.Context, alert *model.Alert) error
	DeleteAlert(ctx context.Context, id uuid.UUID, userID string) error
	ListAlerts(ctx context.Context, userID string) ([]*model.Alert, error)
}

type Service struct {
	repo repository.AlertRepository
}

func NewService(repo repository.AlertRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateAlert(ctx context.Context, alert *model.Alert) error {
	if alert.TriggerMode == "" {
		alert.TriggerMode = model.TriggerModeRecurring
	}
	if err := validateAlert(alert); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (s *Service) GetAlert(ctx context.Context, id uuid.UUID, userID string) (*model.Alert, error) {
	alert, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *Service) UpdateAlert(ctx context.Context, alert *model.Alert) error {
	if err := validateAlert(alert); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, alert); err != nil {
		return err
	}
	return nil
}

func (s *Service) DeleteAlert(ctx context.Context, id uuid.UUID, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *Service) ListAlerts(ctx context.Context, userID string) ([]*model.Alert, error) {
	alerts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// validateAlert rejects unusable alerts before they reach the store: an
// alert with no keywords or no subreddits would match nothing.
func validateAlert(alert *model.Alert) error {
	if alert.UserID == "" {
		return pkgerrors.BadRequest("user is required", nil)
	}
	if len(alert.Keywords) == 0 {
		return pkgerrors.BadRequest("keywords must not be empty", nil)
	}
	for _, kw := range alert.Keywords {
		if strings.TrimSpace(kw) == "" {
			return pkgerrors.BadRequest("keywords must not contain blank entries", nil)
		}
	}
	if len(alert.Subreddits) == 0 {
		return pkgerrors.BadRequest("subreddits must not be empty", nil)
	}
	for _, sub := range alert.Subreddits {
		if strings.TrimSpace(sub) == "" {
			return pkgerrors.BadRequest("subreddits must not contain blank entries", nil)
		}
	}
	if alert.TriggerMode != model.TriggerModeSingle && alert.TriggerMode != model.TriggerModeRecurring {
		return pkgerrors.BadRequest("trigger_mode must be 'single' or 'recurring'", nil)
	}
	return nil
}
