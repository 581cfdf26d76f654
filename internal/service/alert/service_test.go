package alert

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/repository"
	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
)

type fakeAlertRepo struct {
	created *model.Alert
	updated *model.Alert
}

func (f *fakeAlertRepo) Create(_ context.Context, alert *model.Alert) error {
	f.created = alert
	return nil
}

func (f *fakeAlertRepo) Get(context.Context, uuid.UUID, string) (*model.Alert, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAlertRepo) Update(_ context.Context, alert *model.Alert) error {
	f.updated = alert
	return nil
}

func (f *fakeAlertRepo) Delete(context.Context, uuid.UUID, string) error { return nil }
func (f *fakeAlertRepo) List(context.Context, string) ([]*model.Alert, error) {
	return nil, nil
}
func (f *fakeAlertRepo) ListActive(context.Context) ([]*model.Alert, error) { return nil, nil }

func validAlert() *model.Alert {
	return &model.Alert{
		UserID:     "user-1",
		Keywords:   []string{"NVDA"},
		Subreddits: []string{"stocks"},
		Active:     true,
	}
}

func TestCreateAlertDefaultsTriggerMode(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := NewService(repo)

	alert := validAlert()
	require.NoError(t, svc.CreateAlert(context.Background(), alert))
	assert.Equal(t, model.TriggerModeRecurring, alert.TriggerMode)
	assert.Same(t, alert, repo.created)
}

func TestCreateAlertValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Alert)
	}{
		{"missing user", func(a *model.Alert) { a.UserID = "" }},
		{"empty keywords", func(a *model.Alert) { a.Keywords = nil }},
		{"blank keyword", func(a *model.Alert) { a.Keywords = []string{"NVDA", "  "} }},
		{"empty subreddits", func(a *model.Alert) { a.Subreddits = nil }},
		{"blank subreddit", func(a *model.Alert) { a.Subreddits = []string{""} }},
		{"bad trigger mode", func(a *model.Alert) { a.TriggerMode = "hourly" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAlertRepo{}
			svc := NewService(repo)

			alert := validAlert()
			tt.mutate(alert)

			err := svc.CreateAlert(context.Background(), alert)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.ErrBadRequest, pkgerrors.Code(err))
			assert.Nil(t, repo.created, "invalid alerts never reach the store")
		})
	}
}

func TestUpdateAlertValidates(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := NewService(repo)

	alert := validAlert()
	alert.TriggerMode = model.TriggerModeSingle
	alert.Keywords = nil

	err := svc.UpdateAlert(context.Background(), alert)
	require.Error(t, err)
	assert.Nil(t, repo.updated)
}
