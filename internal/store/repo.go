package store

import (
	"context"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

// Repo is the client-local storage port: user preferences (read on init,
// written on change), the cached copy of remote schedules, and the pending
// notification set owned by the local device service.
type Repo interface {
	Preferences(ctx context.Context) (domain.Preferences, error)
	SavePreferences(ctx context.Context, p domain.Preferences) error

	SaveSchedules(ctx context.Context, schedules []domain.MedicationSchedule) error
	LoadSchedules(ctx context.Context) ([]domain.MedicationSchedule, error)

	InsertPending(ctx context.Context, batch []domain.PlannedNotification) error
	DeletePending(ctx context.Context, ids []int32) error
	ListPending(ctx context.Context) ([]domain.PlannedNotification, error)

	Close() error
}
