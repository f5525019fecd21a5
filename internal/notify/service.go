package notify

import (
	"context"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

// Permission is the device notification permission state.
type Permission int

const (
	PermissionPrompt Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "prompt"
	}
}

// Channel describes a notification channel/category on platforms that have
// them.
type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  int
	Visibility  int
	Sound       string
	Vibration   bool
	Lights      bool
}

// Pending identifies one notification currently installed on the device.
type Pending struct {
	ID int32
}

// Action is delivered when the user taps a fired notification; the payload is
// enough to correlate the tap back to its schedule.
type Action struct {
	ScheduleID string
	Slot       domain.TimingSlot
}

// Service is the device local-notification port. Platform implementations own
// the pending-notification set; this package only tells them what it should be.
type Service interface {
	CheckPermission(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
	Pending(ctx context.Context) ([]Pending, error)
	Cancel(ctx context.Context, ids []int32) error
	ScheduleBatch(ctx context.Context, batch []domain.PlannedNotification) error
	// CreateChannel must be idempotent; platforms without channels treat it as
	// a no-op success.
	CreateChannel(ctx context.Context, ch Channel) error
	OnAction(fn func(Action))
}
