package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// setupTimeout bounds the permission check/request flow so a platform prompt
// that never resolves cannot hang startup.
const setupTimeout = 10 * time.Second

// MedicationChannel is the one fixed channel this subsystem declares.
func MedicationChannel() Channel {
	return Channel{
		ID:          "medication_reminders",
		Name:        "Medication Reminders",
		Description: "Reminders to take your medication on time",
		Importance:  5, // max
		Visibility:  1, // public
		Sound:       "default",
		Vibration:   true,
		Lights:      true,
	}
}

// EnsureChannel declares the medication channel. Safe to call on every start:
// platforms with channels create or overwrite it, platforms without treat the
// call as a no-op, and both are success paths.
func EnsureChannel(ctx context.Context, svc Service, log *zap.Logger) {
	if err := svc.CreateChannel(ctx, MedicationChannel()); err != nil {
		log.Debug("channel creation skipped", zap.Error(err))
		return
	}
	log.Info("notification channel ready", zap.String("id", MedicationChannel().ID))
}

// EnsurePermission runs the check/request flow. Denial is not an error for the
// caller: scheduling is silently skipped by the platform and the app keeps
// working without reminders firing.
func EnsurePermission(ctx context.Context, svc Service, log *zap.Logger) Permission {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	perm, err := svc.CheckPermission(ctx)
	if err != nil {
		log.Warn("permission check failed", zap.Error(err))
		return PermissionDenied
	}
	if perm == PermissionPrompt {
		perm, err = svc.RequestPermission(ctx)
		if err != nil {
			log.Warn("permission request failed", zap.Error(err))
			return PermissionDenied
		}
	}
	if perm != PermissionGranted {
		log.Warn("notification permission not granted", zap.Stringer("state", perm))
	} else {
		log.Info("notification permission granted")
	}
	return perm
}
