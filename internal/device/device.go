// Package device implements the local-notification port for a headless host:
// the pending set lives in SQLite and a cron dispatcher fires each notification
// daily at its wall-clock time through a Sender.
package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/karthikrayaprolu/medimind/internal/domain"
	"github.com/karthikrayaprolu/medimind/internal/notify"
	"github.com/karthikrayaprolu/medimind/internal/store"
)

// Sender delivers a fired reminder to the user.
type Sender interface {
	Send(n domain.PlannedNotification) error
}

// ActionSource is implemented by senders that can report the user acting on a
// delivered reminder (e.g. pressing an inline button).
type ActionSource interface {
	OnTap(fn func(scheduleID, slot string))
}

// Local is a notify.Service whose durable state is the pending_notifications
// table; cron entries are rebuilt from it on start, so reminders survive
// restarts.
type Local struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender
	cron   *cron.Cron

	mu      sync.Mutex
	entries map[int32]cron.EntryID
	channel *notify.Channel
	action  func(notify.Action)
}

// NewLocal creates the local device service. Fire times are interpreted in loc.
func NewLocal(repo store.Repo, log *zap.Logger, sender Sender, loc *time.Location) *Local {
	return &Local{
		repo:    repo,
		log:     log,
		sender:  sender,
		cron:    cron.New(cron.WithLocation(loc)),
		entries: make(map[int32]cron.EntryID),
	}
}

// Start rebuilds dispatch entries from the persisted pending set and starts the
// cron loop; the loop drains when ctx is cancelled.
func (l *Local) Start(ctx context.Context) error {
	pending, err := l.repo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("load pending: %w", err)
	}

	l.mu.Lock()
	for _, n := range pending {
		if err := l.addEntryLocked(n); err != nil {
			l.mu.Unlock()
			return err
		}
	}
	l.mu.Unlock()

	l.cron.Start()
	l.log.Info("device dispatcher started", zap.Int("pending", len(pending)))

	go func() {
		<-ctx.Done()
		<-l.cron.Stop().Done()
		l.log.Info("device dispatcher stopped")
	}()
	return nil
}

// CheckPermission always grants: a headless host has no permission prompt.
func (l *Local) CheckPermission(context.Context) (notify.Permission, error) {
	return notify.PermissionGranted, nil
}

// RequestPermission always grants, see CheckPermission.
func (l *Local) RequestPermission(context.Context) (notify.Permission, error) {
	return notify.PermissionGranted, nil
}

// Pending returns the ids currently installed.
func (l *Local) Pending(ctx context.Context) ([]notify.Pending, error) {
	rows, err := l.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]notify.Pending, len(rows))
	for i, n := range rows {
		out[i] = notify.Pending{ID: n.ID}
	}
	return out, nil
}

// Cancel removes the given ids from the pending set and drops their dispatch
// entries. Unknown ids are ignored.
func (l *Local) Cancel(ctx context.Context, ids []int32) error {
	if err := l.repo.DeletePending(ctx, ids); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if entry, ok := l.entries[id]; ok {
			l.cron.Remove(entry)
			delete(l.entries, id)
		}
	}
	return nil
}

// ScheduleBatch installs the batch, overwriting any entry that reuses an id so
// a rescheduled (schedule, slot) pair replaces its old fire time in place.
func (l *Local) ScheduleBatch(ctx context.Context, batch []domain.PlannedNotification) error {
	if err := l.repo.InsertPending(ctx, batch); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range batch {
		if entry, ok := l.entries[n.ID]; ok {
			l.cron.Remove(entry)
			delete(l.entries, n.ID)
		}
		if err := l.addEntryLocked(n); err != nil {
			return err
		}
	}
	return nil
}

// CreateChannel records the descriptor; there is nothing platform-level to
// create here, so repeat calls are no-ops.
func (l *Local) CreateChannel(_ context.Context, ch notify.Channel) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.channel != nil {
		return nil
	}
	l.channel = &ch
	l.log.Info("notification channel registered", zap.String("id", ch.ID))
	return nil
}

// OnAction registers the tap listener and, when the sender can report taps,
// wires them through.
func (l *Local) OnAction(fn func(notify.Action)) {
	l.mu.Lock()
	l.action = fn
	l.mu.Unlock()

	src, ok := l.sender.(ActionSource)
	if !ok {
		return
	}
	src.OnTap(func(scheduleID, slot string) {
		l.mu.Lock()
		cb := l.action
		l.mu.Unlock()
		if cb != nil {
			cb(notify.Action{ScheduleID: scheduleID, Slot: domain.TimingSlot(slot)})
		}
	})
}

func (l *Local) addEntryLocked(n domain.PlannedNotification) error {
	spec := fmt.Sprintf("%d %d * * *", n.Minute, n.Hour)
	entry, err := l.cron.AddFunc(spec, func() { l.fire(n) })
	if err != nil {
		return fmt.Errorf("add dispatch entry for %d: %w", n.ID, err)
	}
	l.entries[n.ID] = entry
	return nil
}

func (l *Local) fire(n domain.PlannedNotification) {
	if err := l.sender.Send(n); err != nil {
		l.log.Error("reminder delivery failed",
			zap.Error(err),
			zap.Int32("id", n.ID),
			zap.String("scheduleID", n.ScheduleID),
		)
		return
	}
	l.log.Info("reminder delivered",
		zap.Int32("id", n.ID),
		zap.String("medicine", n.MedicineName),
		zap.String("slot", string(n.Slot)),
	)
}
