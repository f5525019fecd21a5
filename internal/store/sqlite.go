package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteRepo implements Repo on an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the database at path, applies PRAGMAs, runs the
// embedded migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

// migrate executes the embedded SQL files in name order, each in its own
// transaction.
func migrate(ctx context.Context, db *sql.DB) error {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := fs.ReadFile(migrationsFS, "migrations/"+e.Name())
		if err != nil {
			return err
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(raw)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Preferences reads the preference rows into a Preferences value, applying
// fresh-install defaults for keys that are absent.
func (r *SQLiteRepo) Preferences(ctx context.Context) (domain.Preferences, error) {
	p := domain.DefaultPreferences()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return p, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return p, err
		}
		switch key {
		case prefNotificationsEnabled:
			p.NotificationsEnabled = value == "1"
		case prefSessionToken:
			p.SessionToken = value
		case prefAgentToken:
			p.AgentToken = value
		case prefUserName:
			p.UserName = value
		case prefSound:
			p.Sound = value
		}
	}
	return p, rows.Err()
}

// SavePreferences writes every preference key in one transaction.
func (r *SQLiteRepo) SavePreferences(ctx context.Context, p domain.Preferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for key, value := range map[string]string{
		prefNotificationsEnabled: boolToStr(p.NotificationsEnabled),
		prefSessionToken:         p.SessionToken,
		prefAgentToken:           p.AgentToken,
		prefUserName:             p.UserName,
		prefSound:                p.Sound,
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveSchedules replaces the cached schedule list with the given one. The cache
// is a read copy of remote state; replace-all keeps it exact.
func (r *SQLiteRepo) SaveSchedules(ctx context.Context, schedules []domain.MedicationSchedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedules`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, s := range schedules {
		timings, err := encodeSlots(s.TimingSlots)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		custom, err := encodeCustomTimes(s.CustomTimes)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedules (id, medicine_name, dosage, frequency, timings, custom_times, enabled)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.MedicineName, s.Dosage, s.Frequency, timings, custom, boolToInt(s.Enabled),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LoadSchedules returns the cached schedule list.
func (r *SQLiteRepo) LoadSchedules(ctx context.Context) ([]domain.MedicationSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medicine_name, dosage, frequency, timings, custom_times, enabled
		FROM schedules`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MedicationSchedule
	for rows.Next() {
		var (
			s          domain.MedicationSchedule
			timings    string
			custom     string
			enabledInt int
		)
		if err := rows.Scan(&s.ID, &s.MedicineName, &s.Dosage, &s.Frequency, &timings, &custom, &enabledInt); err != nil {
			return nil, err
		}
		if s.TimingSlots, err = decodeSlots(timings); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", s.ID, err)
		}
		if s.CustomTimes, err = decodeCustomTimes(custom); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", s.ID, err)
		}
		s.Enabled = enabledInt != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertPending installs notifications into the pending set, overwriting rows
// that reuse an id (same schedule+slot rescheduled with a new time).
func (r *SQLiteRepo) InsertPending(ctx context.Context, batch []domain.PlannedNotification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Unix()
	for _, n := range batch {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pending_notifications
				(id, schedule_id, slot, fire_hour, fire_minute, title, body, medicine_name, dosage, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				schedule_id   = excluded.schedule_id,
				slot          = excluded.slot,
				fire_hour     = excluded.fire_hour,
				fire_minute   = excluded.fire_minute,
				title         = excluded.title,
				body          = excluded.body,
				medicine_name = excluded.medicine_name,
				dosage        = excluded.dosage`,
			n.ID, n.ScheduleID, string(n.Slot), n.Hour, n.Minute,
			n.Title, n.Body, n.MedicineName, n.Dosage, now,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// DeletePending removes the given ids from the pending set.
func (r *SQLiteRepo) DeletePending(ctx context.Context, ids []int32) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_notifications WHERE id IN (`+placeholders+`)`, args...)
	return err
}

// ListPending returns the full pending set.
func (r *SQLiteRepo) ListPending(ctx context.Context) ([]domain.PlannedNotification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, slot, fire_hour, fire_minute, title, body, medicine_name, dosage
		FROM pending_notifications`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlannedNotification
	for rows.Next() {
		var (
			n    domain.PlannedNotification
			slot string
		)
		if err := rows.Scan(&n.ID, &n.ScheduleID, &slot, &n.Hour, &n.Minute,
			&n.Title, &n.Body, &n.MedicineName, &n.Dosage); err != nil {
			return nil, err
		}
		n.Slot = domain.TimingSlot(slot)
		n.Repeats = true
		out = append(out, n)
	}
	return out, rows.Err()
}

func encodeSlots(slots []domain.TimingSlot) (string, error) {
	if slots == nil {
		slots = []domain.TimingSlot{}
	}
	b, err := json.Marshal(slots)
	return string(b), err
}

func decodeSlots(raw string) ([]domain.TimingSlot, error) {
	var slots []domain.TimingSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func encodeCustomTimes(m map[domain.TimingSlot]string) (string, error) {
	if m == nil {
		m = map[domain.TimingSlot]string{}
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func decodeCustomTimes(raw string) (map[domain.TimingSlot]string, error) {
	var m map[domain.TimingSlot]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
