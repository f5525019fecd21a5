package domain

import "fmt"

// PlannedNotification is one target device notification, recomputed from
// scratch on every planning pass and never persisted by the planner itself;
// the device's pending set is the only durable copy.
type PlannedNotification struct {
	ID      int32
	Hour    int
	Minute  int
	Repeats bool // always true: daily recurrence

	Title string
	Body  string

	// Payload for display and for correlating a tapped notification back to
	// its schedule.
	ScheduleID   string
	MedicineName string
	Dosage       string
	Slot         TimingSlot
}

// Plan computes the target notification set for the given schedules: one entry
// per enabled schedule per timing slot, using the slot's custom override when
// it parses and the default otherwise. Slots with no resolvable time are
// skipped without aborting the rest of the schedule. Output order carries no
// meaning; consumers key on ID.
func Plan(schedules []MedicationSchedule, defaults map[TimingSlot]Clock) []PlannedNotification {
	var out []PlannedNotification
	for _, s := range schedules {
		if !s.Enabled {
			continue
		}
		for _, slot := range s.TimingSlots {
			c, ok := resolveTime(s, slot, defaults)
			if !ok {
				continue
			}
			out = append(out, PlannedNotification{
				ID:           NotificationID(s.ID, slot),
				Hour:         c.Hour,
				Minute:       c.Minute,
				Repeats:      true,
				Title:        fmt.Sprintf("💊 Time for %s", s.MedicineName),
				Body:         fmt.Sprintf("Take %s now (%s).", s.Dosage, capitalize(string(slot))),
				ScheduleID:   s.ID,
				MedicineName: s.MedicineName,
				Dosage:       s.Dosage,
				Slot:         slot,
			})
		}
	}
	return out
}

// resolveTime picks the fire time for a slot: a parseable custom override wins,
// a malformed or absent override falls back to the slot default, and a slot
// with neither resolves to nothing.
func resolveTime(s MedicationSchedule, slot TimingSlot, defaults map[TimingSlot]Clock) (Clock, bool) {
	if raw, ok := s.CustomTimes[slot]; ok {
		if c, ok := ParseTime(raw); ok {
			return c, true
		}
	}
	c, ok := defaults[slot]
	return c, ok
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
