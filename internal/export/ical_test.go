package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

func TestBuildCalendar(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	plan := []domain.PlannedNotification{
		{ID: 42, Hour: 8, Minute: 0, Title: "💊 Time for Amoxicillin", Body: "Take 500mg now (Morning).", Repeats: true},
		{ID: 43, Hour: 21, Minute: 30, Title: "💊 Time for Amoxicillin", Body: "Take 500mg now (Night).", Repeats: true},
	}

	cal := BuildCalendar(plan, time.UTC, now)
	if len(cal.Children) != 2 {
		t.Fatalf("want 2 events, got %d", len(cal.Children))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"RRULE:FREQ=DAILY",
		"UID:42@medimind",
		"UID:43@medimind",
		"SUMMARY:💊 Time for Amoxicillin",
		// 08:00 already passed at noon, so the morning event starts tomorrow.
		"DTSTART:20250602T080000Z",
		// 21:30 is still ahead today.
		"DTSTART:20250601T213000Z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("encoded calendar missing %q:\n%s", want, out)
		}
	}
}

func TestNextOccurrenceBoundary(t *testing.T) {
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	// Exactly at the fire time: the occurrence rolls to the next day.
	got := nextOccurrence(now, 8, 0)
	if got.Day() != 2 {
		t.Fatalf("want rollover to next day, got %v", got)
	}
}
