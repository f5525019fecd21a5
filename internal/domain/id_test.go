package domain

import (
	"math"
	"testing"
)

// Reference values pinned from the mobile client's hash so the two stay
// bit-compatible.
func TestNotificationIDKnownValues(t *testing.T) {
	cases := []struct {
		scheduleID string
		slot       TimingSlot
		want       int32
	}{
		{"s1", SlotMorning, 191762781},
		{"s1", SlotNight, 1922320055},
		{"s2", SlotMorning, 1999217244},
		{"s1", SlotAfternoon, 660544933},
		{"s1", SlotEvening, 1486540647},
		{"abc", SlotMorning, 464966887},
		{"", SlotMorning, 696590715},
	}
	for _, c := range cases {
		if got := NotificationID(c.scheduleID, c.slot); got != c.want {
			t.Fatalf("NotificationID(%q, %q): want %d, got %d", c.scheduleID, c.slot, c.want, got)
		}
	}
}

func TestNotificationIDDeterministic(t *testing.T) {
	ids := []string{"s1", "6823f0c2a91b", "", "a-very-long-schedule-identifier-0123456789"}
	for _, sid := range ids {
		for _, slot := range []TimingSlot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight} {
			a := NotificationID(sid, slot)
			b := NotificationID(sid, slot)
			if a != b {
				t.Fatalf("NotificationID(%q, %q) not stable: %d vs %d", sid, slot, a, b)
			}
		}
	}
}

func TestNotificationIDRange(t *testing.T) {
	ids := []string{"", "s1", "x", "6823f0c2a91b", "💊unicode💊", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	for _, sid := range ids {
		for _, slot := range []TimingSlot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight, "noon"} {
			got := NotificationID(sid, slot)
			if got < 1 || got > math.MaxInt32 {
				t.Fatalf("NotificationID(%q, %q) = %d, out of [1, 2^31-1]", sid, slot, got)
			}
		}
	}
}
