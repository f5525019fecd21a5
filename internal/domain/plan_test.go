package domain

import "testing"

func TestPlanFiltersDisabled(t *testing.T) {
	schedules := []MedicationSchedule{{
		ID:           "s1",
		MedicineName: "Ibuprofen",
		Dosage:       "200mg",
		TimingSlots:  []TimingSlot{SlotMorning, SlotAfternoon, SlotNight},
		Enabled:      false,
	}}
	if got := Plan(schedules, DefaultSlotTimes()); len(got) != 0 {
		t.Fatalf("want empty plan for disabled schedule, got %d entries", len(got))
	}
}

func TestPlanEmptyInput(t *testing.T) {
	if got := Plan(nil, DefaultSlotTimes()); len(got) != 0 {
		t.Fatalf("want empty plan for no schedules, got %d entries", len(got))
	}
}

func TestPlanRespectsCustomTime(t *testing.T) {
	schedules := []MedicationSchedule{{
		ID:           "s1",
		MedicineName: "Amoxicillin",
		Dosage:       "500mg",
		TimingSlots:  []TimingSlot{SlotMorning},
		CustomTimes:  map[TimingSlot]string{SlotMorning: "07:30"},
		Enabled:      true,
	}}
	got := Plan(schedules, DefaultSlotTimes())
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if got[0].Hour != 7 || got[0].Minute != 30 {
		t.Fatalf("want fire time 07:30, got %02d:%02d", got[0].Hour, got[0].Minute)
	}
}

func TestPlanMalformedCustomTimeFallsBack(t *testing.T) {
	schedules := []MedicationSchedule{{
		ID:          "s1",
		Dosage:      "500mg",
		TimingSlots: []TimingSlot{SlotMorning},
		CustomTimes: map[TimingSlot]string{SlotMorning: "25:99"},
		Enabled:     true,
	}}
	got := Plan(schedules, DefaultSlotTimes())
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if got[0].Hour != 8 || got[0].Minute != 0 {
		t.Fatalf("want default 08:00, got %02d:%02d", got[0].Hour, got[0].Minute)
	}
}

func TestPlanSkipsUnresolvableSlot(t *testing.T) {
	// "noon" has no default and no override; the other slot must survive.
	schedules := []MedicationSchedule{{
		ID:          "s1",
		TimingSlots: []TimingSlot{"noon", SlotNight},
		Enabled:     true,
	}}
	got := Plan(schedules, DefaultSlotTimes())
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if got[0].Slot != SlotNight {
		t.Fatalf("want surviving slot %q, got %q", SlotNight, got[0].Slot)
	}
}

func TestPlanIgnoresOverrideForAbsentSlot(t *testing.T) {
	schedules := []MedicationSchedule{{
		ID:          "s1",
		TimingSlots: []TimingSlot{SlotMorning},
		CustomTimes: map[TimingSlot]string{SlotNight: "22:15"},
		Enabled:     true,
	}}
	got := Plan(schedules, DefaultSlotTimes())
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if got[0].Slot != SlotMorning || got[0].Hour != 8 || got[0].Minute != 0 {
		t.Fatalf("want morning@08:00, got %s@%02d:%02d", got[0].Slot, got[0].Hour, got[0].Minute)
	}
}

func TestPlanTwoSchedulesOneDisabled(t *testing.T) {
	schedules := []MedicationSchedule{
		{
			ID:           "s1",
			MedicineName: "Amoxicillin",
			Dosage:       "500mg",
			TimingSlots:  []TimingSlot{SlotMorning, SlotNight},
			CustomTimes:  map[TimingSlot]string{},
			Enabled:      true,
		},
		{
			ID:           "s2",
			MedicineName: "Vitamin D",
			Dosage:       "1000IU",
			TimingSlots:  []TimingSlot{SlotMorning},
			CustomTimes:  map[TimingSlot]string{SlotMorning: "06:45"},
			Enabled:      false,
		},
	}
	got := Plan(schedules, DefaultSlotTimes())
	if len(got) != 2 {
		t.Fatalf("want exactly 2 entries, got %d", len(got))
	}

	byID := map[int32]PlannedNotification{}
	for _, n := range got {
		byID[n.ID] = n
	}
	morning, ok := byID[NotificationID("s1", SlotMorning)]
	if !ok {
		t.Fatal("missing s1 morning notification")
	}
	if morning.Hour != 8 || morning.Minute != 0 {
		t.Fatalf("s1 morning: want 08:00, got %02d:%02d", morning.Hour, morning.Minute)
	}
	if morning.Title != "💊 Time for Amoxicillin" {
		t.Fatalf("unexpected title %q", morning.Title)
	}
	if morning.Body != "Take 500mg now (Morning)." {
		t.Fatalf("unexpected body %q", morning.Body)
	}
	if !morning.Repeats {
		t.Fatal("planned notification must repeat daily")
	}

	night, ok := byID[NotificationID("s1", SlotNight)]
	if !ok {
		t.Fatal("missing s1 night notification")
	}
	if night.Hour != 21 || night.Minute != 0 {
		t.Fatalf("s1 night: want 21:00, got %02d:%02d", night.Hour, night.Minute)
	}
}
