package domain

// TimingSlot names one of the daily periods a medication dose is tied to.
type TimingSlot string

const (
	SlotMorning   TimingSlot = "morning"
	SlotAfternoon TimingSlot = "afternoon"
	SlotEvening   TimingSlot = "evening"
	SlotNight     TimingSlot = "night"
)

// Clock is a wall-clock time of day with no timezone attached; the device
// interprets it in its local zone at fire time.
type Clock struct {
	Hour   int
	Minute int
}

// DefaultSlotTimes returns the system default fire time for each canonical slot,
// used when a schedule carries no custom override for that slot.
func DefaultSlotTimes() map[TimingSlot]Clock {
	return map[TimingSlot]Clock{
		SlotMorning:   {Hour: 8, Minute: 0},
		SlotAfternoon: {Hour: 13, Minute: 0},
		SlotEvening:   {Hour: 18, Minute: 0},
		SlotNight:     {Hour: 21, Minute: 0},
	}
}

// MedicationSchedule is the client's read copy of a schedule owned by the
// remote service.
type MedicationSchedule struct {
	ID           string
	MedicineName string
	Dosage       string
	Frequency    string // display only, not used for timing
	TimingSlots  []TimingSlot
	CustomTimes  map[TimingSlot]string // slot -> "HH:MM" override
	Enabled      bool
}

// Preferences is the client-local persisted user state. It is read from the
// store on init and written back on change; nothing here lives in ambient
// globals.
type Preferences struct {
	NotificationsEnabled bool // global kill switch, independent of per-schedule Enabled
	SessionToken         string
	AgentToken           string
	UserName             string
	Sound                string
}

// DefaultPreferences is the state of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		NotificationsEnabled: true,
		Sound:                "default",
	}
}
