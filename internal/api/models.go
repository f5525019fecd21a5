package api

import "github.com/karthikrayaprolu/medimind/internal/domain"

// Schedule is the wire shape the MediMind backend uses for a medication
// schedule.
type Schedule struct {
	ID             string            `json:"_id"`
	UserID         string            `json:"user_id,omitempty"`
	PrescriptionID string            `json:"prescription_id,omitempty"`
	MedicineName   string            `json:"medicine_name"`
	Dosage         string            `json:"dosage"`
	Frequency      string            `json:"frequency"`
	Timings        []string          `json:"timings"`
	CustomTimes    map[string]string `json:"custom_times,omitempty"`
	Enabled        bool              `json:"enabled"`
	CreatedAt      string            `json:"created_at,omitempty"`
}

// ToDomain converts the wire shape into the domain model.
func (s Schedule) ToDomain() domain.MedicationSchedule {
	slots := make([]domain.TimingSlot, len(s.Timings))
	for i, t := range s.Timings {
		slots[i] = domain.TimingSlot(t)
	}
	var custom map[domain.TimingSlot]string
	if len(s.CustomTimes) > 0 {
		custom = make(map[domain.TimingSlot]string, len(s.CustomTimes))
		for slot, t := range s.CustomTimes {
			custom[domain.TimingSlot(slot)] = t
		}
	}
	return domain.MedicationSchedule{
		ID:           s.ID,
		MedicineName: s.MedicineName,
		Dosage:       s.Dosage,
		Frequency:    s.Frequency,
		TimingSlots:  slots,
		CustomTimes:  custom,
		Enabled:      s.Enabled,
	}
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Account is the authenticated user, as reported by /auth/me.
type Account struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

// UpdateScheduleRequest is the PUT /api/schedule/{id} body.
type UpdateScheduleRequest struct {
	MedicineName string            `json:"medicine_name"`
	Dosage       string            `json:"dosage"`
	Frequency    string            `json:"frequency"`
	Timings      []string          `json:"timings"`
	CustomTimes  map[string]string `json:"custom_times,omitempty"`
}

// apiError mirrors the backend's error body; whichever field is set carries the
// human-readable message.
type apiError struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (e apiError) text() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Detail != "":
		return e.Detail
	default:
		return e.Message
	}
}
