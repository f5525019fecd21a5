// Package export renders the current reminder plan as an iCalendar file so
// users can pull their medication times into any calendar app.
package export

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-ical"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

// BuildCalendar returns the plan as a calendar with one daily-recurring event
// per planned notification. Each event starts at the next occurrence of its
// wall-clock fire time after now, in loc.
func BuildCalendar(plan []domain.PlannedNotification, loc *time.Location, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//MediMind//Reminder Agent//EN")

	for _, n := range plan {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, fmt.Sprintf("%d@medimind", n.ID))
		ev.Props.SetText(ical.PropSummary, n.Title)
		ev.Props.SetText(ical.PropDescription, n.Body)
		ev.Props.SetDateTime(ical.PropDateTimeStart, nextOccurrence(now.In(loc), n.Hour, n.Minute))
		ev.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		ev.Props.Set(&ical.Prop{Name: ical.PropRecurrenceRule, Value: "FREQ=DAILY"})
		cal.Children = append(cal.Children, ev.Component)
	}
	return cal
}

// WriteFile encodes the plan's calendar to path.
func WriteFile(path string, plan []domain.PlannedNotification, loc *time.Location) error {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(BuildCalendar(plan, loc, time.Now())); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// nextOccurrence returns the first time at hour:minute that is after now, on
// now's date or the day after.
func nextOccurrence(now time.Time, hour, minute int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.Add(24 * time.Hour)
	}
	return t
}
