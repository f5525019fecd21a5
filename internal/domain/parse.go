package domain

import (
	"regexp"
	"strconv"
)

// Hour may be one or two digits, minute must be exactly two.
var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseTime parses an "HH:MM" string into a Clock. It reports ok=false for any
// string that does not match the pattern or is out of range (hour 0..23,
// minute 0..59); callers treat that as "fall back to the slot default".
func ParseTime(s string) (Clock, bool) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, false
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}
