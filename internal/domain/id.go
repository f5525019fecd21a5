package domain

import "math"

// NotificationID derives a stable device notification id from a schedule id and
// a timing slot. It is a pure function: the same pair always yields the same id
// across restarts, which gives reschedules overwrite-in-place semantics on the
// device instead of piling up duplicates.
//
// The fold is h = h*31 + codeUnit, wrapped to 32-bit signed at every step,
// followed by abs, mod 2^31-1, and substituting 1 for 0 (device APIs reject
// id 0 and negatives). This must stay bit-compatible with the mobile client so
// ids match notifications already installed on devices. Collisions between
// distinct pairs are possible and deliberately unmitigated.
func NotificationID(scheduleID string, slot TimingSlot) int32 {
	var h int32
	for _, r := range scheduleID + "_" + string(slot) {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	id := int32(v % math.MaxInt32)
	if id == 0 {
		id = 1
	}
	return id
}
