package service

import (
	"github.com/noah-isme/timetable-planner/internal/models"
)

// SlotsOverlap reports whether two slots collide within one week pair: same day,
// intersecting half-open time ranges, and not an odd/even complementary pair.
// Week-range availability is filtered before this check.
func SlotsOverlap(a, b models.Slot) bool {
	if a.Day != b.Day {
		return false
	}
	if max(a.Start, b.Start) >= min(a.End, b.End) {
		return false
	}
	return !a.Frequency.Complements(b.Frequency)
}
