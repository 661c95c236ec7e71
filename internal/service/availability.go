package service

import (
	"github.com/noah-isme/timetable-planner/internal/models"
)

// IsActiveInWeek reports whether a week range covers week. Unparsed ranges are
// always active so a malformed catalog entry never hides a section.
func IsActiveInWeek(weeks models.WeekRange, week int) bool {
	return weeks.Contains(week)
}

// IsActiveInPair reports whether the range covers either week of the pair.
func IsActiveInPair(weeks models.WeekRange, pair models.WeekPair) bool {
	return IsActiveInWeek(weeks, pair.OddWeek) || IsActiveInWeek(weeks, pair.EvenWeek)
}

// VisibleInWeek reports whether the slot actually takes place in week: its range
// covers the week and its frequency matches the week's parity.
func VisibleInWeek(slot models.Slot, week int) bool {
	if !IsActiveInWeek(slot.Weeks, week) {
		return false
	}
	switch slot.Frequency {
	case models.FrequencyOdd:
		return models.IsOddWeek(week)
	case models.FrequencyEven:
		return !models.IsOddWeek(week)
	default:
		return true
	}
}

// VisibleSlots filters slots down to those held in week, preserving order.
func VisibleSlots(slots []models.Slot, week int) []models.Slot {
	visible := make([]models.Slot, 0, len(slots))
	for _, slot := range slots {
		if VisibleInWeek(slot, week) {
			visible = append(visible, slot)
		}
	}
	return visible
}

// AvailableSlots returns the catalog slots for key that are active in the pair.
func AvailableSlots(catalog *models.Catalog, key models.SubjectKey, pair models.WeekPair) []models.Slot {
	var available []models.Slot
	for _, slot := range catalog.SlotsFor(key) {
		if IsActiveInPair(slot.Weeks, pair) {
			available = append(available, slot)
		}
	}
	return available
}

// AvailabilityCount counts slots for key active in the odd week plus those active in the even week.
func AvailabilityCount(catalog *models.Catalog, key models.SubjectKey, pair models.WeekPair) int {
	count := 0
	for _, slot := range catalog.SlotsFor(key) {
		if IsActiveInWeek(slot.Weeks, pair.OddWeek) {
			count++
		}
		if IsActiveInWeek(slot.Weeks, pair.EvenWeek) {
			count++
		}
	}
	return count
}
