package service

import (
	"github.com/noah-isme/timetable-planner/internal/models"
)

// FindHardConflicts reports every pair of selected keys whose available slots in
// the pair all overlap each other. Keys with no available slots are ignored.
func FindHardConflicts(catalog *models.Catalog, selected []models.SubjectKey, pair models.WeekPair) models.ConflictReport {
	keys := uniqueKeys(selected)
	available := make([][]models.Slot, len(keys))
	for i, key := range keys {
		available[i] = AvailableSlots(catalog, key, pair)
	}

	report := models.ConflictReport{Pairs: []models.ConflictPair{}, Involved: []models.SubjectKey{}}
	involved := make(map[models.SubjectKey]bool)
	for i := range keys {
		if len(available[i]) == 0 {
			continue
		}
		for j := i + 1; j < len(keys); j++ {
			if len(available[j]) == 0 {
				continue
			}
			if canCoexist(available[i], available[j]) {
				continue
			}
			report.Pairs = append(report.Pairs, models.ConflictPair{A: keys[i], B: keys[j]})
			involved[keys[i]] = true
			involved[keys[j]] = true
		}
	}
	for _, key := range keys {
		if involved[key] {
			report.Involved = append(report.Involved, key)
		}
	}
	return report
}

func canCoexist(a, b []models.Slot) bool {
	for _, x := range a {
		for _, y := range b {
			if !SlotsOverlap(x, y) {
				return true
			}
		}
	}
	return false
}

// uniqueKeys drops repeated keys, keeping first-seen order.
func uniqueKeys(keys []models.SubjectKey) []models.SubjectKey {
	seen := make(map[models.SubjectKey]struct{}, len(keys))
	out := make([]models.SubjectKey, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
