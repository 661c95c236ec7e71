package service

import (
	"sort"

	"github.com/noah-isme/timetable-planner/internal/models"
)

// ComputeOverlapLayout assigns each event a column so that no two intersecting
// events on the same day share one, and gives every event the column count of
// its overlap cluster. The result is index-aligned with events.
func ComputeOverlapLayout(events []models.LayoutEvent) []models.LayoutEntry {
	layout := make([]models.LayoutEntry, len(events))
	for i := range layout {
		layout[i] = models.LayoutEntry{Column: 0, TotalColumns: 1}
	}

	byDay := make(map[models.Weekday][]int)
	var days []models.Weekday
	for i, event := range events {
		if _, ok := byDay[event.Day]; !ok {
			days = append(days, event.Day)
		}
		byDay[event.Day] = append(byDay[event.Day], i)
	}

	for _, day := range days {
		packDay(events, byDay[day], layout)
	}
	return layout
}

func packDay(events []models.LayoutEvent, indices []int, layout []models.LayoutEntry) {
	sort.SliceStable(indices, func(a, b int) bool {
		ea, eb := events[indices[a]], events[indices[b]]
		if ea.Start != eb.Start {
			return ea.Start < eb.Start
		}
		return ea.End < eb.End
	})

	// columnEnds[c] is the latest end time placed in column c.
	var columnEnds []models.Clock
	columns := make(map[int]int, len(indices))
	for _, idx := range indices {
		event := events[idx]
		placed := false
		for c, end := range columnEnds {
			if end <= event.Start {
				columnEnds[c] = event.End
				columns[idx] = c
				placed = true
				break
			}
		}
		if !placed {
			columns[idx] = len(columnEnds)
			columnEnds = append(columnEnds, event.End)
		}
	}

	var cluster []int
	var clusterEnd models.Clock
	flush := func() {
		width := 0
		for _, idx := range cluster {
			if columns[idx]+1 > width {
				width = columns[idx] + 1
			}
		}
		for _, idx := range cluster {
			layout[idx] = models.LayoutEntry{Column: columns[idx], TotalColumns: width}
		}
		cluster = cluster[:0]
	}
	for _, idx := range indices {
		event := events[idx]
		if len(cluster) > 0 && event.Start >= clusterEnd {
			flush()
		}
		if len(cluster) == 0 {
			clusterEnd = event.End
		} else {
			clusterEnd = max(clusterEnd, event.End)
		}
		cluster = append(cluster, idx)
	}
	if len(cluster) > 0 {
		flush()
	}
}

// LayoutEvents projects slots onto their layout geometry.
func LayoutEvents(slots []models.Slot) []models.LayoutEvent {
	events := make([]models.LayoutEvent, len(slots))
	for i, slot := range slots {
		events[i] = models.LayoutEvent{Day: slot.Day, Start: slot.Start, End: slot.End}
	}
	return events
}

// ArrangeWeek keeps the slots held in week and packs them for side-by-side display.
// Both results are index-aligned.
func ArrangeWeek(slots []models.Slot, week int) ([]models.Slot, []models.LayoutEntry) {
	visible := VisibleSlots(slots, week)
	return visible, ComputeOverlapLayout(LayoutEvents(visible))
}
