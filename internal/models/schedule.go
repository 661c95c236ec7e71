package models

import (
	"sort"
	"strings"
)

// Schedule is one candidate timetable: one slot per active subject key, in
// selection order.
type Schedule struct {
	Slots []Slot `json:"slots"`
	Score int    `json:"score"`
}

// Fingerprint identifies the schedule by its unordered slot contents.
func (s Schedule) Fingerprint() string {
	return FingerprintSlots(s.Slots)
}

// FingerprintSlots builds the order-independent content key of a slot list.
func FingerprintSlots(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = slot.Fingerprint()
	}
	sort.Strings(parts)
	return strings.Join(parts, ";;")
}

// ConflictPair names two subject keys that can never be scheduled together.
type ConflictPair struct {
	A SubjectKey `json:"a"`
	B SubjectKey `json:"b"`
}

// ConflictReport lists hard conflicts and every key involved in at least one.
type ConflictReport struct {
	Pairs    []ConflictPair `json:"pairs"`
	Involved []SubjectKey   `json:"involved"`
}

// Involves reports whether key takes part in a hard conflict.
func (r ConflictReport) Involves(key SubjectKey) bool {
	for _, k := range r.Involved {
		if k == key {
			return true
		}
	}
	return false
}

// GenerationResult is the ranked, capped output of the schedule search.
// Truncated is set when a search budget stopped the search early.
type GenerationResult struct {
	Schedules    []Schedule   `json:"schedules"`
	Skipped      []SubjectKey `json:"skippedSubjects"`
	TotalFound   int          `json:"totalDistinctFound"`
	Truncated    bool         `json:"truncated,omitempty"`
	NodesVisited int          `json:"nodesVisited"`
}

// LayoutEvent is the geometry of one event to be packed into columns.
type LayoutEvent struct {
	Day   Weekday `json:"day"`
	Start Clock   `json:"start"`
	End   Clock   `json:"end"`
}

// LayoutEntry places an event in its column within its overlap cluster.
type LayoutEntry struct {
	Column       int `json:"column"`
	TotalColumns int `json:"totalColumns"`
}
