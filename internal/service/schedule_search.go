package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/timetable-planner/internal/models"
)

// DefaultMaxSchedules caps how many ranked schedules a generation returns.
const DefaultMaxSchedules = 10

// anyGroup disables group ranking.
const anyGroup = "any"

// GenerationInput is everything one schedule search reads. The engine keeps no
// state between calls; the catalog may be shared.
type GenerationInput struct {
	Catalog        *models.Catalog
	Selected       []models.SubjectKey
	Pair           models.WeekPair
	Constraints    models.FreeTimeConstraints
	PreferredGroup string
}

// SearchOptions bounds the output and, optionally, the search itself.
type SearchOptions struct {
	MaxSchedules int
	// SearchBudget stops the search after this many visited nodes. Zero means unbounded.
	SearchBudget int
}

// GenerateSchedules enumerates every conflict-free choice of one slot per active
// key, drops choices that hit busy time, deduplicates them by content and returns
// the top MaxSchedules ranked by group preference.
func GenerateSchedules(in GenerationInput, opts SearchOptions) models.GenerationResult {
	if opts.MaxSchedules <= 0 {
		opts.MaxSchedules = DefaultMaxSchedules
	}

	result := models.GenerationResult{Schedules: []models.Schedule{}, Skipped: []models.SubjectKey{}}
	var buckets [][]models.Slot
	for _, key := range uniqueKeys(in.Selected) {
		slots := AvailableSlots(in.Catalog, key, in.Pair)
		if len(slots) == 0 {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		buckets = append(buckets, slots)
	}
	if len(buckets) == 0 {
		return result
	}

	search := &scheduleSearch{
		buckets:     buckets,
		constraints: in.Constraints,
		budget:      opts.SearchBudget,
		path:        make([]models.Slot, 0, len(buckets)),
		seen:        make(map[string]struct{}),
	}
	search.descend(0)

	found := make([]models.Schedule, len(search.found))
	for i, slots := range search.found {
		found[i] = models.Schedule{Slots: slots}
	}
	rankByGroup(found, in.PreferredGroup)

	result.TotalFound = len(found)
	result.Truncated = search.truncated
	result.NodesVisited = search.nodes
	if len(found) > opts.MaxSchedules {
		found = found[:opts.MaxSchedules]
	}
	result.Schedules = found
	return result
}

// scheduleSearch owns the partial assignment and the dedup set for one search.
// path is pushed on descent and popped on backtrack.
type scheduleSearch struct {
	buckets     [][]models.Slot
	constraints models.FreeTimeConstraints
	budget      int

	path      []models.Slot
	seen      map[string]struct{}
	found     [][]models.Slot
	nodes     int
	truncated bool
}

func (s *scheduleSearch) descend(depth int) {
	if s.truncated {
		return
	}
	s.nodes++
	if s.budget > 0 && s.nodes > s.budget {
		s.truncated = true
		return
	}
	if depth == len(s.buckets) {
		s.accept()
		return
	}
	for _, slot := range s.buckets[depth] {
		if s.collides(slot) {
			continue
		}
		s.path = append(s.path, slot)
		s.descend(depth + 1)
		s.path = s.path[:len(s.path)-1]
		if s.truncated {
			return
		}
	}
}

func (s *scheduleSearch) collides(slot models.Slot) bool {
	for _, chosen := range s.path {
		if SlotsOverlap(slot, chosen) {
			return true
		}
	}
	return false
}

func (s *scheduleSearch) accept() {
	for _, slot := range s.path {
		if !s.constraints.Allows(slot) {
			return
		}
	}
	fingerprint := models.FingerprintSlots(s.path)
	if _, dup := s.seen[fingerprint]; dup {
		return
	}
	s.seen[fingerprint] = struct{}{}
	s.found = append(s.found, append([]models.Slot(nil), s.path...))
}

// rankByGroup scores every schedule against the preferred group and stable-sorts
// them by descending score. "Any" or an empty group leaves discovery order.
func rankByGroup(schedules []models.Schedule, preferredGroup string) {
	preferred := strings.ToLower(strings.TrimSpace(preferredGroup))
	if preferred == "" || preferred == anyGroup {
		return
	}
	for i := range schedules {
		schedules[i].Score = GroupScore(schedules[i].Slots, preferred)
	}
	sort.SliceStable(schedules, func(i, j int) bool {
		return schedules[i].Score > schedules[j].Score
	})
}

// GroupScore awards 2 per slot whose group equals the preferred one and 1 per slot
// whose group shares a prefix with it once a trailing subgroup letter is dropped
// from the preference ("31" against "31a").
func GroupScore(slots []models.Slot, preferredGroup string) int {
	preferred := strings.ToLower(strings.TrimSpace(preferredGroup))
	base := stripSubgroup(preferred)
	score := 0
	for _, slot := range slots {
		if slot.GroupID == "" {
			continue
		}
		group := strings.ToLower(slot.GroupID)
		switch {
		case group == preferred:
			score += 2
		case strings.HasPrefix(group, base) || strings.HasPrefix(base, group):
			score++
		}
	}
	return score
}

func stripSubgroup(group string) string {
	if n := len(group); n > 0 && group[n-1] >= 'a' && group[n-1] <= 'z' {
		return group[:n-1]
	}
	return group
}
