package models

// Settings is the saved planner session: selection, preference, chosen week pair
// and busy time. FreeIntervals is the pre-parity format that applied one map to
// both weeks.
type Settings struct {
	SelectedSubjects  []SubjectKey `json:"selectedSubjects"`
	PreferredGroup    string       `json:"preferredGroup,omitempty"`
	WeekPairIndex     *int         `json:"weekPairIndex,omitempty"`
	SelectedPairIdx   *int         `json:"selectedPairIdx,omitempty"`
	OddFreeIntervals  IntervalMap  `json:"oddFreeIntervals,omitempty"`
	EvenFreeIntervals IntervalMap  `json:"evenFreeIntervals,omitempty"`
	MirrorFreeTime    *bool        `json:"mirrorFreeTime,omitempty"`
	FreeIntervals     IntervalMap  `json:"freeIntervals,omitempty"`
}

// PairIndex returns the stored week pair index, or -1 when none was saved.
func (s Settings) PairIndex() int {
	switch {
	case s.WeekPairIndex != nil:
		return *s.WeekPairIndex
	case s.SelectedPairIdx != nil:
		return *s.SelectedPairIdx
	default:
		return -1
	}
}

// Mirrored reports whether even-week busy time follows the odd week. Defaults to true.
func (s Settings) Mirrored() bool {
	return s.MirrorFreeTime == nil || *s.MirrorFreeTime
}

// Constraints resolves the busy-time maps into the per-parity constraint set.
func (s Settings) Constraints() FreeTimeConstraints {
	odd := s.OddFreeIntervals
	even := s.EvenFreeIntervals
	if s.FreeIntervals != nil && odd == nil {
		odd = s.FreeIntervals
		even = s.FreeIntervals
	}
	if s.Mirrored() {
		even = odd
	}
	return FreeTimeConstraints{Odd: odd.Clone(), Even: even.Clone()}
}
