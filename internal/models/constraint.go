package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BusyInterval blocks [From, To) on one day.
type BusyInterval struct {
	From Clock `json:"from"`
	To   Clock `json:"to"`
}

// Intersects reports whether the half-open ranges [From,To) and [start,end) share time.
func (b BusyInterval) Intersects(start, end Clock) bool {
	return max(start, b.From) < min(end, b.To)
}

// DayIntervals are the busy intervals of one day. Older settings files stored a
// single object instead of a list; both decode.
type DayIntervals []BusyInterval

// UnmarshalJSON accepts either one interval object or an array of them.
func (d *DayIntervals) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single BusyInterval
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("decode busy interval: %w", err)
		}
		*d = DayIntervals{single}
		return nil
	}
	var list []BusyInterval
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return fmt.Errorf("decode busy intervals: %w", err)
	}
	*d = list
	return nil
}

// IntervalMap maps a weekday to its busy intervals.
type IntervalMap map[Weekday]DayIntervals

// Blocks reports whether [start,end) on day hits any busy interval.
func (m IntervalMap) Blocks(day Weekday, start, end Clock) bool {
	for _, interval := range m[day] {
		if interval.Intersects(start, end) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (m IntervalMap) Clone() IntervalMap {
	if m == nil {
		return nil
	}
	out := make(IntervalMap, len(m))
	for day, intervals := range m {
		out[day] = append(DayIntervals(nil), intervals...)
	}
	return out
}

// FreeTimeConstraints holds the caller's busy intervals per week-parity role.
type FreeTimeConstraints struct {
	Odd  IntervalMap `json:"oddFreeIntervals,omitempty"`
	Even IntervalMap `json:"evenFreeIntervals,omitempty"`
}

// Allows reports whether the slot clears every busy interval of the parity roles it
// occupies. Weekly slots must clear both roles.
func (c FreeTimeConstraints) Allows(slot Slot) bool {
	if slot.Frequency != FrequencyEven && c.Odd.Blocks(slot.Day, slot.Start, slot.End) {
		return false
	}
	if slot.Frequency != FrequencyOdd && c.Even.Blocks(slot.Day, slot.Start, slot.End) {
		return false
	}
	return true
}

// Validate checks every interval has From < To.
func (c FreeTimeConstraints) Validate() error {
	for role, m := range map[string]IntervalMap{"odd": c.Odd, "even": c.Even} {
		for day, intervals := range m {
			for _, interval := range intervals {
				if interval.From >= interval.To {
					return fmt.Errorf("%s week %s: busy interval %s-%s must end after it starts", role, day, interval.From, interval.To)
				}
			}
		}
	}
	return nil
}
