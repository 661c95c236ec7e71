package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WeekRangeKind tags the shape of a WeekRange.
type WeekRangeKind int

const (
	// WeeksAll is active every week; the zero WeekRange is WeeksAll.
	WeeksAll WeekRangeKind = iota
	// WeeksBetween is the closed interval [Lo, Hi].
	WeeksBetween
	// WeeksListed is an explicit set of weeks.
	WeeksListed
	// WeeksSingle is exactly one week (Lo).
	WeeksSingle
	// WeeksUnknown holds text that could not be parsed. It is always active.
	WeeksUnknown
)

// WeekRange describes the semester weeks in which a slot is held.
// It is parsed once when the catalog loads.
type WeekRange struct {
	Kind  WeekRangeKind
	Lo    int
	Hi    int
	Weeks []int
	Raw   string
}

// AllWeeks is active in every week.
func AllWeeks() WeekRange {
	return WeekRange{Kind: WeeksAll}
}

// WeekSpan is active in lo..hi inclusive.
func WeekSpan(lo, hi int) WeekRange {
	return WeekRange{Kind: WeeksBetween, Lo: lo, Hi: hi}
}

// WeekSet is active in exactly the listed weeks.
func WeekSet(weeks ...int) WeekRange {
	set := append([]int(nil), weeks...)
	sort.Ints(set)
	return WeekRange{Kind: WeeksListed, Weeks: set}
}

// SingleWeek is active in one week only.
func SingleWeek(week int) WeekRange {
	return WeekRange{Kind: WeeksSingle, Lo: week, Hi: week}
}

// ParseWeekRange understands "all", "s1-7", "1-7", "s1,s3,s5", "s1-3,s5", "s5" and "5".
// Anything else yields a WeeksUnknown range that keeps the raw text.
func ParseWeekRange(raw string) WeekRange {
	text := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if text == "" || text == "all" {
		return AllWeeks()
	}
	unknown := WeekRange{Kind: WeeksUnknown, Raw: raw}

	if strings.Contains(text, ",") {
		parts := strings.Split(text, ",")
		weeks := make([]int, 0, len(parts))
		seen := make(map[int]bool, len(parts))
		for _, part := range parts {
			from, to, ok := parseWeekPart(part)
			if !ok {
				return unknown
			}
			// weeks past the semester can never be active
			for week := from; week <= to && week <= SemesterWeeks; week++ {
				if !seen[week] {
					seen[week] = true
					weeks = append(weeks, week)
				}
			}
		}
		return WeekSet(weeks...)
	}

	if lo, hi, found := strings.Cut(text, "-"); found {
		from, okFrom := parseWeekNumber(lo)
		to, okTo := parseWeekNumber(hi)
		if !okFrom || !okTo {
			return unknown
		}
		return WeekSpan(from, to)
	}

	if week, ok := parseWeekNumber(text); ok {
		return SingleWeek(week)
	}
	return unknown
}

// parseWeekPart reads one list entry, either "s5" or "s1-3".
func parseWeekPart(part string) (int, int, bool) {
	lo, hi, found := strings.Cut(part, "-")
	if !found {
		week, ok := parseWeekNumber(part)
		return week, week, ok
	}
	from, okFrom := parseWeekNumber(lo)
	to, okTo := parseWeekNumber(hi)
	if !okFrom || !okTo || from > to {
		return 0, 0, false
	}
	return from, to, true
}

func parseWeekNumber(raw string) (int, bool) {
	raw = strings.TrimPrefix(raw, "s")
	week, err := strconv.Atoi(raw)
	if err != nil || week < 0 {
		return 0, false
	}
	return week, true
}

// Recognized is false only for text that failed to parse.
func (r WeekRange) Recognized() bool {
	return r.Kind != WeeksUnknown
}

// Contains reports whether the range covers week. A non-positive week means
// "no week chosen" and always matches.
func (r WeekRange) Contains(week int) bool {
	if week <= 0 {
		return true
	}
	switch r.Kind {
	case WeeksBetween:
		return week >= r.Lo && week <= r.Hi
	case WeeksListed:
		for _, w := range r.Weeks {
			if w == week {
				return true
			}
		}
		return false
	case WeeksSingle:
		return week == r.Lo
	default:
		return true
	}
}

func (r WeekRange) String() string {
	switch r.Kind {
	case WeeksBetween:
		return fmt.Sprintf("s%d-%d", r.Lo, r.Hi)
	case WeeksListed:
		parts := make([]string, len(r.Weeks))
		for i, w := range r.Weeks {
			parts[i] = "s" + strconv.Itoa(w)
		}
		return strings.Join(parts, ",")
	case WeeksSingle:
		return "s" + strconv.Itoa(r.Lo)
	case WeeksUnknown:
		return r.Raw
	default:
		return "all"
	}
}

// MarshalText writes the canonical catalog notation.
func (r WeekRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalJSON accepts a string, a single week number, a list of weeks or null.
func (r *WeekRange) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = AllWeeks()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*r = ParseWeekRange(text)
	case '[':
		var weeks []int
		if err := json.Unmarshal(trimmed, &weeks); err != nil {
			return fmt.Errorf("weeks list must contain integers: %w", err)
		}
		if len(weeks) == 0 {
			*r = AllWeeks()
			return nil
		}
		*r = WeekSet(weeks...)
	default:
		var week int
		if err := json.Unmarshal(trimmed, &week); err != nil {
			*r = WeekRange{Kind: WeeksUnknown, Raw: string(trimmed)}
			return nil
		}
		*r = SingleWeek(week)
	}
	return nil
}

// Scan parses the weeks column of the catalog table.
func (r *WeekRange) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = AllWeeks()
	case []byte:
		*r = ParseWeekRange(string(v))
	case string:
		*r = ParseWeekRange(v)
	case int64:
		*r = SingleWeek(int(v))
	default:
		return fmt.Errorf("unsupported weeks column type %T", src)
	}
	return nil
}

// Value stores the canonical notation.
func (r WeekRange) Value() (driver.Value, error) {
	return r.String(), nil
}
