package models

import "fmt"

const (
	// SemesterWeeks is the number of teaching weeks in a semester.
	SemesterWeeks = 14
	// WeekPairCount is the number of (odd, even) pairs covering the semester.
	WeekPairCount = SemesterWeeks / 2
)

// WeekPair is an odd week and the even week that follows it.
type WeekPair struct {
	OddWeek  int `json:"oddWeek"`
	EvenWeek int `json:"evenWeek"`
}

// Index is the zero-based position of the pair within the semester.
func (p WeekPair) Index() int {
	return (p.OddWeek - 1) / 2
}

// Contains reports whether week is one of the two weeks of the pair.
func (p WeekPair) Contains(week int) bool {
	return week == p.OddWeek || week == p.EvenWeek
}

func (p WeekPair) String() string {
	return fmt.Sprintf("weeks %d-%d", p.OddWeek, p.EvenWeek)
}

// IsOddWeek reports the parity of a week number.
func IsOddWeek(week int) bool {
	return week%2 == 1
}
