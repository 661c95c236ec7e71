package service

import (
	"time"

	"github.com/noah-isme/timetable-planner/internal/models"
)

// CurrentWeek maps date to its semester week, clamped to 1..SemesterWeeks.
func CurrentWeek(date, semesterStart time.Time) int {
	start := civilDay(semesterStart)
	days := int(civilDay(date).Sub(start).Hours() / 24)
	week := floorDiv(days, 7) + 1
	if week < 1 {
		return 1
	}
	if week > models.SemesterWeeks {
		return models.SemesterWeeks
	}
	return week
}

// WeekPairOf returns the (odd, even) pair that contains week.
func WeekPairOf(week int) models.WeekPair {
	odd := week
	if !models.IsOddWeek(week) {
		odd = week - 1
	}
	return models.WeekPair{OddWeek: odd, EvenWeek: odd + 1}
}

// WeekPairs enumerates the semester's pairs: (1,2), (3,4) ... (13,14).
func WeekPairs() []models.WeekPair {
	pairs := make([]models.WeekPair, models.WeekPairCount)
	for i := range pairs {
		pairs[i] = WeekPairAt(i)
	}
	return pairs
}

// WeekPairAt returns the pair at a zero-based index.
func WeekPairAt(index int) models.WeekPair {
	odd := 2*index + 1
	return models.WeekPair{OddWeek: odd, EvenWeek: odd + 1}
}

// civilDay drops the clock so DST shifts never move a date into another week.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
