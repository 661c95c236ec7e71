package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-planner/internal/models"
)

func TestCurrentWeek(t *testing.T) {
	start := time.Date(2026, time.February, 23, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		want int
	}{
		{"first day", start, 1},
		{"end of first week", start.AddDate(0, 0, 6), 1},
		{"second week", start.AddDate(0, 0, 7), 2},
		{"week five midday", start.AddDate(0, 0, 30).Add(13 * time.Hour), 5},
		{"before semester clamps", start.AddDate(0, 0, -20), 1},
		{"three months in", start.AddDate(0, 3, 0), 13},
		{"last day of week fourteen", start.AddDate(0, 0, 97), 14},
		{"first day past semester clamps", start.AddDate(0, 0, 98), 14},
		{"after semester clamps", start.AddDate(0, 0, 14*7+3), 14},
		{"months after semester clamps", start.AddDate(0, 6, 0), 14},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CurrentWeek(tc.date, start))
		})
	}
}

func TestWeekPairOf(t *testing.T) {
	assert.Equal(t, models.WeekPair{OddWeek: 1, EvenWeek: 2}, WeekPairOf(1))
	assert.Equal(t, models.WeekPair{OddWeek: 1, EvenWeek: 2}, WeekPairOf(2))
	assert.Equal(t, models.WeekPair{OddWeek: 7, EvenWeek: 8}, WeekPairOf(8))
	assert.Equal(t, models.WeekPair{OddWeek: 13, EvenWeek: 14}, WeekPairOf(13))
}

func TestWeekPairsCoverSemester(t *testing.T) {
	pairs := WeekPairs()
	assert.Len(t, pairs, 7)

	covered := map[int]bool{}
	for i, pair := range pairs {
		assert.Equal(t, i, pair.Index())
		assert.True(t, models.IsOddWeek(pair.OddWeek))
		assert.Equal(t, pair.OddWeek+1, pair.EvenWeek)
		assert.False(t, covered[pair.OddWeek])
		covered[pair.OddWeek] = true
		covered[pair.EvenWeek] = true
	}
	assert.Len(t, covered, 14)
	assert.Equal(t, models.WeekPair{OddWeek: 13, EvenWeek: 14}, WeekPairAt(6))
}
