package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-planner/internal/models"
)

func TestIsActiveInWeek(t *testing.T) {
	assert.True(t, IsActiveInWeek(models.AllWeeks(), 9))
	assert.True(t, IsActiveInWeek(models.WeekSpan(1, 7), 7))
	assert.False(t, IsActiveInWeek(models.WeekSpan(1, 7), 8))
	assert.True(t, IsActiveInWeek(models.WeekSet(1, 3), 3))
	assert.False(t, IsActiveInWeek(models.WeekSet(1, 3), 2))
	assert.True(t, IsActiveInWeek(models.SingleWeek(5), 5))
	assert.False(t, IsActiveInWeek(models.SingleWeek(5), 6))
	assert.True(t, IsActiveInWeek(models.ParseWeekRange("odd weeks only"), 4), "unparsed ranges fail open")
}

func TestIsActiveInPair(t *testing.T) {
	pair := models.WeekPair{OddWeek: 7, EvenWeek: 8}
	assert.True(t, IsActiveInPair(models.WeekSpan(1, 7), pair))
	assert.True(t, IsActiveInPair(models.WeekSpan(8, 14), pair))
	assert.False(t, IsActiveInPair(models.WeekSpan(9, 14), pair))
	assert.False(t, IsActiveInPair(models.SingleWeek(3), pair))
}

func TestVisibleInWeek(t *testing.T) {
	odd := newSlot("IA", models.SlotLab, models.Tuesday, 8, 10, oddOnly())
	even := newSlot("IA", models.SlotLab, models.Tuesday, 8, 10, evenOnly())
	every := newSlot("PIU", models.SlotLab, models.Tuesday, 18, 20, weeks(models.WeekSpan(1, 7)))

	assert.True(t, VisibleInWeek(odd, 3))
	assert.False(t, VisibleInWeek(odd, 4))
	assert.True(t, VisibleInWeek(even, 4))
	assert.False(t, VisibleInWeek(even, 3))
	assert.True(t, VisibleInWeek(every, 4))
	assert.False(t, VisibleInWeek(every, 8))

	visible := VisibleSlots([]models.Slot{odd, even, every}, 2)
	assert.Equal(t, []models.Slot{even, every}, visible)
}

func TestAvailableSlotsForPair(t *testing.T) {
	catalog := sampleCatalog()

	early := AvailableSlots(catalog, key("LFT", models.SlotLab), firstPair)
	assert.Len(t, early, 2)

	late := AvailableSlots(catalog, key("LFT", models.SlotLab), models.WeekPair{OddWeek: 9, EvenWeek: 10})
	assert.Empty(t, late)

	assert.Empty(t, AvailableSlots(catalog, key("NOPE", models.SlotLab), firstPair))
}

func TestAvailabilityCount(t *testing.T) {
	catalog := sampleCatalog()
	assert.Equal(t, 4, AvailabilityCount(catalog, key("LFT", models.SlotLab), firstPair))
	assert.Equal(t, 2, AvailabilityCount(catalog, key("LFT", models.SlotLab), models.WeekPair{OddWeek: 7, EvenWeek: 8}))
	assert.Equal(t, 0, AvailabilityCount(catalog, key("LFT", models.SlotLab), models.WeekPair{OddWeek: 11, EvenWeek: 12}))
}
