package service

import (
	"github.com/noah-isme/timetable-planner/internal/models"
)

type slotOpt func(*models.Slot)

func oddOnly() slotOpt { return func(s *models.Slot) { s.Frequency = models.FrequencyOdd } }
func evenOnly() slotOpt { return func(s *models.Slot) { s.Frequency = models.FrequencyEven } }

func group(id string) slotOpt { return func(s *models.Slot) { s.GroupID = id } }

func weeks(r models.WeekRange) slotOpt { return func(s *models.Slot) { s.Weeks = r } }

func room(name string) slotOpt { return func(s *models.Slot) { s.Room = name } }

func newSlot(subject string, typ models.SlotType, day models.Weekday, start, end int, opts ...slotOpt) models.Slot {
	slot := models.Slot{
		Subject:   subject,
		Type:      typ,
		Day:       day,
		Start:     models.Hour(start),
		End:       models.Hour(end),
		Weeks:     models.AllWeeks(),
		Frequency: models.FrequencyWeekly,
	}
	for _, opt := range opts {
		opt(&slot)
	}
	return slot
}

func key(subject string, typ models.SlotType) models.SubjectKey {
	return models.SubjectKey{Subject: subject, Type: typ}
}

var firstPair = models.WeekPair{OddWeek: 1, EvenWeek: 2}

// sampleCatalog mirrors a slice of a real faculty timetable.
func sampleCatalog() *models.Catalog {
	return models.NewCatalog([]models.Slot{
		newSlot("PS", models.SlotLecture, models.Monday, 12, 14),
		newSlot("LFT", models.SlotLecture, models.Monday, 14, 16, weeks(models.WeekSpan(1, 7))),
		newSlot("LFT", models.SlotProject, models.Monday, 14, 16, group("32"), weeks(models.WeekSpan(8, 14))),
		newSlot("LFT", models.SlotLab, models.Monday, 18, 20, group("31a"), weeks(models.WeekSpan(1, 7))),
		newSlot("LFT", models.SlotLab, models.Tuesday, 16, 18, group("33a"), weeks(models.WeekSpan(1, 7))),
		newSlot("PAOO", models.SlotProject, models.Monday, 18, 20, group("33"), oddOnly()),
		newSlot("PAOO", models.SlotProject, models.Monday, 18, 20, group("32"), evenOnly()),
		newSlot("IA", models.SlotLab, models.Tuesday, 8, 10, group("32b"), oddOnly()),
		newSlot("IA", models.SlotLab, models.Tuesday, 8, 10, group("32a"), evenOnly()),
		newSlot("PIU", models.SlotLab, models.Tuesday, 18, 20, group("33a")),
		newSlot("PAW", models.SlotLab, models.Wednesday, 8, 10, group("31a")),
		newSlot("PAW", models.SlotLab, models.Wednesday, 8, 10, group("32b")),
		newSlot("PAW", models.SlotLab, models.Thursday, 10, 12, group("33a")),
	})
}
