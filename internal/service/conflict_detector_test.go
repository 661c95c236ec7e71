package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-planner/internal/models"
)

func TestFindHardConflictsReportsImpossiblePair(t *testing.T) {
	catalog := models.NewCatalog([]models.Slot{
		newSlot("A", models.SlotLab, models.Monday, 10, 12),
		newSlot("B", models.SlotLab, models.Monday, 11, 13),
	})
	selected := []models.SubjectKey{key("A", models.SlotLab), key("B", models.SlotLab)}

	report := FindHardConflicts(catalog, selected, firstPair)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, models.ConflictPair{A: selected[0], B: selected[1]}, report.Pairs[0])
	assert.Equal(t, selected, report.Involved)
	assert.True(t, report.Involves(selected[1]))
}

func TestFindHardConflictsIgnoresPairsWithAnEscape(t *testing.T) {
	catalog := models.NewCatalog([]models.Slot{
		newSlot("A", models.SlotLab, models.Monday, 10, 12),
		newSlot("B", models.SlotLab, models.Monday, 11, 13),
		newSlot("B", models.SlotLab, models.Tuesday, 11, 13),
		newSlot("C", models.SlotLab, models.Monday, 10, 12, oddOnly()),
		newSlot("D", models.SlotLab, models.Monday, 10, 12, evenOnly()),
	})
	selected := []models.SubjectKey{key("A", models.SlotLab), key("B", models.SlotLab), key("C", models.SlotLab), key("D", models.SlotLab)}

	report := FindHardConflicts(catalog, selected, firstPair)
	assert.ElementsMatch(t, []models.ConflictPair{
		{A: key("A", models.SlotLab), B: key("C", models.SlotLab)},
		{A: key("A", models.SlotLab), B: key("D", models.SlotLab)},
	}, report.Pairs)
	assert.Equal(t, []models.SubjectKey{key("A", models.SlotLab), key("C", models.SlotLab), key("D", models.SlotLab)}, report.Involved)
}

func TestFindHardConflictsSkipsUnavailableSubjects(t *testing.T) {
	catalog := models.NewCatalog([]models.Slot{
		newSlot("A", models.SlotLab, models.Monday, 10, 12),
		newSlot("B", models.SlotLab, models.Monday, 10, 12, weeks(models.WeekSpan(8, 14))),
	})
	report := FindHardConflicts(catalog, []models.SubjectKey{key("A", models.SlotLab), key("B", models.SlotLab)}, firstPair)
	assert.Empty(t, report.Pairs)
	assert.Empty(t, report.Involved)
}
