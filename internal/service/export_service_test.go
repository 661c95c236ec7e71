package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/internal/dto"
	"github.com/noah-isme/timetable-planner/internal/models"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
	"github.com/noah-isme/timetable-planner/pkg/storage"
)

type failingStorage struct{}

func (failingStorage) Save(string, []byte) (string, error) { return "", errors.New("disk full") }
func (failingStorage) Path(name string) string             { return name }

func newExportServiceForTest(t *testing.T, formats ...string) (*ExportService, string) {
	t.Helper()
	generator, _ := newGeneratorFixture(t, sampleCatalog())
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewExportService(generator, store, ExportConfig{
		SemesterStart: semesterStart,
		Location:      time.UTC,
		Formats:       formats,
	}, nil, zap.NewNop())
	return svc, dir
}

func exportRequest(format string) dto.ExportRequest {
	return dto.ExportRequest{
		ScheduleRequest: dto.ScheduleRequest{Plan: dto.PlanRequest{WeekPairIndex: intPtr(0)}},
		Format:          format,
	}
}

func TestExportServiceCSV(t *testing.T) {
	svc, dir := newExportServiceForTest(t)

	resp, err := svc.Export(context.Background(), exportRequest(FormatCSV))
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, resp.Format)
	assert.True(t, strings.HasPrefix(filepath.Base(resp.Path), "schedule-w01-02-1-"))
	assert.Equal(t, ".csv", filepath.Ext(resp.Path))
	assert.Equal(t, dir, filepath.Dir(resp.Path))

	raw, err := os.ReadFile(resp.Path)
	require.NoError(t, err)
	assert.Equal(t, resp.Size, len(raw))

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, scheduleHeaders, records[0])
	assert.Len(t, records, 6)
}

func TestExportServiceCustomFilename(t *testing.T) {
	svc, dir := newExportServiceForTest(t)
	req := exportRequest(FormatPDF)
	req.Filename = "plans/mine"

	resp, err := svc.Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plans", "mine.pdf"), resp.Path)

	raw, err := os.ReadFile(resp.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestExportServiceXLSXHasWeekSheets(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	resp, err := svc.Export(context.Background(), exportRequest(FormatXLSX))
	require.NoError(t, err)

	f, err := excelize.OpenFile(resp.Path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Schedule", "Week 1", "Week 2"}, f.GetSheetList())
	rows, err := f.GetRows("Week 1")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
	rows, err = f.GetRows("Week 2")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestExportServiceICSDatesEveryVisibleWeek(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	generator, _ := newGeneratorFixture(t, sampleCatalog())
	_, schedule, err := generator.Schedule(context.Background(), dto.ScheduleRequest{Plan: dto.PlanRequest{WeekPairIndex: intPtr(0)}})
	require.NoError(t, err)

	expected := 0
	for week := 1; week <= models.SemesterWeeks; week++ {
		for _, slot := range schedule.Slots {
			if VisibleInWeek(slot, week) {
				expected++
			}
		}
	}

	events := svc.CalendarEvents(schedule.Slots)
	require.Len(t, events, expected)
	last := semesterStart.AddDate(0, 0, models.SemesterWeeks*7)
	seen := map[string]bool{}
	for _, ev := range events {
		assert.False(t, ev.Start.Before(semesterStart))
		assert.True(t, ev.Start.Before(last))
		assert.True(t, ev.End.After(ev.Start))
		assert.NotEqual(t, time.Saturday, ev.Start.Weekday())
		assert.NotEqual(t, time.Sunday, ev.Start.Weekday())
		assert.False(t, seen[ev.UID], "duplicate uid %s", ev.UID)
		seen[ev.UID] = true
	}

	resp, err := svc.Export(context.Background(), exportRequest(FormatICS))
	require.NoError(t, err)
	raw, err := os.ReadFile(resp.Path)
	require.NoError(t, err)
	cal, err := ics.ParseCalendar(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), expected)
}

func TestExportServiceCalendarEventDate(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	slot := newSlot("PS", models.SlotLab, models.Wednesday, 10, 12)
	slot.Frequency = models.FrequencyEven
	slot.Weeks = models.WeekSpan(1, 4)

	events := svc.CalendarEvents([]models.Slot{slot})
	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC), events[1].End)
	assert.Contains(t, events[0].Description, "week 2")
}

func TestExportServiceErrors(t *testing.T) {
	svc, _ := newExportServiceForTest(t, FormatCSV)

	_, err := svc.Export(context.Background(), exportRequest("docx"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Export(context.Background(), exportRequest(FormatPDF))
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)

	req := exportRequest(FormatCSV)
	req.ScheduleIndex = 50
	_, err = svc.Export(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Render("docx", firstPair, 0, models.Schedule{})
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)

	generator, _ := newGeneratorFixture(t, sampleCatalog())
	broken := NewExportService(generator, failingStorage{}, ExportConfig{SemesterStart: semesterStart}, nil, nil)
	_, err = broken.Export(context.Background(), exportRequest(FormatCSV))
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
