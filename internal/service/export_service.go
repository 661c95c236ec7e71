package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/internal/dto"
	"github.com/noah-isme/timetable-planner/internal/models"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
	"github.com/noah-isme/timetable-planner/pkg/export"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

var scheduleHeaders = []string{"Subject", "Type", "Day", "Start", "End", "Weeks", "Frequency", "Group", "Room", "Professor"}

type scheduleSource interface {
	Schedule(ctx context.Context, req dto.ScheduleRequest) (*dto.PlanResponse, models.Schedule, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, subtitles ...string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(sheets []export.Sheet) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, events []export.CalendarEvent) ([]byte, error)
}

// ExportConfig anchors calendar exports in time.
type ExportConfig struct {
	SemesterStart time.Time
	Location      *time.Location
	Formats       []string
}

// ExportService renders a chosen schedule and writes it to storage.
type ExportService struct {
	schedules scheduleSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	xlsx      xlsxRenderer
	ics       icsRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(schedules scheduleSource, storage fileStorage, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &ExportService{
		schedules: schedules,
		storage:   storage,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		xlsx:      export.NewXLSXExporter(),
		ics:       export.NewICSExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Export generates, picks and renders one schedule, then stores the file.
func (s *ExportService) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid export request")
	}
	if !s.formatEnabled(req.Format) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("format %s is disabled", req.Format))
	}
	plan, schedule, err := s.schedules.Schedule(ctx, req.ScheduleRequest)
	if err != nil {
		return nil, err
	}

	payload, err := s.Render(req.Format, plan.Pair, req.ScheduleIndex, schedule)
	if err != nil {
		return nil, err
	}

	filename := req.Filename
	if filename == "" {
		filename = fmt.Sprintf("schedule-w%02d-%02d-%d-%s.%s", plan.Pair.OddWeek, plan.Pair.EvenWeek, req.ScheduleIndex+1, shortID(plan.RunID), req.Format)
	} else if filepath.Ext(filename) == "" {
		filename += "." + req.Format
	}
	rel, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to store export")
	}

	s.logger.Info("schedule exported",
		zap.String("run_id", plan.RunID),
		zap.String("format", req.Format),
		zap.String("path", rel),
		zap.Int("bytes", len(payload)),
	)
	return &dto.ExportResponse{RunID: plan.RunID, Format: req.Format, Path: s.storage.Path(rel), Size: len(payload)}, nil
}

// Render encodes schedule in format.
func (s *ExportService) Render(format string, pair models.WeekPair, index int, schedule models.Schedule) ([]byte, error) {
	title := fmt.Sprintf("Schedule %d", index+1)
	var (
		payload []byte
		err     error
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(ScheduleDataset(schedule.Slots))
	case FormatPDF:
		payload, err = s.pdf.Render(ScheduleDataset(schedule.Slots), title, pair.String(), fmt.Sprintf("group score %d", schedule.Score))
	case FormatXLSX:
		payload, err = s.xlsx.Render(s.workbook(pair, schedule))
	case FormatICS:
		payload, err = s.ics.Render(fmt.Sprintf("%s (%s)", title, pair), s.CalendarEvents(schedule.Slots))
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, fmt.Sprintf("failed to render %s", format))
	}
	return payload, nil
}

// ScheduleDataset lays slots out as one row each.
func ScheduleDataset(slots []models.Slot) export.Dataset {
	data := export.NewDataset(scheduleHeaders...)
	for _, slot := range slots {
		data.Append(
			slot.Subject,
			string(slot.Type),
			slot.Day.String(),
			slot.Start.String(),
			slot.End.String(),
			slot.Weeks.String(),
			string(slot.Frequency),
			slot.GroupID,
			slot.Room,
			slot.Professor,
		)
	}
	return data
}

// workbook holds the full listing plus one sheet per week of the pair, each with its column layout.
func (s *ExportService) workbook(pair models.WeekPair, schedule models.Schedule) []export.Sheet {
	sheets := []export.Sheet{{Name: "Schedule", Data: ScheduleDataset(schedule.Slots)}}
	for _, week := range []int{pair.OddWeek, pair.EvenWeek} {
		visible, layout := ArrangeWeek(schedule.Slots, week)
		data := export.NewDataset("Day", "Start", "End", "Subject", "Group", "Room", "Column", "Columns")
		for i, slot := range visible {
			data.Append(
				slot.Day.String(),
				slot.Start.String(),
				slot.End.String(),
				slot.Key().String(),
				slot.GroupID,
				slot.Room,
				strconv.Itoa(layout[i].Column+1),
				strconv.Itoa(layout[i].TotalColumns),
			)
		}
		sheets = append(sheets, export.Sheet{Name: fmt.Sprintf("Week %d", week), Data: data})
	}
	return sheets
}

// CalendarEvents dates every occurrence of the slots across the semester.
func (s *ExportService) CalendarEvents(slots []models.Slot) []export.CalendarEvent {
	y, m, d := s.cfg.SemesterStart.Date()
	monday := time.Date(y, m, d, 0, 0, 0, 0, s.cfg.Location)

	var events []export.CalendarEvent
	for week := 1; week <= models.SemesterWeeks; week++ {
		for _, slot := range slots {
			if !VisibleInWeek(slot, week) {
				continue
			}
			day := monday.AddDate(0, 0, (week-1)*7+int(slot.Day)-1)
			start := day.Add(time.Duration(slot.Start) * time.Minute)
			end := day.Add(time.Duration(slot.End) * time.Minute)
			uid := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", slot.Fingerprint(), week)))
			events = append(events, export.CalendarEvent{
				UID:         uid.String() + "@timetable-planner",
				Summary:     slot.Key().String(),
				Location:    slot.Room,
				Description: describeSlot(slot, week),
				Start:       start,
				End:         end,
			})
		}
	}
	return events
}

func describeSlot(slot models.Slot, week int) string {
	parts := []string{fmt.Sprintf("week %d", week)}
	if slot.FullName != "" {
		parts = append(parts, slot.FullName)
	}
	if slot.GroupID != "" {
		parts = append(parts, "group "+slot.GroupID)
	}
	if slot.Professor != "" {
		parts = append(parts, slot.Professor)
	}
	return strings.Join(parts, ", ")
}

func (s *ExportService) formatEnabled(format string) bool {
	if len(s.cfg.Formats) == 0 {
		return true
	}
	for _, f := range s.cfg.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
