package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/internal/dto"
	"github.com/noah-isme/timetable-planner/internal/models"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
)

// SettingsService reads and writes saved planner sessions.
type SettingsService struct {
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{logger: logger}
}

// Decode parses a settings document, accepting the legacy single busy-time map.
func (s *SettingsService) Decode(r io.Reader) (*models.Settings, error) {
	var settings models.Settings
	if err := json.NewDecoder(r).Decode(&settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid settings document")
	}
	if idx := settings.PairIndex(); idx >= models.WeekPairCount {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("week pair index %d out of range 0-%d", idx, models.WeekPairCount-1))
	}
	if err := settings.Constraints().Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid busy intervals")
	}
	if settings.FreeIntervals != nil && settings.OddFreeIntervals == nil {
		s.logger.Info("settings use the legacy freeIntervals map; applying it to both weeks")
	}
	return &settings, nil
}

// Encode writes settings in the current format. The legacy map is folded into the dual maps.
func (s *SettingsService) Encode(w io.Writer, settings models.Settings) error {
	constraints := settings.Constraints()
	out := settings
	out.FreeIntervals = nil
	out.SelectedPairIdx = nil
	if settings.PairIndex() >= 0 {
		idx := settings.PairIndex()
		out.WeekPairIndex = &idx
	}
	out.OddFreeIntervals = constraints.Odd
	out.EvenFreeIntervals = constraints.Even
	mirror := settings.Mirrored()
	out.MirrorFreeTime = &mirror

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal, "failed to encode settings")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// PlanRequest turns saved settings into a planning request.
func (s *SettingsService) PlanRequest(settings models.Settings) dto.PlanRequest {
	req := dto.PlanRequest{
		PreferredGroup: settings.PreferredGroup,
		Constraints:    settings.Constraints(),
	}
	if settings.SelectedSubjects != nil {
		req.Subjects = make([]string, 0, len(settings.SelectedSubjects))
	}
	for _, key := range settings.SelectedSubjects {
		req.Subjects = append(req.Subjects, key.String())
	}
	if idx := settings.PairIndex(); idx >= 0 {
		req.WeekPairIndex = &idx
	}
	return req
}
