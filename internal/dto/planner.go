package dto

import (
	"time"

	"github.com/noah-isme/timetable-planner/internal/models"
)

// PlanRequest describes one planning run over the loaded catalog.
type PlanRequest struct {
	// Subjects uses the "SUBJECT (type)" notation. Nil selects every lab, project and seminar;
	// an empty list selects nothing.
	Subjects       []string                   `json:"selectedSubjects" validate:"omitempty,dive,required"`
	PreferredGroup string                     `json:"preferredGroup" validate:"max=32"`
	WeekPairIndex  *int                       `json:"weekPairIndex,omitempty" validate:"omitempty,min=0,max=6"`
	Constraints    models.FreeTimeConstraints `json:"constraints"`
}

// PlanResponse returns the ranked schedules for the chosen week pair.
type PlanResponse struct {
	RunID       string                  `json:"runId"`
	Pair        models.WeekPair         `json:"weekPair"`
	Selected    []models.SubjectKey     `json:"selectedSubjects"`
	Conflicts   models.ConflictReport   `json:"conflicts"`
	Result      models.GenerationResult `json:"result"`
	DurationMs  float64                 `json:"durationMs"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

// ConflictsResponse lists subject pairs that can never be scheduled together.
type ConflictsResponse struct {
	Pair     models.WeekPair       `json:"weekPair"`
	Selected []models.SubjectKey   `json:"selectedSubjects"`
	Report   models.ConflictReport `json:"report"`
}

// SubjectsRequest scopes the catalog listing to a week pair.
type SubjectsRequest struct {
	WeekPairIndex *int `json:"weekPairIndex,omitempty" validate:"omitempty,min=0,max=6"`
}

// SubjectSummary describes one selectable subject key.
type SubjectSummary struct {
	Key       models.SubjectKey `json:"key"`
	FullName  string            `json:"fullName,omitempty"`
	Sections  int               `json:"sections"`
	Available int               `json:"available"`
	Default   bool              `json:"default"`
	Groups    []string          `json:"groups,omitempty"`
}

// SubjectsResponse lists the catalog keys with their availability in the pair.
type SubjectsResponse struct {
	Pair     models.WeekPair  `json:"weekPair"`
	Subjects []SubjectSummary `json:"subjects"`
	Groups   []string         `json:"groups"`
}

// ScheduleRequest picks one schedule out of a planning run.
type ScheduleRequest struct {
	Plan          PlanRequest `json:"plan"`
	ScheduleIndex int         `json:"scheduleIndex" validate:"min=0,max=99"`
}

// WeekViewRequest renders one schedule for a single semester week.
type WeekViewRequest struct {
	ScheduleRequest
	// Week defaults to the odd week of the chosen pair.
	Week int `json:"week" validate:"omitempty,min=1,max=14"`
}

// WeekViewEvent is a visible slot with its column placement.
type WeekViewEvent struct {
	models.Slot
	models.LayoutEntry
}

// WeekViewResponse lists the events visible in the week, ready for side-by-side rendering.
type WeekViewResponse struct {
	RunID  string          `json:"runId"`
	Week   int             `json:"week"`
	Parity string          `json:"parity"`
	Events []WeekViewEvent `json:"events"`
}

// PairSurvey summarises one week pair of a survey.
type PairSurvey struct {
	Pair          models.WeekPair     `json:"weekPair"`
	TotalFound    int                 `json:"totalDistinctFound"`
	Returned      int                 `json:"returned"`
	TopScore      int                 `json:"topScore"`
	Skipped       []models.SubjectKey `json:"skippedSubjects"`
	HardConflicts int                 `json:"hardConflicts"`
	Truncated     bool                `json:"truncated,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// SurveyResponse runs the same selection over every week pair of the semester.
type SurveyResponse struct {
	RunID      string       `json:"runId"`
	Pairs      []PairSurvey `json:"pairs"`
	DurationMs float64      `json:"durationMs"`
}

// ExportRequest renders one schedule into a file.
type ExportRequest struct {
	ScheduleRequest
	Format   string `json:"format" validate:"required,oneof=csv pdf xlsx ics"`
	Filename string `json:"filename" validate:"omitempty,max=128"`
}

// ExportResponse describes the written file.
type ExportResponse struct {
	RunID  string `json:"runId"`
	Format string `json:"format"`
	Path   string `json:"path"`
	Size   int    `json:"size"`
}
