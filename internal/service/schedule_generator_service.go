package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/internal/dto"
	"github.com/noah-isme/timetable-planner/internal/models"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
	"github.com/noah-isme/timetable-planner/pkg/jobs"
	"github.com/noah-isme/timetable-planner/pkg/logger"
)

type catalogLoader interface {
	Load(ctx context.Context) (*models.Catalog, error)
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	SemesterStart time.Time
	MaxSchedules  int
	SearchBudget  int
	SurveyWorkers int
}

// ScheduleGeneratorService runs the constraint engine against the loaded catalog.
type ScheduleGeneratorService struct {
	catalog   catalogLoader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGeneratorConfig
	now       func() time.Time
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	catalog catalogLoader,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSchedules <= 0 {
		cfg.MaxSchedules = DefaultMaxSchedules
	}
	if cfg.SurveyWorkers <= 0 {
		cfg.SurveyWorkers = 1
	}
	return &ScheduleGeneratorService{
		catalog:   catalog,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// planInput is a validated request resolved against the catalog.
type planInput struct {
	catalog  *models.Catalog
	selected []models.SubjectKey
	pair     models.WeekPair
	req      dto.PlanRequest
}

// CurrentPair returns the week pair that contains today.
func (s *ScheduleGeneratorService) CurrentPair() models.WeekPair {
	return WeekPairOf(CurrentWeek(s.now(), s.cfg.SemesterStart))
}

// Generate runs conflict detection and the schedule search for one week pair.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.PlanRequest) (*dto.PlanResponse, error) {
	in, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := logger.ForRun(s.logger, "generate", runID)

	start := time.Now()
	conflicts := FindHardConflicts(in.catalog, in.selected, in.pair)
	result := s.search(in, in.pair)
	elapsed := time.Since(start)

	s.metrics.ObserveRun("generate", result, len(conflicts.Pairs), elapsed)
	log.Info("schedules generated",
		zap.Stringer("pair", in.pair),
		zap.Int("selected", len(in.selected)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("hard_conflicts", len(conflicts.Pairs)),
		zap.Int("found", result.TotalFound),
		zap.Int("returned", len(result.Schedules)),
		zap.Int("nodes", result.NodesVisited),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("duration", elapsed),
	)
	if result.TotalFound == 0 && len(conflicts.Pairs) > 0 {
		log.Debug("no schedule possible", zap.Int("conflicting_pairs", len(conflicts.Pairs)))
	}

	return &dto.PlanResponse{
		RunID:       runID,
		Pair:        in.pair,
		Selected:    in.selected,
		Conflicts:   conflicts,
		Result:      result,
		DurationMs:  float64(elapsed) / float64(time.Millisecond),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Conflicts reports subject pairs that can never coexist without running the search.
func (s *ScheduleGeneratorService) Conflicts(ctx context.Context, req dto.PlanRequest) (*dto.ConflictsResponse, error) {
	in, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	report := FindHardConflicts(in.catalog, in.selected, in.pair)
	s.logger.Debug("conflicts checked", zap.Stringer("pair", in.pair), zap.Int("pairs", len(report.Pairs)))
	return &dto.ConflictsResponse{Pair: in.pair, Selected: in.selected, Report: report}, nil
}

// Subjects lists catalog keys with how many of their slots run in the pair.
func (s *ScheduleGeneratorService) Subjects(ctx context.Context, req dto.SubjectsRequest) (*dto.SubjectsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid subjects query")
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	pair := s.resolvePair(req.WeekPairIndex)

	defaults := make(map[models.SubjectKey]bool)
	for _, key := range catalog.DefaultSelection() {
		defaults[key] = true
	}

	keys := catalog.Keys()
	summaries := make([]dto.SubjectSummary, 0, len(keys))
	for _, key := range keys {
		slots := catalog.SlotsFor(key)
		summary := dto.SubjectSummary{
			Key:       key,
			Sections:  len(slots),
			Available: AvailabilityCount(catalog, key, pair),
			Default:   defaults[key],
			Groups:    models.NewCatalog(slots).Groups(),
		}
		for _, slot := range slots {
			if slot.FullName != "" {
				summary.FullName = slot.FullName
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return &dto.SubjectsResponse{Pair: pair, Subjects: summaries, Groups: catalog.Groups()}, nil
}

// Schedule runs Generate and returns the schedule at the requested rank.
func (s *ScheduleGeneratorService) Schedule(ctx context.Context, req dto.ScheduleRequest) (*dto.PlanResponse, models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, models.Schedule{}, appErrors.Wrap(err, appErrors.ErrValidation, "invalid schedule selection")
	}
	plan, err := s.Generate(ctx, req.Plan)
	if err != nil {
		return nil, models.Schedule{}, err
	}
	if len(plan.Result.Schedules) == 0 {
		return plan, models.Schedule{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no valid schedule for %s", plan.Pair))
	}
	if req.ScheduleIndex >= len(plan.Result.Schedules) {
		return plan, models.Schedule{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule %d not found; %d returned", req.ScheduleIndex+1, len(plan.Result.Schedules)))
	}
	return plan, plan.Result.Schedules[req.ScheduleIndex], nil
}

// WeekView lays out one schedule for a single week.
func (s *ScheduleGeneratorService) WeekView(ctx context.Context, req dto.WeekViewRequest) (*dto.WeekViewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid week view request")
	}
	plan, schedule, err := s.Schedule(ctx, req.ScheduleRequest)
	if err != nil {
		return nil, err
	}
	week := req.Week
	if week == 0 {
		week = plan.Pair.OddWeek
	}

	visible, layout := ArrangeWeek(schedule.Slots, week)
	events := make([]dto.WeekViewEvent, len(visible))
	for i := range visible {
		events[i] = dto.WeekViewEvent{Slot: visible[i], LayoutEntry: layout[i]}
	}
	parity := "even"
	if models.IsOddWeek(week) {
		parity = "odd"
	}
	return &dto.WeekViewResponse{RunID: plan.RunID, Week: week, Parity: parity, Events: events}, nil
}

// Survey runs the same selection against every week pair on the worker pool.
func (s *ScheduleGeneratorService) Survey(ctx context.Context, req dto.PlanRequest) (*dto.SurveyResponse, error) {
	in, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := logger.ForRun(s.logger, "survey", runID)

	pairs := WeekPairs()
	queued := make([]jobs.Job, len(pairs))
	for i, pair := range pairs {
		queued[i] = jobs.Job{ID: fmt.Sprintf("%s/%d", runID, i), Type: "week-pair", Payload: pair}
	}

	start := time.Now()
	results := jobs.RunAll(ctx, "survey", queued, func(_ context.Context, job jobs.Job) (interface{}, error) {
		pair := job.Payload.(models.WeekPair)
		began := time.Now()
		conflicts := FindHardConflicts(in.catalog, in.selected, pair)
		result := s.search(in, pair)
		s.metrics.ObserveRun("survey", result, len(conflicts.Pairs), time.Since(began))
		return summarisePair(pair, result, conflicts), nil
	}, jobs.QueueConfig{Workers: s.cfg.SurveyWorkers, Logger: log})
	elapsed := time.Since(start)

	surveys := make([]dto.PairSurvey, len(results))
	for i, res := range results {
		if res.Err != nil {
			surveys[i] = dto.PairSurvey{Pair: pairs[i], Error: res.Err.Error()}
			continue
		}
		surveys[i] = res.Value.(dto.PairSurvey)
	}
	if err := ctx.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "survey interrupted")
	}

	log.Info("week pairs surveyed", zap.Int("pairs", len(surveys)), zap.Int("workers", s.cfg.SurveyWorkers), zap.Duration("duration", elapsed))
	return &dto.SurveyResponse{RunID: runID, Pairs: surveys, DurationMs: float64(elapsed) / float64(time.Millisecond)}, nil
}

func summarisePair(pair models.WeekPair, result models.GenerationResult, conflicts models.ConflictReport) dto.PairSurvey {
	summary := dto.PairSurvey{
		Pair:          pair,
		TotalFound:    result.TotalFound,
		Returned:      len(result.Schedules),
		Skipped:       result.Skipped,
		HardConflicts: len(conflicts.Pairs),
		Truncated:     result.Truncated,
	}
	if len(result.Schedules) > 0 {
		summary.TopScore = result.Schedules[0].Score
	}
	return summary
}

func (s *ScheduleGeneratorService) search(in planInput, pair models.WeekPair) models.GenerationResult {
	return GenerateSchedules(GenerationInput{
		Catalog:        in.catalog,
		Selected:       in.selected,
		Pair:           pair,
		Constraints:    in.req.Constraints,
		PreferredGroup: in.req.PreferredGroup,
	}, SearchOptions{MaxSchedules: s.cfg.MaxSchedules, SearchBudget: s.cfg.SearchBudget})
}

// prepare validates the request and resolves selection and week pair against the catalog.
func (s *ScheduleGeneratorService) prepare(ctx context.Context, req dto.PlanRequest) (planInput, error) {
	if err := s.validator.Struct(req); err != nil {
		return planInput{}, appErrors.Wrap(err, appErrors.ErrValidation, "invalid planning request")
	}
	if err := req.Constraints.Validate(); err != nil {
		return planInput{}, appErrors.Wrap(err, appErrors.ErrValidation, "invalid busy intervals")
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return planInput{}, err
	}

	selected := make([]models.SubjectKey, 0, len(req.Subjects))
	for _, raw := range req.Subjects {
		key := models.ParseSubjectKey(raw)
		if !catalog.Has(key) {
			s.logger.Warn("selected subject not in catalog", zap.String("subject", raw))
		}
		selected = append(selected, key)
	}
	// nil means no selection was given; an empty list is a real, empty selection.
	if req.Subjects == nil {
		selected = catalog.DefaultSelection()
	}

	return planInput{catalog: catalog, selected: uniqueKeys(selected), pair: s.resolvePair(req.WeekPairIndex), req: req}, nil
}

func (s *ScheduleGeneratorService) resolvePair(index *int) models.WeekPair {
	if index == nil {
		return s.CurrentPair()
	}
	return WeekPairAt(*index)
}
