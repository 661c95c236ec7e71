package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/internal/models"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
)

type catalogSource interface {
	Name() string
	Version(ctx context.Context) (string, error)
	ListSlots(ctx context.Context) ([]models.SlotRecord, error)
}

// CatalogWarning describes a catalog row that loaded with a defect or was dropped.
type CatalogWarning struct {
	Row     int    `json:"row"`
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
	Dropped bool   `json:"dropped"`
}

// CatalogService loads the section catalog once per process and shares it read-only.
type CatalogService struct {
	source  catalogSource
	cache   *CacheService
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger

	mu       sync.Mutex
	catalog  *models.Catalog
	warnings []CatalogWarning
}

// NewCatalogService constructs a catalog service. cache may be nil.
func NewCatalogService(source catalogSource, cache *CacheService, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, cache: cache, ttl: ttl, metrics: metrics, logger: logger}
}

// Load returns the catalog, reading the source (or the cache) on first use only.
func (s *CatalogService) Load(ctx context.Context) (*models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}

	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	slots, warnings := NormalizeCatalog(records)
	for _, w := range warnings {
		s.logger.Warn("catalog row", zap.Int("row", w.Row), zap.String("subject", w.Subject), zap.String("reason", w.Reason), zap.Bool("dropped", w.Dropped))
	}
	if len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("catalog %s has no usable slots", s.source.Name()))
	}

	s.catalog = models.NewCatalog(slots)
	s.warnings = warnings
	s.metrics.SetCatalogSize(len(slots))
	s.logger.Info("catalog loaded", zap.String("source", s.source.Name()), zap.Int("slots", len(slots)), zap.Int("subjects", len(s.catalog.Keys())), zap.Int("warnings", len(warnings)))
	return s.catalog, nil
}

// Warnings returns the defects found while loading.
func (s *CatalogService) Warnings() []CatalogWarning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CatalogWarning(nil), s.warnings...)
}

// Refresh drops the in-process copy and the cached payloads of this source.
func (s *CatalogService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.catalog = nil
	s.warnings = nil
	s.mu.Unlock()
	return s.cache.Invalidate(ctx, "catalog", s.source.Name())
}

func (s *CatalogService) fetch(ctx context.Context) ([]models.SlotRecord, error) {
	var key string
	if s.cache.Enabled() {
		version, err := s.source.Version(ctx)
		if err != nil {
			s.logger.Warn("catalog version unavailable, bypassing cache", zap.Error(err))
		} else {
			key = s.cache.Key("catalog", s.source.Name(), version)
			var cached []models.SlotRecord
			if s.cache.Get(ctx, key, &cached) {
				s.logger.Debug("catalog cache hit", zap.String("key", key))
				return cached, nil
			}
		}
	}

	records, err := s.source.ListSlots(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed, "failed to load catalog")
	}
	if key != "" {
		_ = s.cache.Set(ctx, key, records, s.ttl)
	}
	return records, nil
}

// NormalizeCatalog turns raw rows into slots. Rows with an unknown day are dropped; rows with an
// inverted time range or unreadable week range are kept and reported.
func NormalizeCatalog(records []models.SlotRecord) ([]models.Slot, []CatalogWarning) {
	slots := make([]models.Slot, 0, len(records))
	var warnings []CatalogWarning
	for i, record := range records {
		slot, err := record.Slot()
		if err != nil {
			warnings = append(warnings, CatalogWarning{Row: i, Subject: record.Subject, Reason: err.Error(), Dropped: true})
			continue
		}
		if slot.Subject == "" {
			warnings = append(warnings, CatalogWarning{Row: i, Reason: "missing subject", Dropped: true})
			continue
		}
		if slot.Start >= slot.End {
			warnings = append(warnings, CatalogWarning{Row: i, Subject: slot.Subject, Reason: fmt.Sprintf("start %s is not before end %s", slot.Start, slot.End)})
		}
		if !slot.Weeks.Recognized() {
			warnings = append(warnings, CatalogWarning{Row: i, Subject: slot.Subject, Reason: fmt.Sprintf("unrecognized weeks %q, treated as every week", slot.Weeks.Raw)})
		}
		slots = append(slots, slot)
	}
	return slots, warnings
}
