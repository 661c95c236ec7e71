package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/internal/models"
	"github.com/noah-isme/timetable-planner/internal/repository"
	"github.com/noah-isme/timetable-planner/internal/service"
	"github.com/noah-isme/timetable-planner/pkg/cache"
	"github.com/noah-isme/timetable-planner/pkg/config"
	"github.com/noah-isme/timetable-planner/pkg/database"
	"github.com/noah-isme/timetable-planner/pkg/storage"
)

// app holds the services one CLI invocation works with.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *service.MetricsService
	catalog   *service.CatalogService
	generator *service.ScheduleGeneratorService
	exporter  *service.ExportService
	settings  *service.SettingsService
	db        *sqlx.DB
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logr, metrics: service.NewMetricsService()}
	validate := validator.New()

	source, err := a.catalogSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var cacheSvc *service.CacheService
	if cfg.Catalog.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("catalog cache unavailable, continuing without it", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			a.closers = append(a.closers, repo.Close)
			cacheSvc = service.NewCacheService(repo, a.metrics, cfg.Catalog.CacheTTL, logr, true)
		}
	}

	a.catalog = service.NewCatalogService(source, cacheSvc, cfg.Catalog.CacheTTL, a.metrics, logr)
	a.generator = service.NewScheduleGeneratorService(a.catalog, a.metrics, validate, logr, service.ScheduleGeneratorConfig{
		SemesterStart: cfg.Semester.Start,
		MaxSchedules:  cfg.Planner.MaxSchedules,
		SearchBudget:  cfg.Planner.SearchBudget,
		SurveyWorkers: cfg.Planner.SurveyWorkers,
	})
	a.settings = service.NewSettingsService(logr)

	store, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		a.Close()
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		logr.Warn("unknown export timezone, using local time", zap.String("timezone", cfg.Export.Timezone), zap.Error(err))
		loc = time.Local
	}
	a.exporter = service.NewExportService(a.generator, store, service.ExportConfig{
		SemesterStart: cfg.Semester.Start,
		Location:      loc,
		Formats:       cfg.Export.Formats,
	}, validate, logr)

	return a, nil
}

func (a *app) catalogSource(ctx context.Context) (catalogSource, error) {
	switch a.cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		db, err := database.NewPostgres(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		return repository.NewCatalogRepository(db, a.cfg.Database.Name), nil
	case config.CatalogSourceFile, "":
		return repository.NewCatalogFileRepository(a.cfg.Catalog.Path), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", a.cfg.Catalog.Source)
	}
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

// catalogSource is the subset of repository behaviour the catalog service consumes.
type catalogSource interface {
	Name() string
	Version(ctx context.Context) (string, error)
	ListSlots(ctx context.Context) ([]models.SlotRecord, error)
}
