package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/noah-isme/timetable-planner/internal/dto"
	"github.com/noah-isme/timetable-planner/pkg/database"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
)

// planFlags are shared by every command that runs the generator.
type planFlags struct {
	settings string
	subjects string
	group    string
	pair     int
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func bindPlanFlags(fs *flag.FlagSet) *planFlags {
	pf := &planFlags{}
	fs.StringVar(&pf.settings, "settings", "", "saved settings file to start from")
	fs.StringVar(&pf.subjects, "subjects", "", `comma separated subject keys, e.g. "PS (lab),IA (lab)"`)
	fs.StringVar(&pf.group, "group", "", "preferred group label")
	fs.IntVar(&pf.pair, "pair", -1, "week pair index 0-6; defaults to the current pair")
	return pf
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation, "invalid flags for "+fs.Name())
	}
	if fs.NArg() > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "unexpected arguments: "+fs.Arg(0))
	}
	return nil
}

// request merges the settings file with explicit flags; flags win.
func (pf *planFlags) request(a *app) (dto.PlanRequest, error) {
	var req dto.PlanRequest
	if pf.settings != "" {
		f, err := os.Open(pf.settings)
		if err != nil {
			return req, appErrors.Wrap(err, appErrors.ErrValidation, "cannot open settings file")
		}
		defer f.Close()
		settings, err := a.settings.Decode(f)
		if err != nil {
			return req, err
		}
		req = a.settings.PlanRequest(*settings)
	}
	if subjects := splitList(pf.subjects); len(subjects) > 0 {
		req.Subjects = subjects
	}
	if pf.group != "" {
		req.PreferredGroup = pf.group
	}
	if pf.pair != -1 {
		pair := pf.pair
		req.WeekPairIndex = &pair
	}
	return req, nil
}

func runSubjects(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("subjects")
	pair := fs.Int("pair", -1, "week pair index 0-6; defaults to the current pair")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req := dto.SubjectsRequest{}
	if *pair != -1 {
		req.WeekPairIndex = pair
	}
	resp, err := a.generator.Subjects(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

func runGenerate(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("generate")
	pf := bindPlanFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req, err := pf.request(a)
	if err != nil {
		return err
	}
	resp, err := a.generator.Generate(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

func runConflicts(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("conflicts")
	pf := bindPlanFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req, err := pf.request(a)
	if err != nil {
		return err
	}
	resp, err := a.generator.Conflicts(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

func runWeek(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("week")
	pf := bindPlanFlags(fs)
	rank := fs.Int("rank", 1, "schedule rank, starting at 1")
	week := fs.Int("week", 0, "week 1-14; defaults to the odd week of the pair")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req, err := pf.request(a)
	if err != nil {
		return err
	}
	resp, err := a.generator.WeekView(ctx, dto.WeekViewRequest{
		ScheduleRequest: dto.ScheduleRequest{Plan: req, ScheduleIndex: *rank - 1},
		Week:            *week,
	})
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

func runSurvey(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("survey")
	pf := bindPlanFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req, err := pf.request(a)
	if err != nil {
		return err
	}
	resp, err := a.generator.Survey(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

func runExport(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("export")
	pf := bindPlanFlags(fs)
	rank := fs.Int("rank", 1, "schedule rank, starting at 1")
	format := fs.String("format", "csv", "csv, pdf, xlsx or ics")
	out := fs.String("out", "", "file name under the export directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req, err := pf.request(a)
	if err != nil {
		return err
	}
	resp, err := a.exporter.Export(ctx, dto.ExportRequest{
		ScheduleRequest: dto.ScheduleRequest{Plan: req, ScheduleIndex: *rank - 1},
		Format:          *format,
		Filename:        *out,
	})
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

type catalogReport struct {
	Slots    int         `json:"slots"`
	Subjects int         `json:"subjects"`
	Groups   []string    `json:"groups"`
	Warnings interface{} `json:"warnings"`
}

func runCatalog(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("catalog")
	refresh := fs.Bool("refresh", false, "drop cached copies before loading")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *refresh {
		if err := a.catalog.Refresh(ctx); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to refresh catalog cache")
		}
	}
	catalog, err := a.catalog.Load(ctx)
	if err != nil {
		return err
	}
	return writeJSON(stdout, catalogReport{
		Slots:    len(catalog.Slots()),
		Subjects: len(catalog.Keys()),
		Groups:   catalog.Groups(),
		Warnings: a.catalog.Warnings(),
	})
}

func runSettings(_ context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("settings")
	in := fs.String("in", "", "settings file to rewrite")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return appErrors.Clone(appErrors.ErrValidation, "settings requires -in")
	}
	f, err := os.Open(*in)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation, "cannot open settings file")
	}
	defer f.Close()
	settings, err := a.settings.Decode(f)
	if err != nil {
		return err
	}
	return a.settings.Encode(stdout, *settings)
}

func runMigrate(_ context.Context, a *app, args []string, stdout io.Writer) error {
	fs := newFlagSet("migrate")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if a.db == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "migrate requires CATALOG_SOURCE=postgres")
	}
	version, err := database.Migrate(a.db.DB, a.logger)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal, "failed to migrate catalog schema")
	}
	return writeJSON(stdout, map[string]uint{"version": version})
}
