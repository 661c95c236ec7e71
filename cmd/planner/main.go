package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-planner/pkg/config"
	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
	"github.com/noah-isme/timetable-planner/pkg/logger"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"subjects":  {"list catalog subjects and their availability in a week pair", runSubjects},
	"generate":  {"find ranked schedules for a selection", runGenerate},
	"conflicts": {"report subject pairs that can never coexist", runConflicts},
	"week":      {"lay out one schedule for a single week", runWeek},
	"survey":    {"run the selection against every week pair", runSurvey},
	"export":    {"write one schedule as csv, pdf, xlsx or ics", runExport},
	"catalog":   {"show catalog load warnings, optionally refreshing the cache", runCatalog},
	"settings":  {"rewrite a saved settings file in the current format", runSettings},
	"migrate":   {"create or upgrade the postgres catalog schema", runMigrate},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := flag.NewFlagSet("planner", flag.ContinueOnError)
	root.SetOutput(stderr)
	metricsFile := root.String("metrics-file", "", "write Prometheus metrics to this textfile after the command")
	root.Usage = func() { usage(stderr) }
	if err := root.Parse(args); err != nil {
		return appErrors.ExitValidation
	}
	if root.NArg() == 0 {
		usage(stderr)
		return appErrors.ExitValidation
	}
	name := root.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return appErrors.ExitValidation
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return appErrors.ExitInternal
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return appErrors.ExitInternal
	}
	defer logr.Sync() //nolint:errcheck

	a, err := newApp(ctx, cfg, logr)
	if err != nil {
		return fail(stderr, appErrors.Wrap(err, appErrors.ErrPreconditionFailed, "failed to initialise planner"))
	}
	defer a.Close()

	err = cmd.run(ctx, a, root.Args()[1:], stdout)
	if *metricsFile != "" {
		if werr := a.metrics.WriteTextfile(*metricsFile); werr != nil {
			logr.Warn("failed to write metrics", zap.String("path", *metricsFile), zap.Error(werr))
		}
	}
	snapshot := a.metrics.Snapshot()
	logr.Debug("command finished", zap.String("command", name), zap.Uint64("runs", snapshot.Runs), zap.Float64("avg_run_ms", snapshot.AverageRunMs), zap.Float64("cache_hit_ratio", snapshot.CacheHitRatio))
	if err != nil {
		return fail(stderr, err)
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: planner [-metrics-file path] <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
}

// fail reports err as JSON on stderr and returns its exit status.
func fail(stderr io.Writer, err error) int {
	appErr := appErrors.FromError(err)
	_ = json.NewEncoder(stderr).Encode(map[string]interface{}{
		"error": map[string]string{"code": appErr.Code, "message": appErr.Error()},
	})
	if appErr.ExitCode == 0 {
		return appErrors.ExitInternal
	}
	return appErr.ExitCode
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal, "failed to write output")
	}
	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
