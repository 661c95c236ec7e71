package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/timetable-planner/pkg/errors"
)

const testCatalog = `[
  {"subject": "PS", "type": "lab", "day": "Monday", "start": 8, "end": 10, "weeks": "all", "group_id": "31a"},
  {"subject": "PS", "type": "lab", "day": "Tuesday", "start": 8, "end": 10, "weeks": "all", "group_id": "32a"},
  {"subject": "IA", "type": "lab", "day": "Monday", "start": 8, "end": 10, "weeks": "s1-7", "frequency": "odd", "group_id": "31a"},
  {"subject": "IA", "type": "lab", "day": "Wednesday", "start": "12:00", "end": "14:00", "weeks": "all", "group_id": "32b"},
  {"subject": "PS", "type": "curs", "day": "Luni", "start": 14, "end": 16, "weeks": "all"},
  {"subject": "XX", "type": "lab", "day": "Sunday", "start": 8, "end": 10}
]`

func setupEnv(t *testing.T) (exportDir string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))
	exportDir = filepath.Join(dir, "exports")

	t.Setenv("CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_PATH", catalogPath)
	t.Setenv("ENABLE_CATALOG_CACHE", "false")
	t.Setenv("EXPORT_DIR", exportDir)
	t.Setenv("EXPORT_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")
	return exportDir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, appErrors.ExitValidation, code)
	assert.Contains(t, stderr, "usage: planner")

	code, _, stderr = runCLI(t, "plan")
	assert.Equal(t, appErrors.ExitValidation, code)
	assert.Contains(t, stderr, `unknown command "plan"`)
}

func TestRunGenerate(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := runCLI(t, "generate", "-pair", "0")
	require.Equal(t, 0, code, stderr)

	var resp struct {
		WeekPair struct {
			OddWeek int `json:"oddWeek"`
		} `json:"weekPair"`
		Selected []string `json:"selectedSubjects"`
		Result   struct {
			TotalFound int               `json:"totalDistinctFound"`
			Schedules  []json.RawMessage `json:"schedules"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 1, resp.WeekPair.OddWeek)
	assert.Equal(t, []string{"IA (lab)", "PS (lab)"}, resp.Selected)
	assert.Equal(t, 3, resp.Result.TotalFound)
	assert.Len(t, resp.Result.Schedules, 3)
}

func TestRunCatalogReportsDroppedRows(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := runCLI(t, "catalog")
	require.Equal(t, 0, code, stderr)

	var report struct {
		Slots    int `json:"slots"`
		Subjects int `json:"subjects"`
		Warnings []struct {
			Subject string `json:"subject"`
			Dropped bool   `json:"dropped"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 5, report.Slots)
	assert.Equal(t, 3, report.Subjects)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "XX", report.Warnings[0].Subject)
	assert.True(t, report.Warnings[0].Dropped)
}

func TestRunWeekRankNotFound(t *testing.T) {
	setupEnv(t)

	code, _, stderr := runCLI(t, "week", "-pair", "0", "-rank", "9")
	assert.Equal(t, appErrors.ExitNotFound, code)
	assert.Contains(t, stderr, "NOT_FOUND")

	code, _, stderr = runCLI(t, "week", "-pair", "0", "-rank", "0")
	assert.Equal(t, appErrors.ExitValidation, code)
	assert.Contains(t, stderr, "VALIDATION_ERROR")
}

func TestRunExport(t *testing.T) {
	exportDir := setupEnv(t)

	code, stdout, stderr := runCLI(t, "export", "-pair", "0", "-format", "csv", "-out", "plan")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"format": "csv"`)

	raw, err := os.ReadFile(filepath.Join(exportDir, "plan.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "Subject,Type,Day,Start,End"))

	code, _, _ = runCLI(t, "export", "-pair", "0", "-format", "docx")
	assert.Equal(t, appErrors.ExitValidation, code)
}

func TestRunSettingsFileDrivesPlan(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "settings.json")
	legacy := `{"selectedSubjects":["PS (lab)"],"selectedPairIdx":1,"freeIntervals":{"Tuesday":{"from":8,"to":10}}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	code, stdout, stderr := runCLI(t, "settings", "-in", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"weekPairIndex": 1`)
	assert.Contains(t, stdout, `"oddFreeIntervals"`)
	assert.NotContains(t, stdout, "selectedPairIdx")

	code, stdout, stderr = runCLI(t, "generate", "-settings", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"oddWeek": 3`)
	assert.Contains(t, stdout, `"totalDistinctFound": 1`)
}

func TestRunMetricsFile(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "planner.prom")

	code, _, stderr := runCLI(t, "-metrics-file", path, "survey", "-subjects", "PS (lab)")
	require.Equal(t, 0, code, stderr)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `planner_runs_total{operation="survey",outcome="found"} 7`)
}

func TestRunMissingCatalog(t *testing.T) {
	setupEnv(t)
	t.Setenv("CATALOG_PATH", filepath.Join(t.TempDir(), "missing.json"))

	code, _, stderr := runCLI(t, "generate")
	assert.Equal(t, appErrors.ExitUnusable, code)
	assert.Contains(t, stderr, "PRECONDITION_FAILED")
}

func TestRunMigrateNeedsPostgres(t *testing.T) {
	setupEnv(t)

	code, _, stderr := runCLI(t, "migrate")
	assert.Equal(t, appErrors.ExitUnusable, code)
	assert.Contains(t, stderr, "CATALOG_SOURCE=postgres")
}
