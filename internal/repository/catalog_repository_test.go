package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-planner/internal/models"
)

func newCatalogRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var catalogRowColumns = []string{"subject", "full_name", "type", "day", "start_time", "end_time", "room", "weeks", "frequency", "group_id", "prof"}

func TestCatalogRepositoryListSlots(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db, "timetable")

	rows := sqlmock.NewRows(catalogRowColumns).
		AddRow("PS", "Probability and Statistics", "curs", "Luni", int64(12), int64(14), "A101", "all", "", "", "Pop").
		AddRow("LFT", "", "proiect", "Tuesday", "16:00", "18:00", "", "s8-14", "weekly", "33a", "").
		AddRow("IA", "", "lab", "Wednesday", int64(8), int64(10), "", nil, "odd", "31", "")
	mock.ExpectQuery("(?s)SELECT subject, COALESCE\\(full_name, ''\\) AS full_name, .* FROM catalog_slots ORDER BY id ASC").
		WillReturnRows(rows)

	records, err := repo.ListSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.Hour(12), records[0].Start)
	assert.Equal(t, models.AllWeeks(), records[0].Weeks)
	assert.Equal(t, models.Hour(16), records[1].Start)
	assert.Equal(t, models.WeekSpan(8, 14), records[1].Weeks)
	assert.Equal(t, "33a", records[1].GroupID)
	assert.Equal(t, models.AllWeeks(), records[2].Weeks)

	slot, err := records[1].Slot()
	require.NoError(t, err)
	assert.Equal(t, models.SlotProject, slot.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListSlotsError(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db, "timetable")

	mock.ExpectQuery("FROM catalog_slots").WillReturnError(errors.New("relation does not exist"))

	_, err := repo.ListSlots(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list catalog slots")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryVersion(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db, "timetable")

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS count").
		WillReturnRows(sqlmock.NewRows([]string{"count", "updated"}).AddRow(42, int64(1760000000)))

	version, err := repo.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42-1760000000", version)
	assert.Equal(t, "postgres:timetable", repo.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}
