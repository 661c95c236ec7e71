package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-planner/internal/models"
)

const catalogColumns = `subject, COALESCE(full_name, '') AS full_name, type, day, start_time, end_time,
	COALESCE(room, '') AS room, weeks, COALESCE(frequency, '') AS frequency,
	COALESCE(group_id, '') AS group_id, COALESCE(prof, '') AS prof`

// CatalogRepository reads section offerings from the catalog_slots table. It never writes.
type CatalogRepository struct {
	db     *sqlx.DB
	dbName string
}

// NewCatalogRepository creates a new repository instance.
func NewCatalogRepository(db *sqlx.DB, dbName string) *CatalogRepository {
	return &CatalogRepository{db: db, dbName: dbName}
}

// Name identifies the source in cache keys and logs.
func (r *CatalogRepository) Name() string {
	return "postgres:" + r.dbName
}

// Version changes whenever rows are added, removed or touched.
func (r *CatalogRepository) Version(ctx context.Context) (string, error) {
	var row struct {
		Count   int   `db:"count"`
		Updated int64 `db:"updated"`
	}
	const query = `SELECT COUNT(*) AS count, COALESCE(EXTRACT(EPOCH FROM MAX(updated_at))::bigint, 0) AS updated FROM catalog_slots`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return "", fmt.Errorf("catalog version: %w", err)
	}
	return fmt.Sprintf("%d-%d", row.Count, row.Updated), nil
}

// ListSlots returns every catalog row in insertion order.
func (r *CatalogRepository) ListSlots(ctx context.Context) ([]models.SlotRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM catalog_slots ORDER BY id ASC", catalogColumns)
	var records []models.SlotRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list catalog slots: %w", err)
	}
	return records, nil
}
