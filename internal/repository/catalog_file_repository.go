package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noah-isme/timetable-planner/internal/models"
)

// CatalogFileRepository reads section offerings from a JSON document. The document is either
// a bare array of slot records or an object with a "slots" array.
type CatalogFileRepository struct {
	path string
}

// NewCatalogFileRepository creates a repository over the file at path.
func NewCatalogFileRepository(path string) *CatalogFileRepository {
	return &CatalogFileRepository{path: path}
}

// Name identifies the source in cache keys and logs.
func (r *CatalogFileRepository) Name() string {
	abs, err := filepath.Abs(r.path)
	if err != nil {
		abs = r.path
	}
	return "file:" + abs
}

// Version changes whenever the file is rewritten.
func (r *CatalogFileRepository) Version(_ context.Context) (string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return "", fmt.Errorf("stat catalog %s: %w", r.path, err)
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// ListSlots decodes every record in document order.
func (r *CatalogFileRepository) ListSlots(ctx context.Context) ([]models.SlotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	records, err := decodeCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", r.path, err)
	}
	return records, nil
}

func decodeCatalog(raw []byte) ([]models.SlotRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '[' {
		var records []models.SlotRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var doc struct {
		Slots []models.SlotRecord `json:"slots"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.Slots == nil {
		return nil, fmt.Errorf(`object document has no "slots" array`)
	}
	return doc.Slots, nil
}
