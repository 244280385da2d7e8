package services

import (
	"context"
	"errors"
	"log"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

// ImportService loads spreadsheet exports: per-sheet mirror tables and the
// FBA FNSKU catalog.
type ImportService struct {
	Mirrors *repositories.MirrorRepository
	Skus    *repositories.SkuRepository
}

func NewImportService(mirrors *repositories.MirrorRepository, skus *repositories.SkuRepository) *ImportService {
	return &ImportService{Mirrors: mirrors, Skus: skus}
}

// SheetImportRequest is one sheet tab to mirror into a table.
type SheetImportRequest struct {
	Table   string     `json:"table"`
	Columns int        `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ImportSheet replaces one mirror table with the posted rows.
func (s *ImportService) ImportSheet(ctx context.Context, req *SheetImportRequest) (int, error) {
	if req.Table == "" {
		return 0, errors.New("table is required")
	}
	if len(req.Rows) == 0 {
		return 0, errors.New("no rows to import")
	}

	columns := req.Columns
	if columns == 0 {
		for _, row := range req.Rows {
			if len(row) > columns {
				columns = len(row)
			}
		}
	}

	if err := s.Mirrors.Replace(ctx, req.Table, columns, req.Rows); err != nil {
		return 0, err
	}

	count, err := s.Mirrors.Count(ctx, req.Table)
	if err != nil {
		return 0, err
	}
	log.Printf("[Import] mirror %s replaced with %d rows", req.Table, count)
	return count, nil
}

// ImportFnskus upserts the FBA barcode catalog. Entries without an FNSKU are
// skipped by the repository, not treated as errors, because the spreadsheet
// export always carries a few blank trailing rows.
func (s *ImportService) ImportFnskus(ctx context.Context, items []models.FBAFnsku) (int, error) {
	if len(items) == 0 {
		return 0, errors.New("no fnskus to import")
	}

	n, err := s.Skus.UpsertFnskus(ctx, items)
	if err != nil {
		return 0, err
	}
	cache.InvalidateScanCaches(ctx)
	log.Printf("[Import] %d fnskus upserted", n)
	return n, nil
}
