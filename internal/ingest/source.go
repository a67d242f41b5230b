package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// Source produces the raw records of one ingestion run. Implementations must
// not normalize anything; that is the mapper's and cleaner's job.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]models.RawRecord, error)
}

// FileSource reads delimited or spreadsheet tabular data whose header row
// carries company-specific field names.
type FileSource struct {
	Path string
}

// NewFileSource builds a source for a CSV or XLSX file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		return s.readCSV()
	case ".xlsx", ".xlsm", ".xls":
		return s.readExcel()
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(s.Path))
	}
}

func (s *FileSource) readCSV() ([]models.RawRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	// Exports sometimes have ragged rows; pad/truncate against the header
	// instead of failing the whole file.
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return rowsToRecords(rows), nil
}

func (s *FileSource) readExcel() ([]models.RawRecord, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", s.Path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rowsToRecords(rows), nil
}

// rowsToRecords zips the header row with each data row. Short rows leave the
// trailing fields absent; extra cells beyond the header are dropped.
func rowsToRecords(rows [][]string) []models.RawRecord {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(models.RawRecord, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// RecordLoader is the slice of the persistence adapter the store source
// needs: a filtered read of raw records.
type RecordLoader interface {
	Load(ctx context.Context, filter models.StoreFilter) ([]models.RawRecord, error)
}

// StoreSource reads raw records from the external store, pushing the date
// range and status filter down to it.
type StoreSource struct {
	Loader RecordLoader
	Filter models.StoreFilter
}

// NewStoreSource builds a source over a persistence adapter.
func NewStoreSource(loader RecordLoader, filter models.StoreFilter) *StoreSource {
	return &StoreSource{Loader: loader, Filter: filter}
}

func (s *StoreSource) Name() string { return "store" }

func (s *StoreSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	return s.Loader.Load(ctx, s.Filter)
}
