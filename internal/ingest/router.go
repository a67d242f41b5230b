package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gotrs-io/gotrs-insights/internal/logger"
	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// Router is the thin orchestration over mapper, cleaner and validator. It
// holds no per-run state; Ingest may be called repeatedly.
type Router struct {
	mapping *FieldMapping
	cleaner *Cleaner
	log     logger.Logger
}

// NewRouter wires the pipeline stages together.
func NewRouter(mapping *FieldMapping, cleaner *Cleaner, log logger.Logger) *Router {
	if mapping == nil {
		mapping = DefaultFieldMapping()
	}
	if cleaner == nil {
		cleaner = NewCleaner(models.PriorityMedium)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{mapping: mapping, cleaner: cleaner, log: log}
}

// Ingest streams the source's raw records through mapping and cleaning, then
// validates the batch once. Record-level problems are collected into the
// report; only source-level failures (unreadable file, store error, timeout)
// return a non-nil error. Row positions in the report are 1-based over the
// data rows of the source.
func (r *Router) Ingest(ctx context.Context, src Source) ([]models.Ticket, *ImportReport, error) {
	batchID := uuid.NewString()

	raw, err := src.Records(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest %s: %w", src.Name(), err)
	}

	var (
		records    []cleanedRecord
		rejections []Rejection
		warnings   []Warning
	)
	for i, rec := range raw {
		row := i + 1

		mapped, missing := r.mapping.Apply(rec)
		if len(missing) > 0 {
			r.log.Debug("required fields unmapped", "batch_id", batchID, "row", row, "fields", missing)
		}

		ticket, warns, rejection := r.cleaner.Clean(row, mapped)
		warnings = append(warnings, warns...)
		if rejection != nil {
			rejections = append(rejections, *rejection)
			continue
		}
		records = append(records, cleanedRecord{row: row, ticket: *ticket})
	}

	tickets, report := Validate(records, rejections, warnings)
	report.BatchID = batchID
	report.Source = src.Name()

	r.log.Info("ingestion finished",
		"batch_id", batchID,
		"source", src.Name(),
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"warnings", len(report.Warnings),
		"status", report.Status,
	)
	return tickets, report, nil
}
