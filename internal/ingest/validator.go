package ingest

import (
	"fmt"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// cleanedRecord pairs a cleaned ticket with its source row position so the
// validator can report duplicates against the original file.
type cleanedRecord struct {
	row    int
	ticket models.Ticket
}

// Validate runs the set-level checks over the cleaned batch: duplicate
// ticket_id resolution (first occurrence wins, deterministic), accepted and
// rejected totals, and the observed created_date range. It returns the
// deduplicated collection and the import report the ingestion boundary
// surfaces to callers.
func Validate(records []cleanedRecord, rejections []Rejection, warnings []Warning) ([]models.Ticket, *ImportReport) {
	report := &ImportReport{
		Status:     StatusOK,
		Rejections: rejections,
		Warnings:   warnings,
	}

	seen := make(map[string]bool, len(records))
	tickets := make([]models.Ticket, 0, len(records))

	for _, rec := range records {
		if seen[rec.ticket.TicketID] {
			report.Duplicates = append(report.Duplicates, Duplicate{
				Row:      rec.row,
				TicketID: rec.ticket.TicketID,
			})
			report.Rejections = append(report.Rejections, Rejection{
				Row:    rec.row,
				Field:  models.FieldTicketID,
				Kind:   ConditionDuplicateIdentifier,
				Reason: fmt.Sprintf("duplicate ticket_id %q; first occurrence kept", rec.ticket.TicketID),
			})
			continue
		}
		seen[rec.ticket.TicketID] = true
		tickets = append(tickets, rec.ticket)

		created := rec.ticket.CreatedDate
		if report.DateRangeStart == nil || created.Before(*report.DateRangeStart) {
			start := created
			report.DateRangeStart = &start
		}
		if report.DateRangeEnd == nil || created.After(*report.DateRangeEnd) {
			end := created
			report.DateRangeEnd = &end
		}
	}

	report.Accepted = len(tickets)
	report.Rejected = len(report.Rejections)
	if report.Accepted == 0 {
		report.Status = StatusEmpty
	}
	return tickets, report
}
