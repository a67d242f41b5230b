package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// CSVHeader is the column order of the canonical CSV view.
func CSVHeader() []string {
	return []string{
		models.FieldTicketID,
		models.FieldCreatedDate,
		models.FieldResolvedDate,
		models.FieldCategory,
		models.FieldPriority,
		models.FieldAssignedTeam,
		models.FieldAssignedTechnician,
		models.FieldStatus,
		models.FieldResolutionTimeHours,
		"created_week",
		"created_month",
		"created_weekday",
	}
}

// WriteCSV streams the collection as canonical-schema CSV. Because the
// columns are canonical names, re-importing the output is the identity
// transform through the field mapper.
func WriteCSV(w io.Writer, tickets []models.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range tickets {
		if err := cw.Write(csvRow(tickets[i])); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(t models.Ticket) []string {
	resolved := ""
	if t.ResolvedDate != nil {
		resolved = t.ResolvedDate.Format("2006-01-02 15:04:05")
	}
	hours := ""
	if t.ResolutionTimeHours != nil {
		hours = strconv.FormatFloat(*t.ResolutionTimeHours, 'f', -1, 64)
	}
	return []string{
		t.TicketID,
		t.CreatedDate.Format("2006-01-02 15:04:05"),
		resolved,
		t.Category,
		t.Priority,
		t.AssignedTeam,
		t.AssignedTechnician,
		t.Status,
		hours,
		strconv.Itoa(t.CreatedWeek),
		t.CreatedMonth,
		t.CreatedWeekday,
	}
}
