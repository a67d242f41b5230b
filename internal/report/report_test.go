package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gotrs-io/gotrs-insights/internal/analytics"
	"github.com/gotrs-io/gotrs-insights/internal/models"
)

func sampleTickets() []models.Ticket {
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	resolvedAt := created.Add(4 * time.Hour)
	hours := 4.0
	return []models.Ticket{
		{
			TicketID:            "T1",
			CreatedDate:         created,
			ResolvedDate:        &resolvedAt,
			Category:            "Hardware",
			Priority:            models.PriorityHigh,
			AssignedTeam:        "Service Desk",
			AssignedTechnician:  "Alice Johnson",
			Status:              models.StatusResolved,
			ResolutionTimeHours: &hours,
			CreatedWeek:         3,
			CreatedMonth:        "January 2024",
			CreatedWeekday:      "Monday",
		},
		{
			TicketID:       "T2",
			CreatedDate:    created.AddDate(0, 0, 2),
			Category:       "Software",
			Priority:       models.PriorityMedium,
			AssignedTeam:   "Application Support",
			Status:         models.StatusOpen,
			CreatedWeek:    3,
			CreatedMonth:   "January 2024",
			CreatedWeekday: "Wednesday",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	tickets := sampleTickets()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tickets))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, CSVHeader(), rows[0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "2024-01-15 09:00:00", rows[1][1])
	assert.Equal(t, "2024-01-15 13:00:00", rows[1][2])
	assert.Equal(t, "4", rows[1][8])

	// Absent optional fields render as empty cells, never "null" or "0".
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][8])
}

func TestWriteExcel(t *testing.T) {
	tickets := sampleTickets()
	res := analytics.NewEngine(nil).Aggregate(tickets, models.FilterSpec{}, models.GranularityDay)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteExcel(path, tickets, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	wantSheets := []string{
		"Summary", "By Category", "Priority Distribution", "Resolution Time",
		"Team Performance", "Technician Performance", "Trends", "SLA Compliance", "Raw Data",
	}
	assert.ElementsMatch(t, wantSheets, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "IT Ticket Analytics Report", title)

	total, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	// Grouped counts carry through to the sheet, sorted by the engine.
	label, err := f.GetCellValue("By Category", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Hardware", label)
	count, err := f.GetCellValue("By Category", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", count)

	// Raw data starts after the canonical header row.
	id, err := f.GetCellValue("Raw Data", "A2")
	require.NoError(t, err)
	assert.Equal(t, "T1", id)

	// The trend sheet zero-fills the day between the two tickets.
	gap, err := f.GetCellValue("Trends", "B3")
	require.NoError(t, err)
	assert.Equal(t, "0", gap)
}

func TestWriteExcel_EmptyResult(t *testing.T) {
	res := analytics.NewEngine(nil).Aggregate(nil, models.FilterSpec{}, models.GranularityDay)

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteExcel(path, nil, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	status, err := f.GetCellValue("Summary", "B15")
	require.NoError(t, err)
	assert.Equal(t, models.AggregationEmpty, status)
}
