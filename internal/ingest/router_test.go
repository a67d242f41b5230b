package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRouter_IngestAliasedCSV(t *testing.T) {
	// A company export: aliased headers, no team column, a duplicate id.
	path := writeCSV(t, `Dispatch No.,Date,Status,Problemcode
T1,2024-01-15,Resolved,Hardware
T1,2024-01-16,Open,Software
`)

	router := NewRouter(nil, nil, nil)
	tickets, report, err := router.Ingest(context.Background(), NewFileSource(path))
	require.NoError(t, err)

	require.Len(t, tickets, 1)
	assert.Equal(t, "T1", tickets[0].TicketID)
	assert.Equal(t, "Hardware", tickets[0].Category, "first occurrence wins")
	assert.Equal(t, models.StatusResolved, tickets[0].Status)
	assert.Equal(t, models.UnassignedTeam, tickets[0].AssignedTeam)
	assert.Equal(t, models.PriorityMedium, tickets[0].Priority)

	assert.Equal(t, StatusOK, report.Status)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, 2, report.Duplicates[0].Row)
	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, "file:"+path, report.Source)
}

func TestRouter_IngestCollectsRowConditions(t *testing.T) {
	path := writeCSV(t, `ticket_id,created_date,category,assigned_team,priority
T1,2024-01-15,Hardware,Service Desk,Urgent
,2024-01-16,Software,Service Desk,High
T3,nonsense,Network,Service Desk,Low
`)

	router := NewRouter(nil, nil, nil)
	tickets, report, err := router.Ingest(context.Background(), NewFileSource(path))
	require.NoError(t, err)

	require.Len(t, tickets, 1)
	assert.Equal(t, "T1", tickets[0].TicketID)
	assert.Equal(t, models.PriorityMedium, tickets[0].Priority)

	assert.Equal(t, 2, report.Rejected)
	kinds := make([]string, 0, len(report.Rejections))
	for _, rej := range report.Rejections {
		kinds = append(kinds, rej.Kind)
	}
	assert.ElementsMatch(t, []string{ConditionMissingRequiredField, ConditionUnparsableDate}, kinds)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, ConditionUnknownPriority, report.Warnings[0].Kind)
	assert.Equal(t, 1, report.Warnings[0].Row)
}

func TestRouter_IngestEmptyFile(t *testing.T) {
	path := writeCSV(t, "ticket_id,created_date,category,assigned_team\n")

	router := NewRouter(nil, nil, nil)
	tickets, report, err := router.Ingest(context.Background(), NewFileSource(path))
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Equal(t, StatusEmpty, report.Status)
}

func TestRouter_IngestSourceFailure(t *testing.T) {
	router := NewRouter(nil, nil, nil)

	_, _, err := router.Ingest(context.Background(), NewFileSource(filepath.Join(t.TempDir(), "missing.csv")))
	assert.Error(t, err)

	_, _, err = router.Ingest(context.Background(), NewFileSource("notes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

type stubLoader struct {
	records   []models.RawRecord
	gotFilter models.StoreFilter
}

func (s *stubLoader) Load(_ context.Context, filter models.StoreFilter) ([]models.RawRecord, error) {
	s.gotFilter = filter
	return s.records, nil
}

func TestRouter_StoreSourceSharesPipelineWithFiles(t *testing.T) {
	loader := &stubLoader{records: []models.RawRecord{
		{
			models.FieldTicketID:     "T9",
			models.FieldCreatedDate:  "2024-03-01 09:00:00",
			models.FieldResolvedDate: "2024-03-01 13:00:00",
			models.FieldCategory:     "network",
			models.FieldAssignedTeam: "network team",
			models.FieldStatus:       "resolved",
		},
	}}
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	filter := models.StoreFilter{From: &from, Status: "Resolved"}

	router := NewRouter(nil, nil, nil)
	tickets, report, err := router.Ingest(context.Background(), NewStoreSource(loader, filter))
	require.NoError(t, err)

	assert.Equal(t, filter, loader.gotFilter, "filter must be pushed down to the store")
	assert.Equal(t, "store", report.Source)

	require.Len(t, tickets, 1)
	// Store rows pass through the same cleaner as file rows.
	assert.Equal(t, "Network", tickets[0].Category)
	assert.Equal(t, "Network Team", tickets[0].AssignedTeam)
	require.NotNil(t, tickets[0].ResolutionTimeHours)
	assert.Equal(t, 4.0, *tickets[0].ResolutionTimeHours)
}
