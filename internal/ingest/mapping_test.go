package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

func TestDefaultFieldMapping_Resolve(t *testing.T) {
	m := DefaultFieldMapping()

	tests := []struct {
		input string
		want  string
	}{
		{"Dispatch No.", models.FieldTicketID},
		{"  dispatch no. ", models.FieldTicketID},
		{"Problemcode", models.FieldCategory},
		{"PROBLEM CODE", models.FieldCategory},
		{"Date", models.FieldCreatedDate},
		{"Assignment Group", models.FieldAssignedTeam},
		{"ticket_id", models.FieldTicketID},
		{"Urgency", models.FieldPriority},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := m.Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := m.Resolve("completely unknown column")
	assert.False(t, ok)
}

func TestFieldMapping_ApplyIsIdentityOnCanonicalRecords(t *testing.T) {
	m := DefaultFieldMapping()

	rec := models.RawRecord{
		models.FieldTicketID:            "T1",
		models.FieldCreatedDate:         "2024-01-15",
		models.FieldResolvedDate:        "2024-01-16",
		models.FieldCategory:            "Hardware",
		models.FieldPriority:            "High",
		models.FieldAssignedTeam:        "Service Desk",
		models.FieldAssignedTechnician:  "Alice Johnson",
		models.FieldStatus:              "Resolved",
		models.FieldResolutionTimeHours: "24",
	}

	mapped, missing := m.Apply(rec)
	assert.Equal(t, rec, mapped)
	assert.Empty(t, missing)
}

func TestFieldMapping_ApplyReportsMissingRequired(t *testing.T) {
	m := DefaultFieldMapping()

	mapped, missing := m.Apply(models.RawRecord{
		"Dispatch No.": "T1",
		"Status":       "Open",
	})
	assert.Equal(t, "T1", mapped[models.FieldTicketID])
	assert.Equal(t, "Open", mapped[models.FieldStatus])
	assert.ElementsMatch(t, []string{models.FieldCreatedDate, models.FieldCategory, models.FieldAssignedTeam}, missing)
}

func TestFieldMapping_ApplyLeavesUnmappedKeysAside(t *testing.T) {
	m := DefaultFieldMapping()

	mapped, _ := m.Apply(models.RawRecord{
		"Dispatch No.":   "T1",
		"Internal Notes": "do not import",
	})
	assert.Equal(t, "T1", mapped[models.FieldTicketID])
	_, found := mapped["Internal Notes"]
	assert.False(t, found)
}

func TestNewFieldMapping_RejectsAliasCollision(t *testing.T) {
	_, err := NewFieldMapping(map[string][]string{
		models.FieldTicketID: {"ref"},
		models.FieldCategory: {"REF"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maps to both")
}

func TestNewFieldMapping_RejectsUnknownCanonicalField(t *testing.T) {
	_, err := NewFieldMapping(map[string][]string{"not_a_field": {"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown canonical field")
}

func TestLoadFieldMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fieldmap.yaml")
	yaml := `
ticket_id:
  - "Req No"
created_date:
  - "Logged"
category:
  - "Fault Type"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	m, err := LoadFieldMapping(path)
	require.NoError(t, err)

	got, ok := m.Resolve("req no")
	require.True(t, ok)
	assert.Equal(t, models.FieldTicketID, got)

	got, ok = m.Resolve("Fault Type")
	require.True(t, ok)
	assert.Equal(t, models.FieldCategory, got)

	// Canonical names always resolve to themselves.
	got, ok = m.Resolve("status")
	require.True(t, ok)
	assert.Equal(t, models.FieldStatus, got)
}

func TestLoadFieldMapping_MissingFile(t *testing.T) {
	_, err := LoadFieldMapping(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
