package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

func cleaned(row int, id string, created time.Time) cleanedRecord {
	return cleanedRecord{
		row: row,
		ticket: models.Ticket{
			TicketID:    id,
			CreatedDate: created,
			Category:    "Hardware",
		},
	}
}

func TestValidate_DuplicateFirstWins(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	tickets, report := Validate([]cleanedRecord{
		cleaned(1, "T1", day(15)),
		cleaned(2, "T2", day(16)),
		cleaned(3, "T1", day(17)),
	}, nil, nil)

	require.Len(t, tickets, 2)
	assert.Equal(t, "T1", tickets[0].TicketID)
	assert.True(t, tickets[0].CreatedDate.Equal(day(15)), "first occurrence must be kept")
	assert.Equal(t, "T2", tickets[1].TicketID)

	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, 3, report.Duplicates[0].Row)
	assert.Equal(t, "T1", report.Duplicates[0].TicketID)
	require.Len(t, report.Rejections, 1)
	assert.Equal(t, ConditionDuplicateIdentifier, report.Rejections[0].Kind)
}

func TestValidate_DateRangeOverAcceptedOnly(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	_, report := Validate([]cleanedRecord{
		cleaned(1, "T1", day(20)),
		cleaned(2, "T2", day(5)),
		cleaned(3, "T1", day(30)), // duplicate, excluded from the range
	}, nil, nil)

	require.NotNil(t, report.DateRangeStart)
	require.NotNil(t, report.DateRangeEnd)
	assert.True(t, report.DateRangeStart.Equal(day(5)))
	assert.True(t, report.DateRangeEnd.Equal(day(20)))
}

func TestValidate_CarriesUpstreamConditions(t *testing.T) {
	rejections := []Rejection{{Row: 4, Kind: ConditionMissingRequiredField, Reason: "ticket_id is empty"}}
	warnings := []Warning{{Row: 2, Kind: ConditionUnknownPriority, Message: "priority \"Urgent\" not recognized"}}

	tickets, report := Validate([]cleanedRecord{
		cleaned(1, "T1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
	}, rejections, warnings)

	assert.Len(t, tickets, 1)
	assert.Equal(t, StatusOK, report.Status)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, rejections, report.Rejections)
	assert.Equal(t, warnings, report.Warnings)
}

func TestValidate_EmptyBatch(t *testing.T) {
	tickets, report := Validate(nil, nil, nil)

	assert.Empty(t, tickets)
	assert.Equal(t, StatusEmpty, report.Status)
	assert.Equal(t, 0, report.Accepted)
	assert.Nil(t, report.DateRangeStart)
	assert.Nil(t, report.DateRangeEnd)
}
