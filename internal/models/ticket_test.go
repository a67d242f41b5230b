package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPriority(t *testing.T) {
	assert.True(t, IsValidPriority("Critical"))
	assert.True(t, IsValidPriority("critical"))
	assert.True(t, IsValidPriority("HIGH"))
	assert.False(t, IsValidPriority("Urgent"))
	assert.False(t, IsValidPriority(""))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusResolved))
	assert.True(t, IsTerminalStatus(StatusClosed))
	assert.False(t, IsTerminalStatus(StatusOpen))
	assert.False(t, IsTerminalStatus(StatusInProgress))
	assert.False(t, IsTerminalStatus("Escalated"))
}

func TestHasResolution(t *testing.T) {
	var tk Ticket
	assert.False(t, tk.HasResolution())

	hours := 4.0
	tk.ResolutionTimeHours = &hours
	assert.True(t, tk.HasResolution())
}

func TestFilterSpec_Matches(t *testing.T) {
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	tk := Ticket{
		TicketID:     "T1",
		CreatedDate:  created,
		Category:     "Hardware",
		Priority:     PriorityHigh,
		AssignedTeam: "Service Desk",
		Status:       StatusOpen,
	}

	t.Run("zero filter matches", func(t *testing.T) {
		var f FilterSpec
		assert.True(t, f.IsZero())
		assert.True(t, f.Matches(tk))
	})

	t.Run("inclusive date bounds", func(t *testing.T) {
		assert.True(t, FilterSpec{From: &created, To: &created}.Matches(tk))

		after := created.Add(time.Second)
		assert.False(t, FilterSpec{From: &after}.Matches(tk))

		before := created.Add(-time.Second)
		assert.False(t, FilterSpec{To: &before}.Matches(tk))
	})

	t.Run("set dimensions", func(t *testing.T) {
		assert.True(t, FilterSpec{Categories: []string{"Hardware", "Software"}}.Matches(tk))
		assert.False(t, FilterSpec{Categories: []string{"Software"}}.Matches(tk))
		assert.False(t, FilterSpec{Priorities: []string{PriorityLow}}.Matches(tk))
		assert.True(t, FilterSpec{Teams: []string{"Service Desk"}}.Matches(tk))
	})

	t.Run("all dimensions must pass", func(t *testing.T) {
		f := FilterSpec{
			Categories: []string{"Hardware"},
			Statuses:   []string{StatusResolved},
		}
		assert.False(t, f.Matches(tk))
	})
}

func TestParseGranularity(t *testing.T) {
	assert.Equal(t, GranularityWeek, ParseGranularity("week"))
	assert.Equal(t, GranularityMonth, ParseGranularity("month"))
	assert.Equal(t, GranularityDay, ParseGranularity("day"))
	assert.Equal(t, GranularityDay, ParseGranularity(""))
	assert.Equal(t, GranularityDay, ParseGranularity("hourly"))
}

func TestSLAThresholds(t *testing.T) {
	s := DefaultSLAThresholds()

	limit, ok := s.Threshold(PriorityCritical)
	assert.True(t, ok)
	assert.Equal(t, 4.0, limit)

	_, ok = s.Threshold("Urgent")
	assert.False(t, ok)

	within, measurable := s.WithinSLA(PriorityHigh, 8)
	assert.True(t, within, "threshold boundary counts as within")
	assert.True(t, measurable)

	within, measurable = s.WithinSLA(PriorityHigh, 8.1)
	assert.False(t, within)
	assert.True(t, measurable)

	_, measurable = s.WithinSLA("Urgent", 1)
	assert.False(t, measurable)
}
