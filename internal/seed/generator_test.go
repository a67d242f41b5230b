package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

func fixedOpts() Options {
	return Options{
		Count:    200,
		DaysBack: 30,
		Seed:     42,
		Now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate(fixedOpts())
	second := Generate(fixedOpts())
	assert.Equal(t, first, second)
}

func TestGenerate_TicketShape(t *testing.T) {
	opts := fixedOpts()
	tickets := Generate(opts)
	require.Len(t, tickets, opts.Count)

	seen := make(map[string]bool, len(tickets))
	earliest := opts.Now.AddDate(0, 0, -opts.DaysBack)

	for _, tk := range tickets {
		assert.False(t, seen[tk.TicketID], "ticket ids must be unique")
		seen[tk.TicketID] = true

		assert.True(t, models.IsValidPriority(tk.Priority))
		assert.Contains(t, categories, tk.Category)
		assert.Contains(t, teams, tk.AssignedTeam)
		assert.Contains(t, technicians[tk.AssignedTeam], tk.AssignedTechnician)

		assert.False(t, tk.CreatedDate.Before(earliest.Truncate(24*time.Hour)))
		assert.False(t, tk.CreatedDate.After(opts.Now.AddDate(0, 0, 1)))
		hour := tk.CreatedDate.Hour()
		assert.GreaterOrEqual(t, hour, 8)
		assert.LessOrEqual(t, hour, 17)

		if tk.Status == models.StatusResolved {
			require.NotNil(t, tk.ResolvedDate)
			require.NotNil(t, tk.ResolutionTimeHours)
			assert.GreaterOrEqual(t, *tk.ResolutionTimeHours, 0.5)
			assert.False(t, tk.ResolvedDate.Before(tk.CreatedDate))
		} else {
			assert.Nil(t, tk.ResolvedDate)
			assert.Nil(t, tk.ResolutionTimeHours)
		}

		assert.NotZero(t, tk.CreatedWeek)
		assert.Equal(t, tk.CreatedDate.Format("January 2006"), tk.CreatedMonth)
		assert.Equal(t, tk.CreatedDate.Weekday().String(), tk.CreatedWeekday)
	}
}

func TestGenerate_StatusMix(t *testing.T) {
	opts := fixedOpts()
	opts.Count = 2000
	tickets := Generate(opts)

	counts := make(map[string]int)
	for _, tk := range tickets {
		counts[tk.Status]++
	}
	resolvedShare := float64(counts[models.StatusResolved]) / float64(len(tickets))
	assert.InDelta(t, 0.85, resolvedShare, 0.05)
	assert.Positive(t, counts[models.StatusInProgress])
	assert.Positive(t, counts[models.StatusOpen])
}

func TestGenerate_Defaults(t *testing.T) {
	tickets := Generate(Options{Seed: 1})
	assert.Len(t, tickets, 500)
}
