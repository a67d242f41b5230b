package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLTicketRepository_TableName(t *testing.T) {
	t.Run("empty defaults to tickets", func(t *testing.T) {
		repo, err := NewSQLTicketRepository(nil, "", nil)
		require.NoError(t, err)
		assert.Equal(t, "tickets", repo.table)
	})

	t.Run("bare identifiers accepted", func(t *testing.T) {
		for _, name := range []string{"tickets", "Tickets_2024", "_staging"} {
			_, err := NewSQLTicketRepository(nil, name, nil)
			assert.NoError(t, err, name)
		}
	})

	t.Run("anything else rejected", func(t *testing.T) {
		for _, name := range []string{"tickets; DROP TABLE x", "a.b", "1tickets", "tick ets", "`tickets`"} {
			_, err := NewSQLTicketRepository(nil, name, nil)
			assert.Error(t, err, name)
		}
	})
}
