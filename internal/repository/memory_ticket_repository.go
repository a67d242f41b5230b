package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// MemoryTicketRepository is an in-memory TicketRepository used by tests and
// as an offline backend. It mirrors the SQL implementation's semantics:
// replace is atomic, append fails on duplicate identifiers, loads are
// ordered by created_date then ticket_id.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets []models.Ticket
}

// NewMemoryTicketRepository returns an empty in-memory store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{}
}

func (r *MemoryTicketRepository) Load(ctx context.Context, filter models.StoreFilter) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, timeoutErr(ctx, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if filter.From != nil && t.CreatedDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.CreatedDate.After(*filter.To) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedDate.Equal(matched[j].CreatedDate) {
			return matched[i].CreatedDate.Before(matched[j].CreatedDate)
		}
		return matched[i].TicketID < matched[j].TicketID
	})

	records := make([]models.RawRecord, 0, len(matched))
	for _, t := range matched {
		records = append(records, fromModel(t).toRaw())
	}
	return records, nil
}

func (r *MemoryTicketRepository) Insert(ctx context.Context, tickets []models.Ticket, mode InsertMode) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, timeoutErr(ctx, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.tickets
	if mode == InsertReplace {
		existing = nil
	}

	seen := make(map[string]bool, len(existing)+len(tickets))
	for _, t := range existing {
		seen[t.TicketID] = true
	}
	// Validate the whole batch before touching state so a failure leaves the
	// prior collection intact, like the SQL transaction does.
	for _, t := range tickets {
		if seen[t.TicketID] {
			return 0, fmt.Errorf("duplicate ticket_id %q", t.TicketID)
		}
		seen[t.TicketID] = true
	}

	r.tickets = append(existing, tickets...)
	return len(tickets), nil
}

func (r *MemoryTicketRepository) TestConnection(ctx context.Context) error {
	return timeoutErr(ctx, ctx.Err())
}

func (r *MemoryTicketRepository) TableStats(ctx context.Context) (*TableStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, timeoutErr(ctx, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &TableStats{RowCount: len(r.tickets)}
	for i := range r.tickets {
		created := r.tickets[i].CreatedDate
		if stats.MinCreated == nil || created.Before(*stats.MinCreated) {
			c := created
			stats.MinCreated = &c
		}
		if stats.MaxCreated == nil || created.After(*stats.MaxCreated) {
			c := created
			stats.MaxCreated = &c
		}
	}
	return stats, nil
}
