package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// InsertMode selects between whole-collection overwrite and incremental
// addition at the persistence boundary.
type InsertMode string

const (
	InsertReplace InsertMode = "replace"
	InsertAppend  InsertMode = "append"
)

// ParseInsertMode validates a user-supplied mode string.
func ParseInsertMode(s string) (InsertMode, error) {
	switch InsertMode(s) {
	case InsertReplace, InsertAppend:
		return InsertMode(s), nil
	default:
		return "", errors.New("insert mode must be \"replace\" or \"append\"")
	}
}

// ErrIngestionTimeout marks a store call that hit the caller-supplied
// deadline. No partial write survives it.
var ErrIngestionTimeout = errors.New("ingestion timed out")

// TableStats describes the stored collection.
type TableStats struct {
	RowCount   int        `json:"row_count"`
	MinCreated *time.Time `json:"min_created,omitempty"`
	MaxCreated *time.Time `json:"max_created,omitempty"`
}

// TicketRepository is the persistence adapter boundary. The core never
// issues raw queries itself; this is the whole surface it relies on.
type TicketRepository interface {
	// Load reads raw records, applying the push-down filter at the store.
	Load(ctx context.Context, filter models.StoreFilter) ([]models.RawRecord, error)
	// Insert writes the collection. Replace mode is atomic from the
	// caller's perspective: concurrent readers see either the old or the
	// new collection, never an interleaving.
	Insert(ctx context.Context, tickets []models.Ticket, mode InsertMode) (int, error)
	// TestConnection checks reachability.
	TestConnection(ctx context.Context) error
	// TableStats returns the stored row count and created_date range.
	TableStats(ctx context.Context) (*TableStats, error)
}

// timeoutErr maps a context deadline hit onto the ingestion-timeout
// condition; other errors pass through unchanged.
func timeoutErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrIngestionTimeout, err)
	}
	return err
}
