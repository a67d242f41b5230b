package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gotrs-io/gotrs-insights/internal/logger"
	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// insertChunkSize keeps multi-row inserts well under driver placeholder
// limits (12 columns per row).
const insertChunkSize = 100

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLTicketRepository persists tickets in a relational table. All queries
// are parameterized; the table name is the only interpolated piece and is
// validated as a bare identifier at construction.
type SQLTicketRepository struct {
	db    *sqlx.DB
	table string
	log   logger.Logger
}

// NewSQLTicketRepository wraps an open connection. An empty table name
// defaults to "tickets".
func NewSQLTicketRepository(db *sqlx.DB, table string, log logger.Logger) (*SQLTicketRepository, error) {
	if table == "" {
		table = "tickets"
	}
	if !identifierRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &SQLTicketRepository{db: db, table: table, log: log}, nil
}

// dbTicket mirrors the tickets table for sqlx scanning and named inserts.
type dbTicket struct {
	TicketID            string          `db:"ticket_id"`
	CreatedDate         time.Time       `db:"created_date"`
	ResolvedDate        *time.Time      `db:"resolved_date"`
	Category            string          `db:"category"`
	Priority            string          `db:"priority"`
	AssignedTeam        string          `db:"assigned_team"`
	AssignedTechnician  sql.NullString  `db:"assigned_technician"`
	Status              string          `db:"status"`
	ResolutionTimeHours sql.NullFloat64 `db:"resolution_time_hours"`
	CreatedWeek         int             `db:"created_week"`
	CreatedMonth        string          `db:"created_month"`
	CreatedWeekday      string          `db:"created_weekday"`
}

// EnsureSchema creates the tickets table and its indexes when missing.
func (r *SQLTicketRepository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ticket_id             VARCHAR(50)  NOT NULL PRIMARY KEY,
		created_date          DATETIME     NOT NULL,
		resolved_date         DATETIME     NULL,
		category              VARCHAR(100) NOT NULL,
		priority              VARCHAR(50)  NOT NULL,
		assigned_team         VARCHAR(100) NOT NULL,
		assigned_technician   VARCHAR(100) NULL,
		status                VARCHAR(50)  NOT NULL,
		resolution_time_hours DOUBLE       NULL,
		created_week          INT          NOT NULL,
		created_month         VARCHAR(20)  NOT NULL,
		created_weekday       VARCHAR(20)  NOT NULL,
		INDEX idx_created_date (created_date),
		INDEX idx_status (status),
		INDEX idx_priority (priority),
		INDEX idx_assigned_team (assigned_team)
	)`, r.table)

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return timeoutErr(ctx, fmt.Errorf("failed to ensure schema for %s: %w", r.table, err))
	}
	return nil
}

// Load reads raw records with the date range and status filter evaluated by
// the store. Ordering is fixed so repeated loads of the same data are
// identical.
func (r *SQLTicketRepository) Load(ctx context.Context, filter models.StoreFilter) ([]models.RawRecord, error) {
	query := fmt.Sprintf("SELECT ticket_id, created_date, resolved_date, category, priority, assigned_team, assigned_technician, status, resolution_time_hours, created_week, created_month, created_weekday FROM %s", r.table)
	var (
		conditions []string
		args       []interface{}
	)
	if filter.From != nil {
		conditions = append(conditions, "created_date >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "created_date <= ?")
		args = append(args, *filter.To)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_date, ticket_id"

	var rows []dbTicket
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, timeoutErr(ctx, fmt.Errorf("failed to load tickets: %w", err))
	}

	records := make([]models.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRaw())
	}
	r.log.Debug("loaded tickets from store", "count", len(records))
	return records, nil
}

// Insert writes the collection in one transaction. Replace mode deletes the
// prior collection inside the same transaction, so readers never observe a
// partial state; on any error (timeouts included) the transaction rolls
// back and nothing is written.
func (r *SQLTicketRepository) Insert(ctx context.Context, tickets []models.Ticket, mode InsertMode) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, timeoutErr(ctx, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if mode == InsertReplace {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table)); err != nil {
			return 0, timeoutErr(ctx, fmt.Errorf("failed to clear %s: %w", r.table, err))
		}
	}

	insert := fmt.Sprintf(`INSERT INTO %s (
		ticket_id, created_date, resolved_date, category, priority,
		assigned_team, assigned_technician, status, resolution_time_hours,
		created_week, created_month, created_weekday
	) VALUES (
		:ticket_id, :created_date, :resolved_date, :category, :priority,
		:assigned_team, :assigned_technician, :status, :resolution_time_hours,
		:created_week, :created_month, :created_weekday
	)`, r.table)

	inserted := 0
	for start := 0; start < len(tickets); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(tickets) {
			end = len(tickets)
		}
		chunk := make([]dbTicket, 0, end-start)
		for _, t := range tickets[start:end] {
			chunk = append(chunk, fromModel(t))
		}
		if _, err := tx.NamedExecContext(ctx, insert, chunk); err != nil {
			return 0, timeoutErr(ctx, fmt.Errorf("failed to insert tickets: %w", err))
		}
		inserted += len(chunk)
	}

	if err := tx.Commit(); err != nil {
		return 0, timeoutErr(ctx, fmt.Errorf("failed to commit insert: %w", err))
	}
	r.log.Info("inserted tickets", "count", inserted, "mode", string(mode))
	return inserted, nil
}

// TestConnection checks store reachability.
func (r *SQLTicketRepository) TestConnection(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return timeoutErr(ctx, fmt.Errorf("store connection failed: %w", err))
	}
	return nil
}

// TableStats returns the stored row count and created_date range.
func (r *SQLTicketRepository) TableStats(ctx context.Context) (*TableStats, error) {
	query := fmt.Sprintf("SELECT COUNT(*) AS row_count, MIN(created_date) AS min_created, MAX(created_date) AS max_created FROM %s", r.table)

	var row struct {
		RowCount   int        `db:"row_count"`
		MinCreated *time.Time `db:"min_created"`
		MaxCreated *time.Time `db:"max_created"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, timeoutErr(ctx, fmt.Errorf("failed to read table stats: %w", err))
	}
	return &TableStats{RowCount: row.RowCount, MinCreated: row.MinCreated, MaxCreated: row.MaxCreated}, nil
}

func fromModel(t models.Ticket) dbTicket {
	row := dbTicket{
		TicketID:       t.TicketID,
		CreatedDate:    t.CreatedDate,
		ResolvedDate:   t.ResolvedDate,
		Category:       t.Category,
		Priority:       t.Priority,
		AssignedTeam:   t.AssignedTeam,
		Status:         t.Status,
		CreatedWeek:    t.CreatedWeek,
		CreatedMonth:   t.CreatedMonth,
		CreatedWeekday: t.CreatedWeekday,
	}
	if t.AssignedTechnician != "" {
		row.AssignedTechnician = sql.NullString{String: t.AssignedTechnician, Valid: true}
	}
	if t.ResolutionTimeHours != nil {
		row.ResolutionTimeHours = sql.NullFloat64{Float64: *t.ResolutionTimeHours, Valid: true}
	}
	return row
}

// toRaw renders a stored row back into the raw-record shape the pipeline
// ingests, closing the loop: store reads pass through the same mapper and
// cleaner as file reads.
func (row dbTicket) toRaw() models.RawRecord {
	rec := models.RawRecord{
		models.FieldTicketID:     row.TicketID,
		models.FieldCreatedDate:  row.CreatedDate.Format("2006-01-02 15:04:05"),
		models.FieldCategory:     row.Category,
		models.FieldPriority:     row.Priority,
		models.FieldAssignedTeam: row.AssignedTeam,
		models.FieldStatus:       row.Status,
	}
	if row.ResolvedDate != nil {
		rec[models.FieldResolvedDate] = row.ResolvedDate.Format("2006-01-02 15:04:05")
	}
	if row.AssignedTechnician.Valid {
		rec[models.FieldAssignedTechnician] = row.AssignedTechnician.String
	}
	if row.ResolutionTimeHours.Valid {
		rec[models.FieldResolutionTimeHours] = strconv.FormatFloat(row.ResolutionTimeHours.Float64, 'f', -1, 64)
	}
	return rec
}
