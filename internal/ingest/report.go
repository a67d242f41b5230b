package ingest

import (
	"time"
)

// Condition kinds collected during an import. Record-level problems never
// abort a batch; they are gathered here and surfaced to the caller.
const (
	ConditionMissingRequiredField = "MissingRequiredField"
	ConditionUnparsableDate       = "UnparsableDate"
	ConditionInvalidResolution    = "InvalidResolutionTime"
	ConditionUnknownPriority      = "UnknownPriority"
	ConditionDuplicateIdentifier  = "DuplicateIdentifier"
	ConditionOpenWithResolvedDate = "OpenWithResolvedDate"
)

// Import report statuses. StatusEmpty means zero records were accepted,
// which the presentation layer must render distinctly from a normal
// empty-filter result.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
)

// Rejection records one dropped input row and why.
type Rejection struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Warning records a repaired or suspicious value on a row that survived.
type Warning struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Duplicate records a later-occurring reuse of a ticket_id. The first
// occurrence stays in the collection.
type Duplicate struct {
	Row      int    `json:"row"`
	TicketID string `json:"ticket_id"`
}

// ImportReport is the batch-level summary the ingestion boundary returns.
type ImportReport struct {
	BatchID        string      `json:"batch_id"`
	Source         string      `json:"source"`
	Status         string      `json:"status"`
	Accepted       int         `json:"accepted"`
	Rejected       int         `json:"rejected"`
	Rejections     []Rejection `json:"rejections,omitempty"`
	Warnings       []Warning   `json:"warnings,omitempty"`
	Duplicates     []Duplicate `json:"duplicates,omitempty"`
	DateRangeStart *time.Time  `json:"date_range_start,omitempty"`
	DateRangeEnd   *time.Time  `json:"date_range_end,omitempty"`
}
