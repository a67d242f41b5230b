package models

import (
	"strings"
	"time"
)

// Priority levels recognized by the canonical schema.
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

// Priorities lists the recognized levels from most to least urgent. Result
// tables that key on priority are emitted in this order.
var Priorities = []string{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Statuses the analytics layer special-cases. Status is otherwise open-ended;
// anything a source sends survives cleaning as-is (title-cased).
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// Canonical field names. Every source column is resolved to one of these
// before cleaning.
const (
	FieldTicketID            = "ticket_id"
	FieldCreatedDate         = "created_date"
	FieldResolvedDate        = "resolved_date"
	FieldCategory            = "category"
	FieldPriority            = "priority"
	FieldAssignedTeam        = "assigned_team"
	FieldAssignedTechnician  = "assigned_technician"
	FieldStatus              = "status"
	FieldResolutionTimeHours = "resolution_time_hours"
)

// RequiredFields are the canonical fields a source must be able to supply.
// A record that cannot produce ticket_id, created_date or category is
// rejected; a missing team is repaired with UnassignedTeam instead so that
// minimal exports (id/date/status/category only) still import.
var RequiredFields = []string{
	FieldTicketID,
	FieldCreatedDate,
	FieldCategory,
	FieldAssignedTeam,
}

// UnassignedTeam is the team label substituted when a source has no team column.
const UnassignedTeam = "Unassigned"

// Ticket is the canonical record every source is normalized into.
type Ticket struct {
	TicketID            string     `json:"ticket_id" db:"ticket_id"`
	CreatedDate         time.Time  `json:"created_date" db:"created_date"`
	ResolvedDate        *time.Time `json:"resolved_date,omitempty" db:"resolved_date"`
	Category            string     `json:"category" db:"category"`
	Priority            string     `json:"priority" db:"priority"`
	AssignedTeam        string     `json:"assigned_team" db:"assigned_team"`
	AssignedTechnician  string     `json:"assigned_technician,omitempty" db:"assigned_technician"`
	Status              string     `json:"status" db:"status"`
	ResolutionTimeHours *float64   `json:"resolution_time_hours,omitempty" db:"resolution_time_hours"`
	CreatedWeek         int        `json:"created_week" db:"created_week"`
	CreatedMonth        string     `json:"created_month" db:"created_month"`
	CreatedWeekday      string     `json:"created_weekday" db:"created_weekday"`
}

// RawRecord is one unnormalized input row keyed by source column name.
type RawRecord map[string]string

// IsValidPriority reports whether p matches one of the four recognized
// priority levels, ignoring case.
func IsValidPriority(p string) bool {
	for _, known := range Priorities {
		if strings.EqualFold(p, known) {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether s counts as finished work. Both Resolved
// and Closed are terminal: summary counts, resolution rates and the report
// exporter all use this single convention so dashboard and report views
// cannot disagree.
func IsTerminalStatus(s string) bool {
	return s == StatusResolved || s == StatusClosed
}

// HasResolution reports whether the ticket carries a usable resolution time.
func (t *Ticket) HasResolution() bool {
	return t.ResolutionTimeHours != nil
}
