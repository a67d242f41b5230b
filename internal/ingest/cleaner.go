package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// dateLayouts are tried in order. ISO forms first, then the MM/DD/YYYY
// locale form common in helpdesk exports.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Cleaner turns one mapped raw record into a canonical Ticket, or rejects it
// with a reason. Defaults are injected so the cleaner stays referentially
// transparent and independently testable.
type Cleaner struct {
	defaultPriority string
}

// NewCleaner builds a Cleaner. An empty defaultPriority falls back to Medium.
func NewCleaner(defaultPriority string) *Cleaner {
	if !models.IsValidPriority(defaultPriority) {
		defaultPriority = models.PriorityMedium
	}
	return &Cleaner{defaultPriority: canonicalPriority(defaultPriority)}
}

// Clean validates, coerces and enriches one mapped record. On success it
// returns the Ticket plus any data-quality warnings; on failure the third
// result carries the rejection reason. A record is rejected only when a
// required field cannot be produced.
func (c *Cleaner) Clean(row int, rec models.RawRecord) (*models.Ticket, []Warning, *Rejection) {
	var warnings []Warning
	title := cases.Title(language.English)

	id := strings.TrimSpace(rec[models.FieldTicketID])
	if id == "" {
		return nil, warnings, &Rejection{
			Row: row, Field: models.FieldTicketID,
			Kind: ConditionMissingRequiredField, Reason: "ticket_id is missing",
		}
	}

	createdRaw := strings.TrimSpace(rec[models.FieldCreatedDate])
	if createdRaw == "" {
		return nil, warnings, &Rejection{
			Row: row, Field: models.FieldCreatedDate,
			Kind: ConditionMissingRequiredField, Reason: "created_date is missing",
		}
	}
	created, err := ParseDate(createdRaw)
	if err != nil {
		return nil, warnings, &Rejection{
			Row: row, Field: models.FieldCreatedDate,
			Kind: ConditionUnparsableDate, Reason: fmt.Sprintf("unparsable created_date %q", createdRaw),
		}
	}

	category := strings.TrimSpace(rec[models.FieldCategory])
	if category == "" {
		return nil, warnings, &Rejection{
			Row: row, Field: models.FieldCategory,
			Kind: ConditionMissingRequiredField, Reason: "category is missing",
		}
	}

	team := strings.TrimSpace(rec[models.FieldAssignedTeam])
	if team == "" {
		// Minimal exports carry no team column at all; repair rather than
		// reject so those files still import, and flag it.
		team = models.UnassignedTeam
		warnings = append(warnings, Warning{
			Row: row, Field: models.FieldAssignedTeam,
			Kind:    ConditionMissingRequiredField,
			Message: "assigned_team missing; defaulted to " + models.UnassignedTeam,
		})
	} else {
		team = title.String(strings.ToLower(team))
	}

	t := &models.Ticket{
		TicketID:           id,
		CreatedDate:        created,
		Category:           title.String(strings.ToLower(category)),
		AssignedTeam:       team,
		AssignedTechnician: title.String(strings.ToLower(strings.TrimSpace(rec[models.FieldAssignedTechnician]))),
		Status:             title.String(strings.ToLower(strings.TrimSpace(rec[models.FieldStatus]))),
	}

	t.Priority, warnings = c.cleanPriority(row, rec[models.FieldPriority], warnings)

	if raw := strings.TrimSpace(rec[models.FieldResolvedDate]); raw != "" {
		resolved, err := ParseDate(raw)
		switch {
		case err != nil:
			warnings = append(warnings, Warning{
				Row: row, Field: models.FieldResolvedDate,
				Kind:    ConditionUnparsableDate,
				Message: fmt.Sprintf("unparsable resolved_date %q; left empty", raw),
			})
		case resolved.Before(created):
			warnings = append(warnings, Warning{
				Row: row, Field: models.FieldResolvedDate,
				Kind:    ConditionInvalidResolution,
				Message: "resolved_date precedes created_date; left empty",
			})
		default:
			t.ResolvedDate = &resolved
		}
	}

	t.ResolutionTimeHours, warnings = c.cleanResolutionHours(row, rec[models.FieldResolutionTimeHours], t, warnings)

	if t.ResolvedDate != nil && t.Status != "" && !models.IsTerminalStatus(t.Status) {
		warnings = append(warnings, Warning{
			Row: row, Field: models.FieldStatus,
			Kind:    ConditionOpenWithResolvedDate,
			Message: fmt.Sprintf("status %q with resolved_date set", t.Status),
		})
	}

	_, week := created.ISOWeek()
	t.CreatedWeek = week
	t.CreatedMonth = created.Format("January 2006")
	t.CreatedWeekday = created.Weekday().String()

	return t, warnings, nil
}

// cleanPriority applies the Medium default. Absence is not a data-quality
// problem; an explicit unrecognized value is.
func (c *Cleaner) cleanPriority(row int, raw string, warnings []Warning) (string, []Warning) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return c.defaultPriority, warnings
	}
	if models.IsValidPriority(p) {
		return canonicalPriority(p), warnings
	}
	warnings = append(warnings, Warning{
		Row: row, Field: models.FieldPriority,
		Kind:    ConditionUnknownPriority,
		Message: fmt.Sprintf("unrecognized priority %q; defaulted to %s", p, c.defaultPriority),
	})
	return c.defaultPriority, warnings
}

// cleanResolutionHours coerces a supplied value to a non-negative float, or
// derives the hour difference when both dates are known. Negative values are
// discarded with a warning, never sign-flipped.
func (c *Cleaner) cleanResolutionHours(row int, raw string, t *models.Ticket, warnings []Warning) (*float64, []Warning) {
	if s := strings.TrimSpace(raw); s != "" {
		hours, err := strconv.ParseFloat(s, 64)
		switch {
		case err != nil:
			warnings = append(warnings, Warning{
				Row: row, Field: models.FieldResolutionTimeHours,
				Kind:    ConditionInvalidResolution,
				Message: fmt.Sprintf("non-numeric resolution_time_hours %q; left empty", s),
			})
		case hours < 0:
			warnings = append(warnings, Warning{
				Row: row, Field: models.FieldResolutionTimeHours,
				Kind:    ConditionInvalidResolution,
				Message: fmt.Sprintf("negative resolution_time_hours %v; left empty", hours),
			})
		default:
			return &hours, warnings
		}
	}

	if t.ResolvedDate != nil {
		hours := t.ResolvedDate.Sub(t.CreatedDate).Hours()
		return &hours, warnings
	}
	return nil, warnings
}

// ParseDate accepts ISO dates/datetimes and the MM/DD/YYYY locale form.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// canonicalPriority normalizes case variants onto the canonical spelling.
func canonicalPriority(p string) string {
	for _, known := range models.Priorities {
		if strings.EqualFold(p, known) {
			return known
		}
	}
	return models.PriorityMedium
}
