package models

import "time"

// FilterSpec restricts a ticket collection before aggregation. A nil date or
// an empty set places no restriction on that dimension.
type FilterSpec struct {
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Priorities  []string   `json:"priorities,omitempty"`
	Teams       []string   `json:"teams,omitempty"`
	Statuses    []string   `json:"statuses,omitempty"`
	Technicians []string   `json:"technicians,omitempty"`
}

// IsZero reports whether the filter places no restriction at all.
func (f FilterSpec) IsZero() bool {
	return f.From == nil && f.To == nil &&
		len(f.Categories) == 0 && len(f.Priorities) == 0 &&
		len(f.Teams) == 0 && len(f.Statuses) == 0 && len(f.Technicians) == 0
}

// Matches reports whether the ticket passes every populated dimension.
// Date bounds are inclusive and compare against created_date only.
func (f FilterSpec) Matches(t Ticket) bool {
	if f.From != nil && t.CreatedDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.CreatedDate.After(*f.To) {
		return false
	}
	if !contains(f.Categories, t.Category) {
		return false
	}
	if !contains(f.Priorities, t.Priority) {
		return false
	}
	if !contains(f.Teams, t.AssignedTeam) {
		return false
	}
	if !contains(f.Statuses, t.Status) {
		return false
	}
	if !contains(f.Technicians, t.AssignedTechnician) {
		return false
	}
	return true
}

// contains treats an empty set as "match everything".
func contains(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// StoreFilter is the push-down filter the persistence adapter evaluates
// before records reach the field mapper. It is an optimization only: results
// must be identical to filtering after the fact.
type StoreFilter struct {
	From   *time.Time
	To     *time.Time
	Status string
}

// Granularity selects the bucket width for trend series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a user-supplied value to a Granularity, defaulting
// to daily buckets for anything unrecognized.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityWeek:
		return GranularityWeek
	case GranularityMonth:
		return GranularityMonth
	default:
		return GranularityDay
	}
}
