package models

// AggregationStatus distinguishes a normal result from one computed over an
// empty (or fully filtered-out) collection so the presentation layer can
// render the two differently.
const (
	AggregationOK    = "ok"
	AggregationEmpty = "empty"
)

// AggregationResult is the full set of metric tables one engine invocation
// produces. It is recomputed on every call and owned by the caller; the
// engine keeps no reference to it.
type AggregationResult struct {
	Status                string                  `json:"status"`
	Summary               SummaryStats            `json:"summary"`
	ByCategory            []GroupCount            `json:"by_category"`
	ByPriority            []GroupCount            `json:"by_priority"`
	ByStatus              []GroupCount            `json:"by_status"`
	ResolutionByPriority  []ResolutionStats       `json:"resolution_by_priority"`
	TeamPerformance       []TeamPerformance       `json:"team_performance"`
	TechnicianPerformance []TechnicianPerformance `json:"technician_performance"`
	SLACompliance         []SLACompliance         `json:"sla_compliance"`
	Trend                 TrendSeries             `json:"trend"`
}

// SummaryStats are the headline numbers shown at the top of the dashboard
// and the report's summary sheet.
type SummaryStats struct {
	TotalTickets          int     `json:"total_tickets"`
	ResolvedTickets       int     `json:"resolved_tickets"`
	OpenTickets           int     `json:"open_tickets"`
	InProgressTickets     int     `json:"in_progress_tickets"`
	ResolutionRatePct     float64 `json:"resolution_rate_pct"`
	AvgResolutionHours    float64 `json:"avg_resolution_hours"`
	MedianResolutionHours float64 `json:"median_resolution_hours"`
	DateRangeStart        string  `json:"date_range_start"`
	DateRangeEnd          string  `json:"date_range_end"`
	TopCategory           string  `json:"top_category"`
	BusiestDay            string  `json:"busiest_day"`
}

// GroupCount is one row of a grouped-count table (category, priority or
// status breakdown).
type GroupCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ResolutionStats summarizes resolution times for one priority level against
// its SLA threshold. Count covers only tickets carrying a resolution time.
type ResolutionStats struct {
	Priority     string   `json:"priority"`
	AvgHours     float64  `json:"avg_hours"`
	MedianHours  float64  `json:"median_hours"`
	MinHours     float64  `json:"min_hours"`
	MaxHours     float64  `json:"max_hours"`
	Count        int      `json:"count"`
	SLAThreshold *float64 `json:"sla_threshold,omitempty"`
	WithinSLAPct *float64 `json:"within_sla_pct,omitempty"`
}

// TeamPerformance is one row of the per-team table. Resolution averages and
// the compliance rate are nil when no ticket in the group carries a
// resolution time; those tickets still count toward TotalTickets.
type TeamPerformance struct {
	Team                  string   `json:"team"`
	TotalTickets          int      `json:"total_tickets"`
	ResolvedCount         int      `json:"resolved_count"`
	ResolutionRatePct     float64  `json:"resolution_rate_pct"`
	AvgResolutionHours    *float64 `json:"avg_resolution_hours,omitempty"`
	MedianResolutionHours *float64 `json:"median_resolution_hours,omitempty"`
	SLACompliancePct      *float64 `json:"sla_compliance_pct,omitempty"`
}

// TechnicianPerformance mirrors TeamPerformance for individual technicians.
type TechnicianPerformance struct {
	Technician            string   `json:"technician"`
	Team                  string   `json:"team"`
	TotalTickets          int      `json:"total_tickets"`
	ResolvedCount         int      `json:"resolved_count"`
	ResolutionRatePct     float64  `json:"resolution_rate_pct"`
	AvgResolutionHours    *float64 `json:"avg_resolution_hours,omitempty"`
	MedianResolutionHours *float64 `json:"median_resolution_hours,omitempty"`
	SLACompliancePct      *float64 `json:"sla_compliance_pct,omitempty"`
}

// SLACompliance is one row of the compliance table. TotalMeasured counts
// only tickets with both a configured threshold and a resolution time;
// tickets missing either are excluded from numerator and denominator.
type SLACompliance struct {
	Priority       string  `json:"priority"`
	TotalMeasured  int     `json:"total_measured"`
	WithinSLA      int     `json:"within_sla"`
	CompliancePct  float64 `json:"compliance_pct"`
	ThresholdHours float64 `json:"threshold_hours"`
}

// TrendSeries is a contiguous time series of ticket counts. Buckets with no
// tickets are zero-filled across the observed created_date range so charts
// never skip intervals.
type TrendSeries struct {
	Granularity Granularity  `json:"granularity"`
	Points      []TrendPoint `json:"points"`
}

// TrendPoint is one bucket of the trend series. Bucket is a sortable key
// ("2024-01-15", "2024-W03", "2024-01"); Label is the display form.
type TrendPoint struct {
	Bucket string `json:"bucket"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}
