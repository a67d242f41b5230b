package models

// SLAThresholds maps a priority level to the maximum acceptable resolution
// time in hours. It parameterizes the aggregation engine and never mutates
// ticket data.
type SLAThresholds map[string]float64

// DefaultSLAThresholds returns the stock service-level targets. Deployments
// override these via configuration.
func DefaultSLAThresholds() SLAThresholds {
	return SLAThresholds{
		PriorityCritical: 4,
		PriorityHigh:     8,
		PriorityMedium:   24,
		PriorityLow:      48,
	}
}

// Threshold returns the limit for a priority and whether one is configured.
func (s SLAThresholds) Threshold(priority string) (float64, bool) {
	v, ok := s[priority]
	return v, ok
}

// WithinSLA reports whether hours meets the threshold for priority. The
// second result is false when no threshold is configured for the priority,
// in which case the ticket is excluded from compliance math entirely.
func (s SLAThresholds) WithinSLA(priority string, hours float64) (bool, bool) {
	limit, ok := s[priority]
	if !ok {
		return false, false
	}
	return hours <= limit, true
}
