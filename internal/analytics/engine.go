package analytics

import (
	"math"
	"sort"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// Engine computes the analytics views over a cleaned ticket collection. It
// is stateless: Aggregate is a pure function of its inputs and safe to call
// concurrently.
type Engine struct {
	thresholds models.SLAThresholds
}

// NewEngine builds an engine parameterized by an SLA threshold table. A nil
// table uses the stock defaults.
func NewEngine(thresholds models.SLAThresholds) *Engine {
	if thresholds == nil {
		thresholds = models.DefaultSLAThresholds()
	}
	return &Engine{thresholds: thresholds}
}

// Filter returns the subset of tickets matching the filter, preserving input
// order. The input slice is never mutated.
func Filter(tickets []models.Ticket, filter models.FilterSpec) []models.Ticket {
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Aggregate filters the collection and computes every metric table. An
// empty (or fully filtered-out) input yields zero-valued tables with the
// empty status rather than an error, so dashboards stay renderable.
func (e *Engine) Aggregate(tickets []models.Ticket, filter models.FilterSpec, granularity models.Granularity) *models.AggregationResult {
	filtered := Filter(tickets, filter)

	res := &models.AggregationResult{
		Status:                models.AggregationOK,
		ByCategory:            []models.GroupCount{},
		ByPriority:            []models.GroupCount{},
		ByStatus:              []models.GroupCount{},
		ResolutionByPriority:  []models.ResolutionStats{},
		TeamPerformance:       []models.TeamPerformance{},
		TechnicianPerformance: []models.TechnicianPerformance{},
		SLACompliance:         []models.SLACompliance{},
		Trend: models.TrendSeries{
			Granularity: granularity,
			Points:      []models.TrendPoint{},
		},
	}

	if len(filtered) == 0 {
		res.Status = models.AggregationEmpty
		res.Summary = models.SummaryStats{DateRangeStart: "N/A", DateRangeEnd: "N/A", TopCategory: "N/A", BusiestDay: "N/A"}
		return res
	}

	res.ByCategory = groupCounts(filtered, func(t models.Ticket) string { return t.Category })
	res.ByPriority = groupCounts(filtered, func(t models.Ticket) string { return t.Priority })
	res.ByStatus = groupCounts(filtered, func(t models.Ticket) string { return t.Status })
	res.ResolutionByPriority = e.resolutionByPriority(filtered)
	res.TeamPerformance = e.teamPerformance(filtered)
	res.TechnicianPerformance = e.technicianPerformance(filtered)
	res.SLACompliance = e.slaCompliance(filtered)
	res.Trend = trendSeries(filtered, granularity)
	res.Summary = e.summary(filtered, res.ByCategory)

	return res
}

func (e *Engine) summary(tickets []models.Ticket, byCategory []models.GroupCount) models.SummaryStats {
	s := models.SummaryStats{TotalTickets: len(tickets)}

	var hours []float64
	minDate, maxDate := tickets[0].CreatedDate, tickets[0].CreatedDate
	for _, t := range tickets {
		switch {
		case models.IsTerminalStatus(t.Status):
			s.ResolvedTickets++
		case t.Status == models.StatusOpen:
			s.OpenTickets++
		case t.Status == models.StatusInProgress:
			s.InProgressTickets++
		}
		if t.HasResolution() {
			hours = append(hours, *t.ResolutionTimeHours)
		}
		if t.CreatedDate.Before(minDate) {
			minDate = t.CreatedDate
		}
		if t.CreatedDate.After(maxDate) {
			maxDate = t.CreatedDate
		}
	}

	s.ResolutionRatePct = round1(float64(s.ResolvedTickets) / float64(s.TotalTickets) * 100)
	if len(hours) > 0 {
		s.AvgResolutionHours = round2(mean(hours))
		s.MedianResolutionHours = round2(median(hours))
	}
	s.DateRangeStart = minDate.Format("2006-01-02")
	s.DateRangeEnd = maxDate.Format("2006-01-02")

	if len(byCategory) > 0 {
		s.TopCategory = byCategory[0].Label
	}
	byWeekday := groupCounts(tickets, func(t models.Ticket) string { return t.CreatedWeekday })
	if len(byWeekday) > 0 {
		s.BusiestDay = byWeekday[0].Label
	}
	return s
}

// groupCounts builds a grouped-count table sorted by count descending, label
// ascending. The label tie break keeps "most common" deterministic.
func groupCounts(tickets []models.Ticket, key func(models.Ticket) string) []models.GroupCount {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[key(t)]++
	}
	out := make([]models.GroupCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.GroupCount{
			Label:      label,
			Count:      n,
			Percentage: round1(float64(n) / float64(len(tickets)) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// resolutionByPriority summarizes resolution hours per priority, in canonical
// priority order. Only tickets carrying a resolution time contribute.
func (e *Engine) resolutionByPriority(tickets []models.Ticket) []models.ResolutionStats {
	byPriority := make(map[string][]float64)
	for _, t := range tickets {
		if t.HasResolution() {
			byPriority[t.Priority] = append(byPriority[t.Priority], *t.ResolutionTimeHours)
		}
	}

	out := make([]models.ResolutionStats, 0, len(byPriority))
	for _, priority := range priorityOrder(byPriority) {
		hours := byPriority[priority]
		row := models.ResolutionStats{
			Priority:    priority,
			AvgHours:    round2(mean(hours)),
			MedianHours: round2(median(hours)),
			MinHours:    round2(minOf(hours)),
			MaxHours:    round2(maxOf(hours)),
			Count:       len(hours),
		}
		if limit, ok := e.thresholds.Threshold(priority); ok {
			row.SLAThreshold = &limit
			within := 0
			for _, h := range hours {
				if h <= limit {
					within++
				}
			}
			pct := round1(float64(within) / float64(len(hours)) * 100)
			row.WithinSLAPct = &pct
		}
		out = append(out, row)
	}
	return out
}

func (e *Engine) teamPerformance(tickets []models.Ticket) []models.TeamPerformance {
	groups := groupBy(tickets, func(t models.Ticket) string { return t.AssignedTeam })

	out := make([]models.TeamPerformance, 0, len(groups))
	for team, members := range groups {
		row := models.TeamPerformance{Team: team}
		row.TotalTickets, row.ResolvedCount, row.ResolutionRatePct,
			row.AvgResolutionHours, row.MedianResolutionHours, row.SLACompliancePct = e.groupStats(members)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTickets != out[j].TotalTickets {
			return out[i].TotalTickets > out[j].TotalTickets
		}
		return out[i].Team < out[j].Team
	})
	return out
}

func (e *Engine) technicianPerformance(tickets []models.Ticket) []models.TechnicianPerformance {
	var assigned []models.Ticket
	for _, t := range tickets {
		if t.AssignedTechnician != "" {
			assigned = append(assigned, t)
		}
	}
	groups := groupBy(assigned, func(t models.Ticket) string { return t.AssignedTechnician })

	out := make([]models.TechnicianPerformance, 0, len(groups))
	for technician, members := range groups {
		row := models.TechnicianPerformance{
			Technician: technician,
			// groupBy preserves input order, so this is the technician's
			// first-seen team.
			Team: members[0].AssignedTeam,
		}
		row.TotalTickets, row.ResolvedCount, row.ResolutionRatePct,
			row.AvgResolutionHours, row.MedianResolutionHours, row.SLACompliancePct = e.groupStats(members)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTickets != out[j].TotalTickets {
			return out[i].TotalTickets > out[j].TotalTickets
		}
		return out[i].Technician < out[j].Technician
	})
	return out
}

// groupStats computes the shared per-group numbers. Tickets without a
// resolution time stay in the total but are excluded from the mean/median
// and compliance denominators; a group with none of them gets nil pointers,
// not zeroes.
func (e *Engine) groupStats(members []models.Ticket) (total, resolved int, ratePct float64, avg, med, slaPct *float64) {
	total = len(members)

	var hours []float64
	within, measured := 0, 0
	for _, t := range members {
		if models.IsTerminalStatus(t.Status) {
			resolved++
		}
		if !t.HasResolution() {
			continue
		}
		hours = append(hours, *t.ResolutionTimeHours)
		if ok, measurable := e.thresholds.WithinSLA(t.Priority, *t.ResolutionTimeHours); measurable {
			measured++
			if ok {
				within++
			}
		}
	}

	ratePct = round1(float64(resolved) / float64(total) * 100)
	if len(hours) > 0 {
		a, m := round2(mean(hours)), round2(median(hours))
		avg, med = &a, &m
	}
	if measured > 0 {
		p := round1(float64(within) / float64(measured) * 100)
		slaPct = &p
	}
	return total, resolved, ratePct, avg, med, slaPct
}

// slaCompliance computes per-priority compliance. Tickets lacking either a
// resolution time or a configured threshold are excluded from both sides of
// the division.
func (e *Engine) slaCompliance(tickets []models.Ticket) []models.SLACompliance {
	type tally struct{ within, measured int }
	tallies := make(map[string]*tally)

	for _, t := range tickets {
		if !t.HasResolution() {
			continue
		}
		ok, measurable := e.thresholds.WithinSLA(t.Priority, *t.ResolutionTimeHours)
		if !measurable {
			continue
		}
		tl := tallies[t.Priority]
		if tl == nil {
			tl = &tally{}
			tallies[t.Priority] = tl
		}
		tl.measured++
		if ok {
			tl.within++
		}
	}

	out := make([]models.SLACompliance, 0, len(tallies))
	for _, priority := range priorityOrder(tallies) {
		tl := tallies[priority]
		limit, _ := e.thresholds.Threshold(priority)
		out = append(out, models.SLACompliance{
			Priority:       priority,
			TotalMeasured:  tl.measured,
			WithinSLA:      tl.within,
			CompliancePct:  round1(float64(tl.within) / float64(tl.measured) * 100),
			ThresholdHours: limit,
		})
	}
	return out
}

// groupBy buckets tickets by key, preserving encounter order within each
// bucket.
func groupBy(tickets []models.Ticket, key func(models.Ticket) string) map[string][]models.Ticket {
	groups := make(map[string][]models.Ticket)
	for _, t := range tickets {
		k := key(t)
		groups[k] = append(groups[k], t)
	}
	return groups
}

// priorityOrder returns the keys of m in canonical priority order, with any
// non-standard priorities appended alphabetically.
func priorityOrder[V any](m map[string]V) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range models.Priorities {
		if _, ok := m[p]; ok {
			out = append(out, p)
			seen[p] = true
		}
	}
	var rest []string
	for p := range m {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
