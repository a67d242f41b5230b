package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// Stock reference data for generated tickets. Deployments only use the
// generator for demos and load testing, so these are not configurable.
var (
	categories = []string{
		"Hardware", "Software", "Network", "Access Request",
		"Email", "Password Reset", "Other",
	}
	categoryWeights = []int{15, 25, 10, 15, 10, 20, 5}

	priorityWeights = []int{10, 20, 40, 30} // Critical, High, Medium, Low

	teams = []string{"Service Desk", "Desktop Support", "Network Team", "Systems Admin"}

	// Per-category affinity for the four teams, same order as teams.
	teamWeights = map[string][]int{
		"Hardware":       {10, 70, 10, 10},
		"Software":       {30, 50, 5, 15},
		"Network":        {5, 10, 80, 5},
		"Access Request": {20, 10, 10, 60},
		"Email":          {40, 30, 10, 20},
		"Password Reset": {80, 10, 5, 5},
		"Other":          {50, 20, 15, 15},
	}

	technicians = map[string][]string{
		"Service Desk":    {"Alice Johnson", "Bob Smith", "Carol White", "David Brown"},
		"Desktop Support": {"Emma Davis", "Frank Miller", "Grace Lee", "Henry Wilson"},
		"Network Team":    {"Ivy Martinez", "Jack Taylor", "Karen Anderson", "Leo Thomas"},
		"Systems Admin":   {"Maria Garcia", "Nathan Moore", "Olivia Jackson", "Paul Martinez"},
	}
)

// Options controls one generation run. A fixed Seed and Now produce an
// identical collection, which tests rely on.
type Options struct {
	Count    int
	DaysBack int
	Seed     int64
	Now      time.Time
}

// Generate produces a realistic mock ticket collection: business-hours
// creation times, weighted categories and priorities, team affinity per
// category, and resolution times correlated with the priority's SLA target.
// Roughly 85% of tickets are resolved, 10% in progress, 5% open.
func Generate(opts Options) []models.Ticket {
	if opts.Count <= 0 {
		opts.Count = 500
	}
	if opts.DaysBack <= 0 {
		opts.DaysBack = 90
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	thresholds := models.DefaultSLAThresholds()
	start := opts.Now.AddDate(0, 0, -opts.DaysBack)

	tickets := make([]models.Ticket, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		created := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rng.Intn(opts.DaysBack+1)).
			Add(time.Duration(8+rng.Intn(10)) * time.Hour).
			Add(time.Duration(rng.Intn(60)) * time.Minute)

		category := weightedChoice(rng, categories, categoryWeights)
		priority := weightedChoice(rng, models.Priorities, priorityWeights)
		team := weightedChoice(rng, teams, teamWeights[category])
		technician := technicians[team][rng.Intn(len(technicians[team]))]

		t := models.Ticket{
			TicketID:           fmt.Sprintf("TKT-%05d", 10000+i),
			CreatedDate:        created,
			Category:           category,
			Priority:           priority,
			AssignedTeam:       team,
			AssignedTechnician: technician,
		}

		switch roll := rng.Float64(); {
		case roll < 0.85:
			t.Status = models.StatusResolved
			base := thresholds[priority]
			hours := math.Max(0.5, rng.NormFloat64()*base*0.3+base*0.7)
			hours = math.Round(hours*100) / 100
			resolved := created.Add(time.Duration(hours * float64(time.Hour)))
			t.ResolvedDate = &resolved
			t.ResolutionTimeHours = &hours
		case roll < 0.95:
			t.Status = models.StatusInProgress
		default:
			t.Status = models.StatusOpen
		}

		_, week := created.ISOWeek()
		t.CreatedWeek = week
		t.CreatedMonth = created.Format("January 2006")
		t.CreatedWeekday = created.Weekday().String()

		tickets = append(tickets, t)
	}
	return tickets
}

func weightedChoice(rng *rand.Rand, values []string, weights []int) string {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := rng.Intn(total)
	for i, w := range weights {
		if roll < w {
			return values[i]
		}
		roll -= w
	}
	return values[len(values)-1]
}
