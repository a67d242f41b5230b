package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-insights/internal/analytics"
	"github.com/gotrs-io/gotrs-insights/internal/ingest"
	"github.com/gotrs-io/gotrs-insights/internal/models"
	"github.com/gotrs-io/gotrs-insights/internal/report"
)

// handleAggregation runs the engine over the current collection restricted
// by query-string filters and returns every metric table. An empty result
// carries status "empty" so the dashboard can distinguish "no data loaded"
// from "filter matched nothing".
func (s *Server) handleAggregation(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	granularity := models.ParseGranularity(c.Query("granularity"))

	tickets, _ := s.snapshot()

	start := time.Now()
	result := s.currentEngine().Aggregate(tickets, filter, granularity)
	aggregationSeconds.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, result)
}

// handleTicketsCSV streams the filtered collection as canonical-schema CSV.
func (s *Server) handleTicketsCSV(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tickets, _ := s.snapshot()
	filtered := analytics.Filter(tickets, filter)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="tickets.csv"`)
	if err := report.WriteCSV(c.Writer, filtered); err != nil {
		s.log.Error("csv export failed", "error", err)
	}
}

// handleImportSummary returns the report of the last ingestion run.
func (s *Server) handleImportSummary(c *gin.Context) {
	_, rep := s.snapshot()
	if rep == nil {
		c.JSON(http.StatusOK, gin.H{"status": "no import yet"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// parseFilter reads the FilterSpec from the query string. Multi-value
// dimensions repeat the parameter (?category=Hardware&category=Software).
func parseFilter(c *gin.Context) (models.FilterSpec, error) {
	var filter models.FilterSpec
	if from := c.Query("from"); from != "" {
		ts, err := ingest.ParseDate(from)
		if err != nil {
			return filter, err
		}
		filter.From = &ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := ingest.ParseDate(to)
		if err != nil {
			return filter, err
		}
		filter.To = &ts
	}
	filter.Categories = c.QueryArray("category")
	filter.Priorities = c.QueryArray("priority")
	filter.Teams = c.QueryArray("team")
	filter.Statuses = c.QueryArray("status")
	filter.Technicians = c.QueryArray("technician")
	return filter, nil
}
