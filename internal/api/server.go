package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gotrs-io/gotrs-insights/internal/analytics"
	"github.com/gotrs-io/gotrs-insights/internal/ingest"
	"github.com/gotrs-io/gotrs-insights/internal/logger"
	"github.com/gotrs-io/gotrs-insights/internal/models"
	"github.com/gotrs-io/gotrs-insights/internal/repository"
)

// Server is the read-only presentation boundary: it holds the last ingested
// collection and runs the aggregation engine per request. It never mutates
// tickets; re-ingestion swaps the whole collection atomically.
type Server struct {
	engine *analytics.Engine
	repo   repository.TicketRepository
	log    logger.Logger

	mu      sync.RWMutex
	tickets []models.Ticket
	report  *ingest.ImportReport
}

// NewServer builds the API over an engine and an optional store (used only
// by the health endpoint; a nil repo reports "not configured").
func NewServer(engine *analytics.Engine, repo repository.TicketRepository, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{engine: engine, repo: repo, log: log}
}

// SetEngine swaps the aggregation engine, picking up reloaded SLA thresholds
// without dropping the served collection.
func (s *Server) SetEngine(engine *analytics.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine
}

func (s *Server) currentEngine() *analytics.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SetCollection replaces the served collection and its import report.
func (s *Server) SetCollection(tickets []models.Ticket, report *ingest.ImportReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
	s.report = report
	observeImport(report)
}

func (s *Server) snapshot() ([]models.Ticket, *ingest.ImportReport) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickets, s.report
}

// Routes builds the gin handler tree.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/metrics", s.handleAggregation)
		v1.GET("/tickets.csv", s.handleTicketsCSV)
		v1.GET("/import/summary", s.handleImportSummary)
	}
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	store := "not configured"
	if s.repo != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := s.repo.TestConnection(ctx); err != nil {
			store = "unreachable"
		} else {
			store = "ok"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": store})
}
