package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gotrs-io/gotrs-insights/internal/analytics"
	"github.com/gotrs-io/gotrs-insights/internal/api"
	"github.com/gotrs-io/gotrs-insights/internal/config"
	"github.com/gotrs-io/gotrs-insights/internal/database"
	"github.com/gotrs-io/gotrs-insights/internal/ingest"
	"github.com/gotrs-io/gotrs-insights/internal/logger"
	"github.com/gotrs-io/gotrs-insights/internal/models"
	"github.com/gotrs-io/gotrs-insights/internal/report"
	"github.com/gotrs-io/gotrs-insights/internal/repository"
	"github.com/gotrs-io/gotrs-insights/internal/seed"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string

	inputFlag       string
	outputFlag      string
	formatFlag      string
	granularityFlag string
	modeFlag        string
	timeoutFlag     time.Duration
	countFlag       int
	daysFlag        int
	seedFlag        int64
	storeFlag       bool
	addrFlag        string
)

var rootCmd = &cobra.Command{
	Use:     "gotrs-insights",
	Short:   "IT ticket analytics - ingestion, SLA metrics and reporting",
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	Long: `gotrs-insights ingests IT support ticket exports (CSV/XLSX) or a ticket
store, normalizes them into one canonical schema, and computes volume,
resolution-time, SLA-compliance and trend analytics for reports and
dashboards.`,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Ingest a ticket file and write the Excel/CSV analytics report",
	RunE:  runReport,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Ingest a ticket file and write it to the store",
	RunE:  runLoad,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check store connectivity and print table stats",
	RunE:  runPing,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate mock ticket data to a CSV file",
	RunE:  runSeed,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only analytics API over the stored collection",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs", "Directory containing default.yaml")

	reportCmd.Flags().StringVar(&inputFlag, "input", "", "Input ticket file (CSV or XLSX) (required)")
	reportCmd.Flags().StringVar(&outputFlag, "output", "output", "Output directory for the generated report")
	reportCmd.Flags().StringVar(&formatFlag, "format", "both", "Report format: xlsx, csv or both")
	reportCmd.Flags().StringVar(&granularityFlag, "granularity", "day", "Trend bucket width: day, week or month")
	reportCmd.MarkFlagRequired("input")

	loadCmd.Flags().StringVar(&inputFlag, "input", "", "Input ticket file (CSV or XLSX) (required)")
	loadCmd.Flags().StringVar(&modeFlag, "mode", "replace", "Insert mode: replace or append")
	loadCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Store write timeout (default from config)")
	loadCmd.MarkFlagRequired("input")

	seedCmd.Flags().IntVar(&countFlag, "count", 500, "Number of tickets to generate")
	seedCmd.Flags().IntVar(&daysFlag, "days", 90, "Days of history to generate")
	seedCmd.Flags().Int64Var(&seedFlag, "seed", 0, "Random seed (0 = time-based)")
	seedCmd.Flags().StringVar(&outputFlag, "output", "tickets.csv", "Output CSV path")
	seedCmd.Flags().BoolVar(&storeFlag, "store", false, "Write the generated tickets to the store instead of a file")
	seedCmd.Flags().StringVar(&modeFlag, "mode", "replace", "Insert mode when --store is set: replace or append")

	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(reportCmd, loadCmd, pingCmd, seedCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger plus the ingestion router.
func setup() (*config.Config, logger.Logger, *ingest.Router, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg.Logging.Level)

	mapping := ingest.DefaultFieldMapping()
	if cfg.Ingest.FieldMapFile != "" {
		mapping, err = ingest.LoadFieldMapping(cfg.Ingest.FieldMapFile)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	cleaner := ingest.NewCleaner(cfg.Ingest.DefaultPriority)
	return cfg, log, ingest.NewRouter(mapping, cleaner, log), nil
}

func openRepository(cfg *config.Config, log logger.Logger) (*repository.SQLTicketRepository, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	return repository.NewSQLTicketRepository(db, cfg.Database.Table, log)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, log, router, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tickets, rep, err := router.Ingest(cmd.Context(), ingest.NewFileSource(inputFlag))
	if err != nil {
		return err
	}
	printImportSummary(rep)
	if rep.Status == ingest.StatusEmpty {
		return fmt.Errorf("no records accepted from %s", inputFlag)
	}

	engine := analytics.NewEngine(cfg.SLA.Thresholds())
	result := engine.Aggregate(tickets, models.FilterSpec{}, models.ParseGranularity(granularityFlag))

	if formatFlag != "xlsx" && formatFlag != "csv" && formatFlag != "both" {
		return fmt.Errorf("format must be \"xlsx\", \"csv\" or \"both\", got %q", formatFlag)
	}
	if err := os.MkdirAll(outputFlag, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", outputFlag, err)
	}
	stamp := time.Now().Format("20060102_150405")

	if formatFlag != "csv" {
		xlsxPath := filepath.Join(outputFlag, fmt.Sprintf("ticket_report_%s.xlsx", stamp))
		if err := report.WriteExcel(xlsxPath, tickets, result); err != nil {
			return err
		}
		fmt.Println("Excel report saved:", xlsxPath)
	}

	if formatFlag != "xlsx" {
		csvPath := filepath.Join(outputFlag, fmt.Sprintf("tickets_%s.csv", stamp))
		cf, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", csvPath, err)
		}
		defer cf.Close()
		if err := report.WriteCSV(cf, tickets); err != nil {
			return err
		}
		fmt.Println("CSV export saved:", csvPath)
	}
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, log, router, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	mode, err := repository.ParseInsertMode(modeFlag)
	if err != nil {
		return err
	}

	tickets, rep, err := router.Ingest(cmd.Context(), ingest.NewFileSource(inputFlag))
	if err != nil {
		return err
	}
	printImportSummary(rep)
	if rep.Status == ingest.StatusEmpty {
		return fmt.Errorf("no records accepted from %s", inputFlag)
	}

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}

	timeout := timeoutFlag
	if timeout == 0 {
		timeout = cfg.Database.Timeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	inserted, err := repo.Insert(ctx, tickets, mode)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d tickets (mode: %s)\n", inserted, mode)

	stats, err := repo.TableStats(ctx)
	if err != nil {
		return err
	}
	printTableStats(stats)
	return nil
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level)
	defer log.Sync() //nolint:errcheck

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
	defer cancel()

	if err := repo.TestConnection(ctx); err != nil {
		if database.IsConnectionError(err) {
			fmt.Fprintln(os.Stderr, "Check the database host/port and that the server is running.")
		}
		return fmt.Errorf("store %s:%d unreachable: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	fmt.Printf("Connection to %s:%d OK\n", cfg.Database.Host, cfg.Database.Port)

	stats, err := repo.TableStats(ctx)
	if err != nil {
		return err
	}
	printTableStats(stats)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	opts := seed.Options{Count: countFlag, DaysBack: daysFlag, Seed: seedFlag}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	tickets := seed.Generate(opts)

	if storeFlag {
		cfg, log, _, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		mode, err := repository.ParseInsertMode(modeFlag)
		if err != nil {
			return err
		}
		repo, err := openRepository(cfg, log)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		inserted, err := repo.Insert(ctx, tickets, mode)
		if err != nil {
			return err
		}
		fmt.Printf("Generated and stored %d tickets (mode: %s)\n", inserted, mode)
		return nil
	}

	f, err := os.Create(outputFlag)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputFlag, err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, tickets); err != nil {
		return err
	}
	fmt.Printf("Generated %d tickets: %s\n", len(tickets), outputFlag)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, router, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
	defer cancel()
	tickets, rep, err := router.Ingest(ctx, ingest.NewStoreSource(repo, models.StoreFilter{}))
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(cfg.SLA.Thresholds())
	server := api.NewServer(engine, repo, log)
	server.SetCollection(tickets, rep)

	// Pick up edited SLA thresholds without a restart; the collection stays.
	if err := config.Watch(configPath, func(fresh *config.Config) {
		server.SetEngine(analytics.NewEngine(fresh.SLA.Thresholds()))
		log.Info("configuration reloaded", "sla_levels", len(fresh.SLA.ThresholdHours))
	}); err != nil {
		log.Warn("config watch disabled", "error", err)
	}

	addr := addrFlag
	if addr == "" {
		addr = cfg.Server.Addr()
	}
	log.Info("serving analytics API", "addr", addr, "tickets", len(tickets))
	return server.Routes().Run(addr)
}

func printImportSummary(rep *ingest.ImportReport) {
	fmt.Printf("Import %s: %d accepted, %d rejected, %d warnings, %d duplicates\n",
		rep.BatchID, rep.Accepted, rep.Rejected, len(rep.Warnings), len(rep.Duplicates))
	if rep.DateRangeStart != nil && rep.DateRangeEnd != nil {
		fmt.Printf("Date range: %s to %s\n",
			rep.DateRangeStart.Format("2006-01-02"), rep.DateRangeEnd.Format("2006-01-02"))
	}
}

func printTableStats(stats *repository.TableStats) {
	fmt.Printf("Table contains %d records\n", stats.RowCount)
	if stats.MinCreated != nil && stats.MaxCreated != nil {
		fmt.Printf("Stored date range: %s to %s\n",
			stats.MinCreated.Format("2006-01-02"), stats.MaxCreated.Format("2006-01-02"))
	}
}
