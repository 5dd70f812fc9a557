package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/async"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/core"
	"github.com/joseph-ayodele/contracts-tracker/internal/export"
	"github.com/joseph-ayodele/contracts-tracker/internal/ingest"
	"github.com/joseph-ayodele/contracts-tracker/internal/utils"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir     = flag.String("dir", "", "directory to process contracts from (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to batch.output in the parent directory)")
		workers = flag.Int("workers", 0, "number of concurrent workers (default from config)")
		nowStr  = flag.String("now", "", "reference date YYYY-MM-DD (default: today)")
		cfgPath = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	// Validate required flags
	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	cfg, err := common.LoadConfigFile(*cfgPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	// If output file not specified, use parent directory with the configured filename
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), cfg.Batch.Output)
	}

	clock := time.Now
	if *nowStr != "" {
		now, err := utils.ParseYMD(*nowStr)
		if err != nil {
			printError("Error: invalid --now date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		clock = func() time.Time { return now }
	}

	// Setup logger
	logger := common.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Read directory
	reader := ingest.NewReader(int64(cfg.Analysis.MaxTextBytes), logger)
	logger.Info("starting ingestion", "dir", *dir)
	files, stats, err := reader.ReadDirectory(ctx, *dir, nil, true)
	if err != nil {
		logger.Error("failed to read directory", "error", err)
		os.Exit(1)
	}

	var jobs []async.Job
	rows := make([]export.Row, 0, len(files))
	for _, f := range files {
		if f.Err != "" {
			rows = append(rows, export.Row{Source: f.Path, Err: f.Err})
			continue
		}
		jobs = append(jobs, async.Job{Source: f.Path, Doc: f.Doc})
	}

	// Analyse
	analyzer := core.NewAnalyzer(core.WithConfig(cfg.Analysis), core.WithLogger(logger), core.WithClock(clock))
	pool := async.NewPool(analyzer, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithProcessTimeout(cfg.Batch.DocumentTimeout),
	)
	outcomes, err := pool.Run(ctx, jobs)
	if err != nil {
		logger.Error("batch interrupted", "error", err)
		os.Exit(1)
	}

	processed, failures := 0, int(stats.Failed)
	for _, o := range outcomes {
		if o.Err != nil {
			rows = append(rows, export.Row{Source: o.Job.Source, Err: o.Err.Error()})
			failures++
			continue
		}
		rows = append(rows, export.Row{Source: o.Job.Source, Result: o.Result})
		processed++
	}

	// Export to XLSX
	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := export.NewService(logger).ExportContractsXLSX(ctx, rows)
	if err != nil {
		logger.Error("failed to export contracts", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
