// Package insights ties the pipeline stages and artifact writers together
// behind a single run facade used by the CLIs, the scheduler and the
// dashboard's run trigger.
package insights

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/artifacts"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/cleaning"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/config"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/ingest"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/metrics"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/store"
)

// Service runs the retail analysis pipeline end to end: ingest, clean,
// compute metrics, write artifacts, and optionally export to the store.
type Service struct {
	cfg *config.Config
}

// Result summarizes one completed run.
type Result struct {
	RunID       string
	InitialRows int
	FinalRows   int
	Customers   int
	Report      *models.CleaningReport
	Summary     *models.SummaryStats
	OutputDir   string
}

// NewService creates a pipeline service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Run executes the three pipeline stages and persists their outputs. Fatal
// conditions (missing columns, empty result) abort the run with an error;
// row-level problems are reported in the cleaning report instead.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	runID := generateRunID("run")
	log.Printf("Starting pipeline run %s on %s", runID, s.cfg.InputFile)

	var opts []ingest.ReaderOption
	if s.cfg.TimeLayout != "" {
		opts = append(opts, ingest.WithTimeLayout(s.cfg.TimeLayout))
	}
	if s.cfg.UTF8Input {
		opts = append(opts, ingest.WithUTF8())
	}
	raw, err := ingest.NewReader(opts...).ReadFile(s.cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}

	cleaner := cleaning.NewCleaner(cleaning.WithFenceK(s.cfg.FenceK))
	txs, report, err := cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("cleaning failed: %w", err)
	}

	cutoff, err := s.cfg.Cutoff()
	if err != nil {
		return nil, err
	}
	customers, summary, err := metrics.NewEngine(metrics.DefaultOptions()).Compute(txs, cutoff)
	if err != nil {
		return nil, fmt.Errorf("metric computation failed: %w", err)
	}
	summary.RunID = runID

	writer, err := artifacts.NewWriter(s.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteCleaned(txs); err != nil {
		return nil, err
	}
	if err := writer.WriteReport(report); err != nil {
		return nil, err
	}
	if err := writer.WriteMetrics(customers); err != nil {
		return nil, err
	}
	if err := writer.WriteSummary(summary); err != nil {
		return nil, err
	}
	if s.cfg.WriteExcel {
		if err := writer.WriteWorkbook(summary); err != nil {
			return nil, err
		}
	}

	if s.cfg.ExportStore {
		if err := s.export(ctx, runID, txs, customers); err != nil {
			return nil, err
		}
	}

	log.Printf("Pipeline run %s complete: %d rows in, %d rows out, %d customers",
		runID, report.InitialRows, report.FinalRows, len(customers))
	return &Result{
		RunID:       runID,
		InitialRows: report.InitialRows,
		FinalRows:   report.FinalRows,
		Customers:   len(customers),
		Report:      report,
		Summary:     summary,
		OutputDir:   writer.Dir(),
	}, nil
}

func (s *Service) export(ctx context.Context, runID string, txs []models.Transaction, customers []models.CustomerMetrics) error {
	st, err := store.Open(store.Config{Driver: s.cfg.StoreDriver, DSN: s.cfg.StoreDSN})
	if err != nil {
		return fmt.Errorf("store export failed: %w", err)
	}
	defer st.Close()

	if err := st.Setup(ctx); err != nil {
		return err
	}
	if err := st.InsertTransactions(ctx, runID, txs); err != nil {
		return err
	}
	return st.InsertMetrics(ctx, runID, customers)
}

// generateRunID returns an ID like run_20110101120000_1a2b3c4d.
func generateRunID(prefix string) string {
	timestamp := time.Now().UTC().Format("20060102150405")
	uniqueID := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%s", prefix, timestamp, uniqueID)
}
