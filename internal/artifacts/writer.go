package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/cleaning"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// Artifact file names inside the output directory.
const (
	CleanedFile = "cleaned_data.csv"
	ReportFile  = "cleaning_report.csv"
	MetricsFile = "customer_metrics.csv"
	SummaryFile = "summary.json"
	ExcelFile   = "report.xlsx"
)

var cleanedHeader = []string{
	"invoice_no", "stock_code", "description", "quantity", "unit_price",
	"invoice_date", "customer_id", "country", "total_amount", "is_return",
	"is_outlier", "is_zero_quantity", "is_zero_price", "year", "month",
	"quarter", "day_of_week", "product_category",
}

var reportHeader = []string{"rule", "description", "rows_removed", "rows_remaining", "rows_flagged"}

// Trailer row names in the report CSV. These carry flag counts only and are
// not rule entries.
const (
	flagZeroQuantityRow = "flag_zero_quantity"
	flagZeroPriceRow    = "flag_zero_price"
)

var metricsHeader = []string{
	"customer_id", "recency_days", "frequency", "monetary",
	"recency_rank", "frequency_rank", "monetary_rank", "segment",
}

// Writer persists pipeline outputs into a single output directory. Output is
// deterministic: the same inputs produce byte-identical files.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteCleaned writes the cleaned transaction table as CSV.
func (w *Writer) WriteCleaned(txs []models.Transaction) error {
	path := filepath.Join(w.dir, CleanedFile)
	return w.writeCSV(path, cleanedHeader, len(txs), func(i int) []string {
		tx := &txs[i]
		return []string{
			tx.InvoiceNo,
			tx.StockCode,
			tx.Description,
			strconv.FormatInt(tx.Quantity, 10),
			tx.UnitPrice.String(),
			tx.InvoiceDate.Format(time.RFC3339),
			tx.CustomerID,
			tx.Country,
			tx.TotalAmount.String(),
			strconv.FormatBool(tx.IsReturn),
			strconv.FormatBool(tx.IsOutlier),
			strconv.FormatBool(tx.IsZeroQuantity),
			strconv.FormatBool(tx.IsZeroPrice),
			strconv.Itoa(tx.Year),
			strconv.Itoa(tx.Month),
			strconv.Itoa(tx.Quarter),
			tx.DayOfWeek,
			tx.ProductCategory,
		}
	})
}

// WriteReport writes the cleaning report as CSV, one row per rule in applied
// order plus trailer rows for the zero-quantity and zero-price counts, which
// have no rule of their own. Every flagged count in the report round-trips
// through this file.
func (w *Writer) WriteReport(report *models.CleaningReport) error {
	path := filepath.Join(w.dir, ReportFile)
	rows := append([]models.RuleResult{}, report.Entries...)
	rows = append(rows,
		models.RuleResult{
			Rule:          flagZeroQuantityRow,
			Description:   "Zero-quantity rows flagged (retained)",
			RowsRemaining: report.FinalRows,
		},
		models.RuleResult{
			Rule:          flagZeroPriceRow,
			Description:   "Zero-price rows flagged (retained)",
			RowsRemaining: report.FinalRows,
		},
	)
	return w.writeCSV(path, reportHeader, len(rows), func(i int) []string {
		e := &rows[i]
		return []string{
			e.Rule,
			e.Description,
			strconv.Itoa(e.RowsRemoved),
			strconv.Itoa(e.RowsRemaining),
			strconv.Itoa(flaggedCount(report, e.Rule)),
		}
	})
}

// WriteMetrics writes the customer metric table as CSV. A nil recency is an
// empty cell, the CSV rendering of an undefined measure.
func (w *Writer) WriteMetrics(customers []models.CustomerMetrics) error {
	path := filepath.Join(w.dir, MetricsFile)
	return w.writeCSV(path, metricsHeader, len(customers), func(i int) []string {
		c := &customers[i]
		recency := ""
		if c.RecencyDays != nil {
			recency = strconv.Itoa(*c.RecencyDays)
		}
		return []string{
			c.CustomerID,
			recency,
			strconv.Itoa(c.Frequency),
			c.Monetary.String(),
			strconv.Itoa(c.RecencyRank),
			strconv.Itoa(c.FrequencyRank),
			strconv.Itoa(c.MonetaryRank),
			c.Segment,
		}
	})
}

// WriteSummary writes the summary statistics as indented JSON. Undefined
// growth values serialize as null.
func (w *Writer) WriteSummary(summary *models.SummaryStats) error {
	path := filepath.Join(w.dir, SummaryFile)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Wrote summary to %s", path)
	return nil
}

func (w *Writer) writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	log.Printf("Wrote %d rows to %s", n, path)
	return nil
}

// flaggedCount maps a report row to the flag count it carries. Integrity
// anomalies are detected on the recomputed amounts, so they ride the
// compute_amount row.
func flaggedCount(report *models.CleaningReport, rule string) int {
	switch rule {
	case cleaning.RuleFlagReturns:
		return report.Flags.Returns
	case cleaning.RuleComputeAmount:
		return report.Flags.IntegrityAnomalies
	case cleaning.RuleFlagOutliers:
		return report.Flags.Outliers
	case flagZeroQuantityRow:
		return report.Flags.ZeroQuantity
	case flagZeroPriceRow:
		return report.Flags.ZeroPrice
	default:
		return 0
	}
}
