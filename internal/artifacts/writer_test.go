package artifacts

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/cleaning"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

func testTransactions() []models.Transaction {
	price := decimal.RequireFromString("2.55")
	date := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	txs := make([]models.Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		txs = append(txs, models.Transaction{
			InvoiceNo:   "536365",
			StockCode:   "85123A",
			Quantity:    6,
			UnitPrice:   price,
			InvoiceDate: date,
			CustomerID:  "17850",
			Country:     "United Kingdom",
			TotalAmount: decimal.NewFromInt(6).Mul(price),
			Year:        2010,
			Month:       12,
		})
	}
	return txs
}

func TestReportRoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	report := &models.CleaningReport{
		InitialRows: 10,
		FinalRows:   6,
		Entries: []models.RuleResult{
			{Rule: cleaning.RuleMissingInvoice, Description: "drop rows with no invoice id", RowsRemoved: 0, RowsRemaining: 10},
			{Rule: cleaning.RuleMissingCustomer, Description: "drop rows with no customer id", RowsRemoved: 2, RowsRemaining: 8},
			{Rule: cleaning.RuleDuplicates, Description: "drop exact duplicate rows", RowsRemoved: 1, RowsRemaining: 7},
			{Rule: cleaning.RuleInvalidPrice, Description: "drop rows with invalid price", RowsRemoved: 1, RowsRemaining: 6},
			{Rule: cleaning.RuleFlagReturns, Description: "flag return rows", RowsRemoved: 0, RowsRemaining: 6},
			{Rule: cleaning.RuleComputeAmount, Description: "recompute total amount", RowsRemoved: 0, RowsRemaining: 6},
			{Rule: cleaning.RuleFlagOutliers, Description: "flag outlier amounts", RowsRemoved: 0, RowsRemaining: 6},
		},
		Flags: models.CleaningFlags{
			Returns:            1,
			ZeroQuantity:       2,
			ZeroPrice:          3,
			Outliers:           1,
			IntegrityAnomalies: 4,
		},
	}

	if err := w.WriteReport(report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	got, err := NewReader(w.Dir()).ReadReport()
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if got.InitialRows != 10 || got.FinalRows != 6 {
		t.Errorf("expected 10 initial and 6 final rows, got %d and %d", got.InitialRows, got.FinalRows)
	}
	// Trailer rows carry flag counts only; they must not surface as entries.
	if len(got.Entries) != len(report.Entries) {
		t.Fatalf("expected %d entries, got %d", len(report.Entries), len(got.Entries))
	}
	for i, e := range got.Entries {
		if e != report.Entries[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, e, report.Entries[i])
		}
	}
	if got.Flags != report.Flags {
		t.Errorf("flag counts lost in round trip: got %+v, want %+v", got.Flags, report.Flags)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	growth := 0.5
	summary := &models.SummaryStats{
		RunID:        "run_20110101_abcd1234",
		TotalRevenue: 250.0,
		Transactions: 3,
		MonthlyRevenue: []models.MonthlyRevenue{
			{Year: 2011, Month: 1, Revenue: 100},
			{Year: 2011, Month: 2, Revenue: 150, Growth: &growth},
		},
	}
	if err := w.WriteSummary(summary); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	// Undefined growth must appear as JSON null, not a number.
	data, err := os.ReadFile(filepath.Join(w.Dir(), SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"growth": null`) {
		t.Error("expected first month growth serialized as null")
	}

	got, err := NewReader(w.Dir()).ReadSummary()
	if err != nil {
		t.Fatalf("ReadSummary: %v", err)
	}
	if got.RunID != summary.RunID || got.TotalRevenue != summary.TotalRevenue {
		t.Errorf("summary round trip mismatch: %+v", got)
	}
	if got.MonthlyRevenue[0].Growth != nil {
		t.Error("first month growth should stay nil")
	}
	if got.MonthlyRevenue[1].Growth == nil || *got.MonthlyRevenue[1].Growth != 0.5 {
		t.Errorf("second month growth lost: %v", got.MonthlyRevenue[1].Growth)
	}
}

func TestWriteMetricsNilRecency(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	ten := 10
	customers := []models.CustomerMetrics{
		{CustomerID: "17850", RecencyDays: &ten, Frequency: 2,
			Monetary: decimal.RequireFromString("30.00"), Segment: "Champions"},
		{CustomerID: "16200", Frequency: 0, Monetary: decimal.Zero, Segment: "Returns Only"},
	}
	if err := w.WriteMetrics(customers); err != nil {
		t.Fatalf("WriteMetrics: %v", err)
	}

	f, err := os.Open(filepath.Join(w.Dir(), MetricsFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[1][1] != "10" {
		t.Errorf("expected recency 10, got %q", records[1][1])
	}
	if records[2][1] != "" {
		t.Errorf("undefined recency should be an empty cell, got %q", records[2][1])
	}
}

func TestWriteCleanedDeterministic(t *testing.T) {
	txs := testTransactions()

	read := func() []byte {
		w, err := NewWriter(t.TempDir())
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}
		if err := w.WriteCleaned(txs); err != nil {
			t.Fatalf("WriteCleaned: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(w.Dir(), CleanedFile))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	a, b := read(), read()
	if string(a) != string(b) {
		t.Error("cleaned table output differs between identical runs")
	}
}

func TestPreviewCleanedLimit(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteCleaned(testTransactions()); err != nil {
		t.Fatalf("WriteCleaned: %v", err)
	}

	records, err := NewReader(w.Dir()).PreviewCleaned(5)
	if err != nil {
		t.Fatalf("PreviewCleaned: %v", err)
	}
	if len(records) != 6 {
		t.Errorf("expected header plus 5 rows, got %d records", len(records))
	}
	if records[0][0] != "invoice_no" {
		t.Errorf("expected header first, got %v", records[0])
	}
}

func TestWriteWorkbook(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	growth := 0.5
	summary := &models.SummaryStats{
		RunID:        "run_20110101_abcd1234",
		TotalRevenue: 250.0,
		MonthlyRevenue: []models.MonthlyRevenue{
			{Year: 2011, Month: 1, Revenue: 100},
			{Year: 2011, Month: 2, Revenue: 150, Growth: &growth},
		},
		CountryShares: []models.CountryShare{
			{Country: "United Kingdom", Revenue: 200, Share: 0.8},
			{Country: "France", Revenue: 50, Share: 0.2},
		},
		Segments: []models.SegmentSummary{
			{Segment: "Champions", Customers: 2, Revenue: 250, RevenueShare: 1.0},
		},
	}
	if err := w.WriteWorkbook(summary); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	info, err := os.Stat(filepath.Join(w.Dir(), ExcelFile))
	if err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook file is empty")
	}
}
