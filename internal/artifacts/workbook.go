package artifacts

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// Countries beyond this rank collapse into the pie chart tail.
const pieChartCountries = 10

// WriteWorkbook writes the analyst workbook: a summary sheet, the monthly
// revenue sequence with a column chart, country revenue shares with a pie
// chart, and the segment breakdown.
func (w *Writer) WriteWorkbook(summary *models.SummaryStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}
	if err := writeMonthlySheet(f, summary.MonthlyRevenue); err != nil {
		return err
	}
	if err := writeCountrySheet(f, summary.CountryShares); err != nil {
		return err
	}
	if err := writeSegmentSheet(f, summary.Segments); err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")

	path := filepath.Join(w.dir, ExcelFile)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Printf("Wrote workbook to %s", path)
	return nil
}

func writeSummarySheet(f *excelize.File, s *models.SummaryStats) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Run ID", s.RunID},
		{"Generated", s.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Cutoff Date", s.CutoffDate.Format("2006-01-02")},
		{"Total Revenue", s.TotalRevenue},
		{"Transactions", s.Transactions},
		{"Customers", s.Customers},
		{"Products", s.Products},
		{"Countries", s.Countries},
		{"Avg Order Value", s.AvgOrderValue},
		{"Repeat Rate", s.RepeatRate},
		{"Top 20% Revenue Share", s.Top20RevenueShare},
		{"Return Rate", s.ReturnRate},
		{"Mean Amount", s.Amounts.Mean},
		{"Median Amount", s.Amounts.Median},
		{"Amount Std Dev", s.Amounts.StdDev},
		{"Amount Skewness", s.Amounts.Skewness},
	}
	return writeRows(f, sheet, rows)
}

func writeMonthlySheet(f *excelize.File, monthly []models.MonthlyRevenue) error {
	const sheet = "Monthly Revenue"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := make([][]interface{}, 0, len(monthly)+1)
	rows = append(rows, []interface{}{"Month", "Revenue", "Growth"})
	for _, m := range monthly {
		row := []interface{}{fmt.Sprintf("%04d-%02d", m.Year, m.Month), m.Revenue, nil}
		if m.Growth != nil {
			row[2] = *m.Growth
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	if len(monthly) == 0 {
		return nil
	}
	chart := &excelize.Chart{
		Type:  excelize.Col,
		Title: []excelize.RichTextRun{{Text: "Monthly Revenue"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, len(monthly)+1),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, len(monthly)+1),
		}},
	}
	if err := f.AddChart(sheet, "E2", chart); err != nil {
		return fmt.Errorf("failed to add revenue chart: %w", err)
	}
	return nil
}

func writeCountrySheet(f *excelize.File, shares []models.CountryShare) error {
	const sheet = "Countries"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := make([][]interface{}, 0, len(shares)+1)
	rows = append(rows, []interface{}{"Country", "Revenue", "Share"})
	for _, cs := range shares {
		rows = append(rows, []interface{}{cs.Country, cs.Revenue, cs.Share})
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	n := len(shares)
	if n == 0 {
		return nil
	}
	if n > pieChartCountries {
		n = pieChartCountries
	}
	chart := &excelize.Chart{
		Type:  excelize.Pie,
		Title: []excelize.RichTextRun{{Text: "Revenue by Country"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, n+1),
		}},
	}
	if err := f.AddChart(sheet, "E2", chart); err != nil {
		return fmt.Errorf("failed to add country chart: %w", err)
	}
	return nil
}

func writeSegmentSheet(f *excelize.File, segments []models.SegmentSummary) error {
	const sheet = "Segments"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := make([][]interface{}, 0, len(segments)+1)
	rows = append(rows, []interface{}{"Segment", "Customers", "Revenue", "Revenue Share"})
	for _, s := range segments {
		rows = append(rows, []interface{}{s.Segment, s.Customers, s.Revenue, s.RevenueShare})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("bad cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
