package cleaning

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// flagOutliers marks rows whose total amount falls outside
// [Q1 - k*IQR, Q3 + k*IQR] computed over the surviving rows. Flagged rows are
// retained: extreme-but-legitimate orders must stay visible to later stages.
func (c *Cleaner) flagOutliers(txs []models.Transaction, report *models.CleaningReport) {
	if len(txs) < 2 {
		return
	}

	amounts := make([]float64, len(txs))
	for i := range txs {
		amounts[i] = txs[i].TotalAmount.InexactFloat64()
	}
	sort.Float64s(amounts)

	q1 := stat.Quantile(0.25, stat.LinInterp, amounts, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, amounts, nil)
	iqr := q3 - q1
	lo := q1 - c.fenceK*iqr
	hi := q3 + c.fenceK*iqr

	for i := range txs {
		amount := txs[i].TotalAmount.InexactFloat64()
		if amount < lo || amount > hi {
			txs[i].IsOutlier = true
			report.Flags.Outliers++
		}
	}
}

// deriveCalendar fills the calendar decomposition and product category.
func deriveCalendar(txs []models.Transaction) {
	for i := range txs {
		tx := &txs[i]
		tx.Year = tx.InvoiceDate.Year()
		tx.Month = int(tx.InvoiceDate.Month())
		tx.Quarter = (tx.Month-1)/3 + 1
		tx.DayOfWeek = tx.InvoiceDate.Weekday().String()
		tx.ProductCategory = firstWord(tx.Description)
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
