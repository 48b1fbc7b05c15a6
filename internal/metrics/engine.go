package metrics

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// Options configures the metric engine.
type Options struct {
	// IncludeReturnOnly keeps customers whose history is returns only. They
	// appear with zero frequency, zero monetary, nil recency and the
	// ReturnsOnlySegment label, excluded from every quartile ranking.
	IncludeReturnOnly bool
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{IncludeReturnOnly: true}
}

// Engine derives the customer metric table and dataset-level summary
// statistics from the cleaned transaction table. It is a pure function of
// its input plus the reference cutoff date.
type Engine struct {
	opts Options
}

// NewEngine creates a metric engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

var errNoTransactions = errors.New("no transactions to analyze")

// customerAccum aggregates one customer's history in first-seen order.
type customerAccum struct {
	id          string
	lastInvoice time.Time
	invoices    map[string]struct{}
	monetary    decimal.Decimal
	hasSale     bool
}

// Compute produces one metric row per retained customer plus the summary
// statistics. If cutoff is the zero time, the latest invoice timestamp in
// the table is used, matching the reference analysis. A cutoff earlier than
// a customer's last purchase clamps that customer's recency to zero rather
// than letting a negative value rank as most favorable.
func (e *Engine) Compute(txs []models.Transaction, cutoff time.Time) ([]models.CustomerMetrics, *models.SummaryStats, error) {
	if len(txs) == 0 {
		return nil, nil, errNoTransactions
	}

	if cutoff.IsZero() {
		for i := range txs {
			if txs[i].InvoiceDate.After(cutoff) {
				cutoff = txs[i].InvoiceDate
			}
		}
	}

	// Aggregate per customer, preserving first-appearance order so that
	// quartile ties break on stable original ordering.
	index := make(map[string]*customerAccum)
	var order []*customerAccum
	for i := range txs {
		tx := &txs[i]
		acc, ok := index[tx.CustomerID]
		if !ok {
			acc = &customerAccum{
				id:       tx.CustomerID,
				invoices: make(map[string]struct{}),
			}
			index[tx.CustomerID] = acc
			order = append(order, acc)
		}
		if tx.IsReturn {
			continue // returns never count toward recency, frequency or monetary
		}
		acc.hasSale = true
		acc.invoices[tx.InvoiceNo] = struct{}{}
		acc.monetary = acc.monetary.Add(tx.TotalAmount)
		if tx.InvoiceDate.After(acc.lastInvoice) {
			acc.lastInvoice = tx.InvoiceDate
		}
	}

	customers := make([]models.CustomerMetrics, 0, len(order))
	for _, acc := range order {
		if !acc.hasSale && !e.opts.IncludeReturnOnly {
			continue
		}
		m := models.CustomerMetrics{
			CustomerID: acc.id,
			Frequency:  len(acc.invoices),
			Monetary:   acc.monetary,
		}
		if acc.hasSale {
			days := int(cutoff.Sub(acc.lastInvoice).Hours() / 24)
			if days < 0 {
				days = 0
			}
			m.RecencyDays = &days
		}
		customers = append(customers, m)
	}

	assignQuartileRanks(customers)
	assignSegments(customers)

	summary := e.summarize(txs, customers, cutoff)

	log.Printf("Computed metrics for %d customers (cutoff %s)",
		len(customers), cutoff.Format("2006-01-02"))
	return customers, summary, nil
}
