package store

import (
	"context"
	"fmt"
	"log"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

type transactionRow struct {
	RunID string `db:"run_id"`
	models.Transaction
}

type metricsRow struct {
	RunID string `db:"run_id"`
	models.CustomerMetrics
}

// InsertTransactions loads the cleaned table under the given run ID, in
// batches.
func (s *Store) InsertTransactions(ctx context.Context, runID string, txs []models.Transaction) error {
	const query = `
		INSERT INTO transactions (
			run_id, invoice_no, stock_code, description, quantity, unit_price,
			invoice_date, customer_id, country, total_amount, is_return,
			is_outlier, is_zero_quantity, is_zero_price, year, month, quarter,
			day_of_week, product_category
		) VALUES (
			:run_id, :invoice_no, :stock_code, :description, :quantity, :unit_price,
			:invoice_date, :customer_id, :country, :total_amount, :is_return,
			:is_outlier, :is_zero_quantity, :is_zero_price, :year, :month, :quarter,
			:day_of_week, :product_category
		)
	`

	rows := make([]transactionRow, len(txs))
	for i := range txs {
		rows[i] = transactionRow{RunID: runID, Transaction: txs[i]}
	}
	if err := s.batchInsert(ctx, query, len(rows), func(lo, hi int) interface{} {
		return rows[lo:hi]
	}); err != nil {
		return fmt.Errorf("failed to insert transactions: %w", err)
	}

	log.Printf("Loaded %d transactions into store for run %s", len(txs), runID)
	return nil
}

// InsertMetrics loads the customer metric table under the given run ID.
func (s *Store) InsertMetrics(ctx context.Context, runID string, customers []models.CustomerMetrics) error {
	const query = `
		INSERT INTO customer_metrics (
			run_id, customer_id, recency_days, frequency, monetary,
			recency_rank, frequency_rank, monetary_rank, segment
		) VALUES (
			:run_id, :customer_id, :recency_days, :frequency, :monetary,
			:recency_rank, :frequency_rank, :monetary_rank, :segment
		)
	`

	rows := make([]metricsRow, len(customers))
	for i := range customers {
		rows[i] = metricsRow{RunID: runID, CustomerMetrics: customers[i]}
	}
	if err := s.batchInsert(ctx, query, len(rows), func(lo, hi int) interface{} {
		return rows[lo:hi]
	}); err != nil {
		return fmt.Errorf("failed to insert customer metrics: %w", err)
	}

	log.Printf("Loaded %d customer metric rows into store for run %s", len(customers), runID)
	return nil
}

// batchInsert runs the named query over slices of at most insertBatchSize
// rows inside a single transaction.
func (s *Store) batchInsert(ctx context.Context, query string, n int, slice func(lo, hi int) interface{}) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for lo := 0; lo < n; lo += insertBatchSize {
		hi := lo + insertBatchSize
		if hi > n {
			hi = n
		}
		if _, err := tx.NamedExecContext(ctx, query, slice(lo, hi)); err != nil {
			return fmt.Errorf("failed to insert batch at row %d: %w", lo, err)
		}
	}
	return tx.Commit()
}
