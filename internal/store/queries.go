package store

import (
	"context"
	"fmt"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// TopCustomers returns the highest-monetary customers of a run.
func (s *Store) TopCustomers(ctx context.Context, runID string, limit int) ([]models.CustomerMetrics, error) {
	query := s.db.Rebind(`
		SELECT customer_id, recency_days, frequency, monetary,
		       recency_rank, frequency_rank, monetary_rank, segment
		FROM customer_metrics
		WHERE run_id = ?
		ORDER BY monetary DESC, customer_id
		LIMIT ?
	`)

	var customers []models.CustomerMetrics
	if err := s.db.SelectContext(ctx, &customers, query, runID, limit); err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	return customers, nil
}

// RevenueByCountry returns per-country sale revenue for a run, descending.
// Returns and zero-quantity/zero-price rows are excluded, matching the
// summary statistics.
func (s *Store) RevenueByCountry(ctx context.Context, runID string) ([]models.CountryShare, error) {
	query := s.db.Rebind(`
		SELECT country, SUM(total_amount) AS revenue
		FROM transactions
		WHERE run_id = ? AND NOT is_return AND quantity > 0 AND unit_price > 0
		GROUP BY country
		ORDER BY revenue DESC, country
	`)

	var shares []models.CountryShare
	if err := s.db.SelectContext(ctx, &shares, query, runID); err != nil {
		return nil, fmt.Errorf("failed to query revenue by country: %w", err)
	}

	var total float64
	for i := range shares {
		total += shares[i].Revenue
	}
	if total > 0 {
		for i := range shares {
			shares[i].Share = shares[i].Revenue / total
		}
	}
	return shares, nil
}

// MonthlyRevenue returns the ordered monthly sale revenue sequence of a run.
func (s *Store) MonthlyRevenue(ctx context.Context, runID string) ([]models.MonthlyRevenue, error) {
	query := s.db.Rebind(`
		SELECT year, month, SUM(total_amount) AS revenue
		FROM transactions
		WHERE run_id = ? AND NOT is_return AND quantity > 0 AND unit_price > 0
		GROUP BY year, month
		ORDER BY year, month
	`)

	var monthly []models.MonthlyRevenue
	if err := s.db.SelectContext(ctx, &monthly, query, runID); err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	return monthly, nil
}
