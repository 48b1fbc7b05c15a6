package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a single row of the input file after type coercion.
// Coercion failures leave the pointer fields nil; nothing is enforced here —
// malformed rows are pruned by the cleaning stage, not the reader.
type RawTransaction struct {
	InvoiceNo   string           `json:"invoice_no"`
	StockCode   string           `json:"stock_code"`
	Description string           `json:"description"`
	Quantity    *int64           `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	InvoiceDate *time.Time       `json:"invoice_date"`
	CustomerID  string           `json:"customer_id"`
	Country     string           `json:"country"`
}

// Key returns an identity string over all raw fields, used for exact-duplicate
// detection. Two rows with equal keys are the same row.
func (r *RawTransaction) Key() string {
	parts := []string{
		r.InvoiceNo,
		r.StockCode,
		r.Description,
		"",
		"",
		"",
		r.CustomerID,
		r.Country,
	}
	if r.Quantity != nil {
		parts[3] = strconv.FormatInt(*r.Quantity, 10)
	}
	if r.UnitPrice != nil {
		parts[4] = r.UnitPrice.String()
	}
	if r.InvoiceDate != nil {
		parts[5] = r.InvoiceDate.Format(time.RFC3339)
	}
	return strings.Join(parts, "\x1f")
}

// Transaction is a row of the cleaned table. All fields are concrete and the
// derived columns are populated; the table is immutable once produced.
type Transaction struct {
	InvoiceNo   string          `json:"invoice_no" db:"invoice_no" validate:"required"`
	StockCode   string          `json:"stock_code" db:"stock_code"`
	Description string          `json:"description" db:"description"`
	Quantity    int64           `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	InvoiceDate time.Time       `json:"invoice_date" db:"invoice_date" validate:"required"`
	CustomerID  string          `json:"customer_id" db:"customer_id" validate:"required"`
	Country     string          `json:"country" db:"country"`

	// Derived columns.
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	IsReturn        bool            `json:"is_return" db:"is_return"`
	IsOutlier       bool            `json:"is_outlier" db:"is_outlier"`
	IsZeroQuantity  bool            `json:"is_zero_quantity" db:"is_zero_quantity"`
	IsZeroPrice     bool            `json:"is_zero_price" db:"is_zero_price"`
	Year            int             `json:"year" db:"year"`
	Month           int             `json:"month" db:"month"`
	Quarter         int             `json:"quarter" db:"quarter"`
	DayOfWeek       string          `json:"day_of_week" db:"day_of_week"`
	ProductCategory string          `json:"product_category" db:"product_category"`
}

// CustomerMetrics is one row of the RFM table, one per retained customer.
// RecencyDays is nil for customers with no non-return transactions; such
// customers carry rank 0 (unranked) on every measure.
type CustomerMetrics struct {
	CustomerID    string          `json:"customer_id" db:"customer_id" validate:"required"`
	RecencyDays   *int            `json:"recency_days,omitempty" db:"recency_days"`
	Frequency     int             `json:"frequency" db:"frequency"`
	Monetary      decimal.Decimal `json:"monetary" db:"monetary"`
	RecencyRank   int             `json:"recency_rank" db:"recency_rank"`
	FrequencyRank int             `json:"frequency_rank" db:"frequency_rank"`
	MonetaryRank  int             `json:"monetary_rank" db:"monetary_rank"`
	Segment       string          `json:"segment" db:"segment" validate:"required"`
}
