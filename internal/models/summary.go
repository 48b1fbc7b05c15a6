package models

import "time"

// AmountDistribution describes the shape of the sale-amount distribution.
type AmountDistribution struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
}

// CountryShare is one country's share of total revenue.
type CountryShare struct {
	Country string  `json:"country" db:"country"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Share   float64 `json:"share" db:"share"`
}

// MonthlyRevenue is one month of the revenue sequence. Growth is nil for the
// first month and nil (undefined) when the prior month's revenue was zero —
// never an infinity.
type MonthlyRevenue struct {
	Year    int      `json:"year" db:"year"`
	Month   int      `json:"month" db:"month"`
	Revenue float64  `json:"revenue" db:"revenue"`
	Growth  *float64 `json:"growth"`
}

// ProductRevenue is one product's contribution under ABC analysis, ordered by
// descending revenue. CumulativeShare is non-decreasing and reaches 1.0 at
// the last product.
type ProductRevenue struct {
	StockCode       string  `json:"stock_code"`
	Revenue         float64 `json:"revenue"`
	CumulativeShare float64 `json:"cumulative_share"`
	Class           string  `json:"class"`
}

// SegmentSummary aggregates the metric table by segment label.
type SegmentSummary struct {
	Segment      string  `json:"segment"`
	Customers    int     `json:"customers"`
	Revenue      float64 `json:"revenue"`
	RevenueShare float64 `json:"revenue_share"`
}

// Correlations holds pairwise Pearson correlations over the sale rows.
type Correlations struct {
	QuantityPrice  float64 `json:"quantity_unit_price"`
	QuantityAmount float64 `json:"quantity_total_amount"`
	PriceAmount    float64 `json:"unit_price_total_amount"`
}

// SummaryStats is the dataset-level statistics artifact produced by the
// metric engine and consumed read-only by the dashboard.
type SummaryStats struct {
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	CutoffDate  time.Time `json:"cutoff_date"`

	Amounts       AmountDistribution `json:"amounts"`
	TotalRevenue  float64            `json:"total_revenue"`
	Transactions  int                `json:"transactions"`
	Customers     int                `json:"customers"`
	Products      int                `json:"products"`
	Countries     int                `json:"countries"`
	AvgOrderValue float64            `json:"avg_order_value"`

	RepeatRate        float64      `json:"repeat_rate"`
	Top20RevenueShare float64      `json:"top20_revenue_share"`
	ReturnRate        float64      `json:"return_rate"`
	Correlations      Correlations `json:"correlations"`

	CountryShares  []CountryShare   `json:"country_shares"`
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
	ProductABC     []ProductRevenue `json:"product_abc"`
	Segments       []SegmentSummary `json:"segments"`
}
