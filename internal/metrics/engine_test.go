package metrics

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

func saleTx(customer, invoice string, qty int64, price string, date time.Time) models.Transaction {
	p, err := decimal.NewFromString(price)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		InvoiceNo:   invoice,
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    qty,
		UnitPrice:   p,
		InvoiceDate: date,
		CustomerID:  customer,
		Country:     "United Kingdom",
		TotalAmount: decimal.NewFromInt(qty).Mul(p),
		Year:        date.Year(),
		Month:       int(date.Month()),
	}
}

func returnTx(customer, invoice string, qty int64, price string, date time.Time) models.Transaction {
	tx := saleTx(customer, invoice, qty, price, date)
	tx.IsReturn = true
	return tx
}

func TestComputeRFMScenario(t *testing.T) {
	d1 := time.Date(2011, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2011, 3, 15, 10, 0, 0, 0, time.UTC)

	txs := []models.Transaction{
		saleTx("17850", "536365", 1, "10.00", d1),
		saleTx("17850", "536412", 1, "20.00", d2),
	}

	customers, _, err := NewEngine(DefaultOptions()).Compute(txs, d2)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}

	c := customers[0]
	if c.RecencyDays == nil || *c.RecencyDays != 0 {
		t.Errorf("expected recency 0, got %v", c.RecencyDays)
	}
	if c.Frequency != 2 {
		t.Errorf("expected frequency 2, got %d", c.Frequency)
	}
	if !c.Monetary.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected monetary 30.00, got %s", c.Monetary)
	}
	if c.RecencyRank != 1 || c.FrequencyRank != 1 || c.MonetaryRank != 1 {
		t.Errorf("single customer should rank 1 on every measure, got r=%d f=%d m=%d",
			c.RecencyRank, c.FrequencyRank, c.MonetaryRank)
	}
}

func TestComputeDefaultsCutoffToLatestInvoice(t *testing.T) {
	d1 := time.Date(2011, 5, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2011, 5, 11, 9, 0, 0, 0, time.UTC)

	txs := []models.Transaction{
		saleTx("12583", "537001", 2, "5.00", d1),
		saleTx("13047", "537002", 1, "7.50", d2),
	}

	customers, summary, err := NewEngine(DefaultOptions()).Compute(txs, time.Time{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !summary.CutoffDate.Equal(d2) {
		t.Errorf("expected cutoff %s, got %s", d2, summary.CutoffDate)
	}

	byID := make(map[string]models.CustomerMetrics)
	for _, c := range customers {
		byID[c.CustomerID] = c
	}
	if got := *byID["12583"].RecencyDays; got != 10 {
		t.Errorf("expected recency 10 for 12583, got %d", got)
	}
	if got := *byID["13047"].RecencyDays; got != 0 {
		t.Errorf("expected recency 0 for 13047, got %d", got)
	}
}

func TestRecencyClampedAtCutoff(t *testing.T) {
	d1 := time.Date(2011, 6, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2011, 6, 20, 10, 0, 0, 0, time.UTC)
	cutoff := time.Date(2011, 6, 10, 0, 0, 0, 0, time.UTC)

	txs := []models.Transaction{
		saleTx("17850", "536365", 1, "10.00", d1),
		saleTx("13047", "536400", 1, "10.00", d2), // after the cutoff
	}

	customers, _, err := NewEngine(DefaultOptions()).Compute(txs, cutoff)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	byID := make(map[string]models.CustomerMetrics)
	for _, c := range customers {
		byID[c.CustomerID] = c
	}
	if got := *byID["13047"].RecencyDays; got != 0 {
		t.Errorf("expected recency clamped to 0, got %d", got)
	}
	if got := *byID["17850"].RecencyDays; got != 8 {
		t.Errorf("expected recency 8, got %d", got)
	}
}

func TestQuartileCoverage(t *testing.T) {
	for _, n := range []int{4, 5, 7, 10, 53} {
		t.Run(fmt.Sprintf("customers_%d", n), func(t *testing.T) {
			cutoff := time.Date(2011, 12, 9, 0, 0, 0, 0, time.UTC)
			txs := make([]models.Transaction, 0, n)
			for i := 0; i < n; i++ {
				d := cutoff.AddDate(0, 0, -i)
				txs = append(txs, saleTx(fmt.Sprintf("1%04d", i), fmt.Sprintf("54%04d", i),
					int64(i+1), "2.50", d))
			}

			customers, _, err := NewEngine(DefaultOptions()).Compute(txs, cutoff)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}

			counts := make(map[int]int)
			for _, c := range customers {
				if c.RecencyRank < 1 || c.RecencyRank > 4 {
					t.Fatalf("recency rank %d out of range for %s", c.RecencyRank, c.CustomerID)
				}
				counts[c.RecencyRank]++
			}
			min, max := n, 0
			for rank := 1; rank <= 4; rank++ {
				if counts[rank] < min {
					min = counts[rank]
				}
				if counts[rank] > max {
					max = counts[rank]
				}
			}
			if max-min > 1 {
				t.Errorf("bucket sizes differ by more than one: %v", counts)
			}
		})
	}
}

func TestSegmentRules(t *testing.T) {
	tests := []struct {
		name    string
		r, f, m int
		want    string
	}{
		{"champion", 1, 1, 1, SegmentChampions},
		{"champion top half spend", 1, 2, 2, SegmentChampions},
		{"loyal", 2, 2, 3, SegmentLoyal},
		{"big spender", 3, 3, 1, SegmentBigSpenders},
		{"frequent buyer", 3, 1, 3, SegmentFrequent},
		{"recent customer", 1, 3, 3, SegmentRecent},
		{"at risk", 3, 2, 2, SegmentAtRisk},
		{"hibernating", 4, 4, 3, SegmentHibernating},
		{"regular", 3, 3, 3, SegmentRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchSegment(tt.r, tt.f, tt.m); got != tt.want {
				t.Errorf("matchSegment(%d, %d, %d) = %q, want %q", tt.r, tt.f, tt.m, got, tt.want)
			}
		})
	}
}

func TestReturnOnlyCustomers(t *testing.T) {
	cutoff := time.Date(2011, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		saleTx("15100", "550001", 3, "4.00", cutoff.AddDate(0, 0, -5)),
		returnTx("16200", "C550002", -2, "4.00", cutoff.AddDate(0, 0, -3)),
	}

	t.Run("included by default", func(t *testing.T) {
		customers, _, err := NewEngine(DefaultOptions()).Compute(txs, cutoff)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if len(customers) != 2 {
			t.Fatalf("expected 2 customers, got %d", len(customers))
		}
		var ro *models.CustomerMetrics
		for i := range customers {
			if customers[i].CustomerID == "16200" {
				ro = &customers[i]
			}
		}
		if ro == nil {
			t.Fatal("return-only customer missing from metric table")
		}
		if ro.RecencyDays != nil {
			t.Errorf("expected nil recency, got %d", *ro.RecencyDays)
		}
		if ro.Frequency != 0 || !ro.Monetary.IsZero() {
			t.Errorf("expected zero frequency and monetary, got f=%d m=%s", ro.Frequency, ro.Monetary)
		}
		if ro.RecencyRank != 0 || ro.FrequencyRank != 0 || ro.MonetaryRank != 0 {
			t.Errorf("return-only customer must stay unranked, got r=%d f=%d m=%d",
				ro.RecencyRank, ro.FrequencyRank, ro.MonetaryRank)
		}
		if ro.Segment != SegmentReturnsOnly {
			t.Errorf("expected segment %q, got %q", SegmentReturnsOnly, ro.Segment)
		}
	})

	t.Run("excluded when disabled", func(t *testing.T) {
		customers, _, err := NewEngine(Options{IncludeReturnOnly: false}).Compute(txs, cutoff)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if len(customers) != 1 || customers[0].CustomerID != "15100" {
			t.Fatalf("expected only customer 15100, got %+v", customers)
		}
	})
}

func TestMonthlyGrowth(t *testing.T) {
	series := monthlyGrowth(map[monthKey]float64{
		{2011, 1}: 100,
		{2011, 2}: 150,
		{2011, 3}: 0,
		{2011, 4}: 80,
	})

	if len(series) != 4 {
		t.Fatalf("expected 4 months, got %d", len(series))
	}
	if series[0].Growth != nil {
		t.Errorf("first month growth must be undefined, got %v", *series[0].Growth)
	}
	if series[1].Growth == nil || math.Abs(*series[1].Growth-0.5) > 1e-9 {
		t.Errorf("expected growth 0.5 for month 2, got %v", series[1].Growth)
	}
	if series[2].Growth == nil || math.Abs(*series[2].Growth+1.0) > 1e-9 {
		t.Errorf("expected growth -1.0 for month 3, got %v", series[2].Growth)
	}
	if series[3].Growth != nil {
		t.Errorf("growth after a zero month must be undefined, got %v", *series[3].Growth)
	}
}

func TestMonthlyGrowthOrdersAcrossYears(t *testing.T) {
	series := monthlyGrowth(map[monthKey]float64{
		{2011, 1}:  200,
		{2010, 12}: 100,
	})
	if series[0].Year != 2010 || series[0].Month != 12 {
		t.Fatalf("expected 2010-12 first, got %d-%d", series[0].Year, series[0].Month)
	}
	if series[1].Growth == nil || math.Abs(*series[1].Growth-1.0) > 1e-9 {
		t.Errorf("expected growth 1.0 across the year boundary, got %v", series[1].Growth)
	}
}

func TestABCClassification(t *testing.T) {
	products := classifyProducts(map[string]float64{
		"85123A": 700,
		"22423":  150,
		"47566":  100,
		"84879":  50,
	}, 1000)

	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i].Revenue > products[i-1].Revenue {
			t.Errorf("products not in descending revenue order at %d", i)
		}
		if products[i].CumulativeShare < products[i-1].CumulativeShare {
			t.Errorf("cumulative share decreased at %d", i)
		}
	}
	if last := products[len(products)-1].CumulativeShare; math.Abs(last-1.0) > 1e-9 {
		t.Errorf("cumulative share must end at 1.0, got %f", last)
	}

	wantClasses := map[string]string{"85123A": "A", "22423": "B", "47566": "B", "84879": "C"}
	for _, p := range products {
		if p.Class != wantClasses[p.StockCode] {
			t.Errorf("product %s: class %s, want %s", p.StockCode, p.Class, wantClasses[p.StockCode])
		}
	}
}

func TestSummaryStats(t *testing.T) {
	cutoff := time.Date(2011, 2, 28, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		saleTx("17850", "536365", 10, "10.00", time.Date(2011, 1, 5, 0, 0, 0, 0, time.UTC)),
		saleTx("17850", "536400", 5, "10.00", time.Date(2011, 2, 5, 0, 0, 0, 0, time.UTC)),
		saleTx("13047", "536401", 10, "10.00", time.Date(2011, 2, 6, 0, 0, 0, 0, time.UTC)),
		returnTx("13047", "C536402", -2, "10.00", time.Date(2011, 2, 7, 0, 0, 0, 0, time.UTC)),
	}

	_, s, err := NewEngine(DefaultOptions()).Compute(txs, cutoff)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if s.Transactions != 3 {
		t.Errorf("expected 3 sale transactions, got %d", s.Transactions)
	}
	if math.Abs(s.TotalRevenue-250.0) > 1e-9 {
		t.Errorf("expected total revenue 250.00, got %f", s.TotalRevenue)
	}
	if math.Abs(s.ReturnRate-0.25) > 1e-9 {
		t.Errorf("expected return rate 0.25, got %f", s.ReturnRate)
	}
	if math.Abs(s.RepeatRate-0.5) > 1e-9 {
		t.Errorf("expected repeat rate 0.5, got %f", s.RepeatRate)
	}
	if len(s.MonthlyRevenue) != 2 {
		t.Fatalf("expected 2 months, got %d", len(s.MonthlyRevenue))
	}
	if g := s.MonthlyRevenue[1].Growth; g == nil || math.Abs(*g-0.5) > 1e-9 {
		t.Errorf("expected 0.5 growth January to February, got %v", g)
	}
	if len(s.CountryShares) != 1 || s.CountryShares[0].Country != "United Kingdom" {
		t.Fatalf("expected single UK country share, got %+v", s.CountryShares)
	}
	if math.Abs(s.CountryShares[0].Share-1.0) > 1e-9 {
		t.Errorf("expected UK share 1.0, got %f", s.CountryShares[0].Share)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	if _, _, err := NewEngine(DefaultOptions()).Compute(nil, time.Time{}); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestComputeDeterminism(t *testing.T) {
	cutoff := time.Date(2011, 12, 9, 0, 0, 0, 0, time.UTC)
	txs := make([]models.Transaction, 0, 30)
	for i := 0; i < 30; i++ {
		txs = append(txs, saleTx(fmt.Sprintf("1%04d", i%7), fmt.Sprintf("55%04d", i),
			int64(i%5+1), "3.75", cutoff.AddDate(0, 0, -(i%11))))
	}

	a, _, err := NewEngine(DefaultOptions()).Compute(txs, cutoff)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, _, err := NewEngine(DefaultOptions()).Compute(txs, cutoff)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].CustomerID != b[i].CustomerID || a[i].Segment != b[i].Segment ||
			a[i].RecencyRank != b[i].RecencyRank || a[i].FrequencyRank != b[i].FrequencyRank ||
			a[i].MonetaryRank != b[i].MonetaryRank {
			t.Errorf("row %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
