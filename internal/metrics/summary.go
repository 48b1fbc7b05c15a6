package metrics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// summarize computes the dataset-level statistics over the cleaned table.
// Distribution and revenue figures are taken over sale rows (positive
// quantity and price), matching the reference analysis; the return rate is
// taken over the whole table.
func (e *Engine) summarize(txs []models.Transaction, customers []models.CustomerMetrics, cutoff time.Time) *models.SummaryStats {
	s := &models.SummaryStats{
		GeneratedAt: time.Now().UTC(),
		CutoffDate:  cutoff,
	}

	var (
		amounts    []float64
		quantities []float64
		prices     []float64
		returns    int
		invoices   = make(map[string]struct{})
		products   = make(map[string]struct{})
		countries  = make(map[string]struct{})
		byCountry  = make(map[string]float64)
		byMonth    = make(map[monthKey]float64)
		byProduct  = make(map[string]float64)
	)

	for i := range txs {
		tx := &txs[i]
		if tx.IsReturn {
			returns++
			continue
		}
		if tx.Quantity == 0 || tx.UnitPrice.IsZero() {
			continue // promotional/test rows are reported, not analyzed
		}

		amount := tx.TotalAmount.InexactFloat64()
		amounts = append(amounts, amount)
		quantities = append(quantities, float64(tx.Quantity))
		prices = append(prices, tx.UnitPrice.InexactFloat64())

		invoices[tx.InvoiceNo] = struct{}{}
		products[tx.StockCode] = struct{}{}
		countries[tx.Country] = struct{}{}
		byCountry[tx.Country] += amount
		byMonth[monthKey{tx.Year, tx.Month}] += amount
		byProduct[tx.StockCode] += amount

		s.TotalRevenue += amount
	}

	s.Transactions = len(amounts)
	s.Products = len(products)
	s.Countries = len(countries)
	s.ReturnRate = ratio(returns, len(txs))

	if len(amounts) > 0 {
		s.AvgOrderValue = s.TotalRevenue / float64(len(amounts))
		s.Amounts = describeAmounts(amounts)
		s.Correlations = models.Correlations{
			QuantityPrice:  stat.Correlation(quantities, prices, nil),
			QuantityAmount: stat.Correlation(quantities, amounts, nil),
			PriceAmount:    stat.Correlation(prices, amounts, nil),
		}
	}

	s.CountryShares = countryShares(byCountry, s.TotalRevenue)
	s.MonthlyRevenue = monthlyGrowth(byMonth)
	s.ProductABC = classifyProducts(byProduct, s.TotalRevenue)
	s.Segments = segmentSummaries(customers)

	s.Customers = len(customers)
	s.RepeatRate, s.Top20RevenueShare = customerConcentration(customers)

	return s
}

type monthKey struct {
	year  int
	month int
}

func describeAmounts(amounts []float64) models.AmountDistribution {
	sorted := make([]float64, len(amounts))
	copy(sorted, amounts)
	sort.Float64s(sorted)

	return models.AmountDistribution{
		Mean:     stat.Mean(sorted, nil),
		Median:   stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		StdDev:   stat.StdDev(sorted, nil),
		Skewness: stat.Skew(sorted, nil),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Q1:       stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Q3:       stat.Quantile(0.75, stat.LinInterp, sorted, nil),
	}
}

// countryShares returns revenue per country sorted by descending revenue,
// with names breaking ties so the output is reproducible.
func countryShares(byCountry map[string]float64, total float64) []models.CountryShare {
	shares := make([]models.CountryShare, 0, len(byCountry))
	for country, revenue := range byCountry {
		cs := models.CountryShare{Country: country, Revenue: revenue}
		if total > 0 {
			cs.Share = revenue / total
		}
		shares = append(shares, cs)
	}
	sort.Slice(shares, func(a, b int) bool {
		if shares[a].Revenue != shares[b].Revenue {
			return shares[a].Revenue > shares[b].Revenue
		}
		return shares[a].Country < shares[b].Country
	})
	return shares
}

// monthlyGrowth orders the monthly revenue sequence and computes
// month-over-month growth. The first month has no growth value, and a zero
// prior month leaves growth undefined rather than propagating an infinity.
func monthlyGrowth(byMonth map[monthKey]float64) []models.MonthlyRevenue {
	keys := make([]monthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].year != keys[b].year {
			return keys[a].year < keys[b].year
		}
		return keys[a].month < keys[b].month
	})

	series := make([]models.MonthlyRevenue, 0, len(keys))
	for i, k := range keys {
		m := models.MonthlyRevenue{Year: k.year, Month: k.month, Revenue: byMonth[k]}
		if i > 0 {
			prior := byMonth[keys[i-1]]
			if prior != 0 {
				g := (m.Revenue - prior) / prior
				m.Growth = &g
			}
		}
		series = append(series, m)
	}
	return series
}

func segmentSummaries(customers []models.CustomerMetrics) []models.SegmentSummary {
	bySegment := make(map[string]*models.SegmentSummary)
	var total float64
	for i := range customers {
		c := &customers[i]
		agg, ok := bySegment[c.Segment]
		if !ok {
			agg = &models.SegmentSummary{Segment: c.Segment}
			bySegment[c.Segment] = agg
		}
		agg.Customers++
		revenue := c.Monetary.InexactFloat64()
		agg.Revenue += revenue
		total += revenue
	}

	out := make([]models.SegmentSummary, 0, len(bySegment))
	for _, agg := range bySegment {
		if total > 0 {
			agg.RevenueShare = agg.Revenue / total
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Revenue != out[b].Revenue {
			return out[a].Revenue > out[b].Revenue
		}
		return out[a].Segment < out[b].Segment
	})
	return out
}

// customerConcentration returns the repeat-purchase rate and the revenue
// share of the top 20% of customers by monetary value.
func customerConcentration(customers []models.CustomerMetrics) (repeatRate, top20Share float64) {
	var active, repeat int
	monetary := make([]float64, 0, len(customers))
	var total float64
	for i := range customers {
		if customers[i].Frequency == 0 {
			continue
		}
		active++
		if customers[i].Frequency > 1 {
			repeat++
		}
		v := customers[i].Monetary.InexactFloat64()
		monetary = append(monetary, v)
		total += v
	}
	if active == 0 {
		return 0, 0
	}

	repeatRate = float64(repeat) / float64(active)

	sort.Sort(sort.Reverse(sort.Float64Slice(monetary)))
	topN := active / 5
	if topN == 0 {
		topN = 1
	}
	var topRevenue float64
	for _, v := range monetary[:topN] {
		topRevenue += v
	}
	if total > 0 {
		top20Share = topRevenue / total
	}
	return repeatRate, top20Share
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
