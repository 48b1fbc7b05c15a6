package metrics

import (
	"sort"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// assignQuartileRanks partitions each measure independently into four
// near-equal buckets (sizes differ by at most one). Rank 1 is the most
// favorable: lowest recency, highest frequency, highest monetary. Customers
// with an undefined measure (return-only history) stay at rank 0.
func assignQuartileRanks(customers []models.CustomerMetrics) {
	recency := make([]float64, len(customers))
	frequency := make([]float64, len(customers))
	monetary := make([]float64, len(customers))
	defined := make([]bool, len(customers))
	for i := range customers {
		defined[i] = customers[i].RecencyDays != nil
		if defined[i] {
			recency[i] = float64(*customers[i].RecencyDays)
			frequency[i] = float64(customers[i].Frequency)
			monetary[i] = customers[i].Monetary.InexactFloat64()
		}
	}

	rRanks := quartileRanks(recency, defined, true)
	fRanks := quartileRanks(frequency, defined, false)
	mRanks := quartileRanks(monetary, defined, false)
	for i := range customers {
		customers[i].RecencyRank = rRanks[i]
		customers[i].FrequencyRank = fRanks[i]
		customers[i].MonetaryRank = mRanks[i]
	}
}

// quartileRanks ranks the defined entries of values into buckets 1..4.
// ascendingFavorable selects whether low values rank best (recency) or high
// values do (frequency, monetary). Ties preserve the incoming order, which
// is the stable original ordering of the metric table.
func quartileRanks(values []float64, defined []bool, ascendingFavorable bool) []int {
	ranks := make([]int, len(values))

	var idx []int
	for i := range values {
		if defined[i] {
			idx = append(idx, i)
		}
	}
	n := len(idx)
	if n == 0 {
		return ranks
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if ascendingFavorable {
			return values[idx[a]] < values[idx[b]]
		}
		return values[idx[a]] > values[idx[b]]
	})

	for pos, i := range idx {
		ranks[i] = pos*4/n + 1
	}
	return ranks
}
