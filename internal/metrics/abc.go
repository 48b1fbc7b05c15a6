package metrics

import (
	"sort"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// ABC class boundaries on cumulative revenue share.
const (
	abcClassAShare = 0.80
	abcClassBShare = 0.95
)

// classifyProducts ranks products by descending revenue and assigns ABC
// classes: A covers the first 80% of cumulative revenue, B the next 15%,
// C the tail. Stock codes break revenue ties for reproducible output.
func classifyProducts(byProduct map[string]float64, total float64) []models.ProductRevenue {
	products := make([]models.ProductRevenue, 0, len(byProduct))
	for code, revenue := range byProduct {
		products = append(products, models.ProductRevenue{StockCode: code, Revenue: revenue})
	}
	sort.Slice(products, func(a, b int) bool {
		if products[a].Revenue != products[b].Revenue {
			return products[a].Revenue > products[b].Revenue
		}
		return products[a].StockCode < products[b].StockCode
	})

	var cumulative float64
	for i := range products {
		cumulative += products[i].Revenue
		if total > 0 {
			products[i].CumulativeShare = cumulative / total
		}
		switch {
		case products[i].CumulativeShare <= abcClassAShare:
			products[i].Class = "A"
		case products[i].CumulativeShare <= abcClassBShare:
			products[i].Class = "B"
		default:
			products[i].Class = "C"
		}
	}
	return products
}
