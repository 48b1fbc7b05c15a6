package metrics

import "github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"

// Rank thresholds used by the segment rules. Rank 1 is the top quartile of a
// measure; ranks 1-2 are the top half. These are the tunable cutoffs of the
// segmentation, not magic numbers inside predicates.
const (
	TopQuartile    = 1
	TopHalf        = 2
	BottomHalf     = 3
	BottomQuartile = 4
)

// Segment labels.
const (
	SegmentChampions   = "Champions"
	SegmentLoyal       = "Loyal Customers"
	SegmentBigSpenders = "Big Spenders"
	SegmentFrequent    = "Frequent Buyers"
	SegmentRecent      = "Recent Customers"
	SegmentAtRisk      = "At Risk"
	SegmentHibernating = "Hibernating"
	SegmentRegular     = "Regular"
	SegmentReturnsOnly = "Returns Only"
)

// SegmentRule maps a quartile-rank predicate to a label. Rules are evaluated
// in priority order; the first match wins.
type SegmentRule struct {
	Label   string
	Matches func(r, f, m int) bool
}

// segmentRules is the priority-ordered rule table. Adding a segment means
// adding a row here, not another branch in a conditional tree.
var segmentRules = []SegmentRule{
	{SegmentChampions, func(r, f, m int) bool {
		return r == TopQuartile && f <= TopHalf && m <= TopHalf
	}},
	{SegmentLoyal, func(r, f, m int) bool {
		return r <= TopHalf && f <= TopHalf
	}},
	{SegmentBigSpenders, func(r, f, m int) bool {
		return m == TopQuartile
	}},
	{SegmentFrequent, func(r, f, m int) bool {
		return f == TopQuartile
	}},
	{SegmentRecent, func(r, f, m int) bool {
		return r == TopQuartile
	}},
	{SegmentAtRisk, func(r, f, m int) bool {
		return r >= BottomHalf && f <= TopHalf && m <= TopHalf
	}},
	{SegmentHibernating, func(r, f, m int) bool {
		return r == BottomQuartile && f == BottomQuartile
	}},
}

// assignSegments labels every customer. Unranked customers (return-only
// history) get the ReturnsOnly label; customers matched by no rule fall
// through to Regular.
func assignSegments(customers []models.CustomerMetrics) {
	for i := range customers {
		c := &customers[i]
		if c.RecencyRank == 0 {
			c.Segment = SegmentReturnsOnly
			continue
		}
		c.Segment = matchSegment(c.RecencyRank, c.FrequencyRank, c.MonetaryRank)
	}
}

func matchSegment(r, f, m int) string {
	for _, rule := range segmentRules {
		if rule.Matches(r, f, m) {
			return rule.Label
		}
	}
	return SegmentRegular
}
