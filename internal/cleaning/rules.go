package cleaning

import "github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"

// DropRule is a single row-removal rule: rows matched by Drop are removed
// from the working set. Rules are applied in list order and each removal is
// recorded in the cleaning report, so the order here is part of the stage's
// contract.
type DropRule struct {
	Name        string
	Description string
	Drop        func(*models.RawTransaction) bool
}

// Rule names, in application order. Flag-and-derive steps share the same
// report namespace even though they never remove rows.
const (
	RuleMissingInvoice  = "drop_missing_invoice"
	RuleMissingCustomer = "drop_missing_customer"
	RuleDuplicates      = "drop_duplicates"
	RuleInvalidPrice    = "drop_invalid_price"
	RuleFailedCoercion  = "drop_failed_coercion"
	RuleFlagReturns     = "flag_returns"
	RuleComputeAmount   = "compute_amount"
	RuleFlagOutliers    = "flag_outliers"
	RuleDeriveCalendar  = "derive_calendar"
)

// defaultDropRules returns the removal rules in their contractual order.
// Duplicate removal is handled separately because it needs cross-row state.
func defaultDropRules() []DropRule {
	return []DropRule{
		{
			Name:        RuleMissingInvoice,
			Description: "Drop rows with a null or empty invoice identifier",
			Drop: func(r *models.RawTransaction) bool {
				return r.InvoiceNo == ""
			},
		},
		{
			Name:        RuleMissingCustomer,
			Description: "Drop rows with a null or empty customer identifier",
			Drop: func(r *models.RawTransaction) bool {
				return r.CustomerID == ""
			},
		},
		{
			Name:        RuleDuplicates,
			Description: "Drop exact duplicates (all raw fields identical)",
			Drop:        nil, // stateful, see applyDuplicateRule
		},
		{
			Name:        RuleInvalidPrice,
			Description: "Drop rows where unit price fails numeric coercion or is negative",
			Drop: func(r *models.RawTransaction) bool {
				return r.UnitPrice == nil || r.UnitPrice.IsNegative()
			},
		},
		{
			Name:        RuleFailedCoercion,
			Description: "Drop rows where quantity or timestamp failed coercion",
			Drop: func(r *models.RawTransaction) bool {
				return r.Quantity == nil || r.InvoiceDate == nil
			},
		},
	}
}
