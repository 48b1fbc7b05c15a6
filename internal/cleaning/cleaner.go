package cleaning

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// Cleaner turns validated raw rows into the cleaned transaction table plus
// its audit trail. Rules run as a fold over the working set: each rule sees
// the survivors of the previous one and appends its own report entry, so the
// report falls out of the fold rather than being logged on the side.
type Cleaner struct {
	rules    []DropRule
	fenceK   float64
	validate *validator.Validate
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithFenceK overrides the Tukey fence multiplier used for outlier flagging.
func WithFenceK(k float64) Option {
	return func(c *Cleaner) {
		if k > 0 {
			c.fenceK = k
		}
	}
}

// NewCleaner creates a cleaner with the contractual rule order and a Tukey
// fence multiplier of 3.
func NewCleaner(opts ...Option) *Cleaner {
	c := &Cleaner{
		rules:    defaultDropRules(),
		fenceK:   3.0,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean applies all rules in order and returns the cleaned table and report.
// A run that removes every row fails with ErrEmptyResult; any other outcome,
// however lossy, is reported rather than fatal.
func (c *Cleaner) Clean(raw []models.RawTransaction) ([]models.Transaction, *models.CleaningReport, error) {
	report := &models.CleaningReport{InitialRows: len(raw)}

	rows := raw
	for _, rule := range c.rules {
		var kept []models.RawTransaction
		if rule.Name == RuleDuplicates {
			kept = applyDuplicateRule(rows)
		} else {
			kept = make([]models.RawTransaction, 0, len(rows))
			for i := range rows {
				if !rule.Drop(&rows[i]) {
					kept = append(kept, rows[i])
				}
			}
		}

		removed := len(rows) - len(kept)
		report.Entries = append(report.Entries, models.RuleResult{
			Rule:          rule.Name,
			Description:   rule.Description,
			RowsRemoved:   removed,
			RowsRemaining: len(kept),
		})
		log.Printf("Cleaning rule %s: removed %d rows, %d remaining", rule.Name, removed, len(kept))
		rows = kept
	}

	if len(rows) == 0 {
		return nil, report, ErrEmptyResult
	}

	// Flag-and-derive steps operate on the survivors. They never remove rows.
	txs := c.materialize(rows, report)
	c.flagOutliers(txs, report)
	deriveCalendar(txs)
	c.checkIntegrity(txs, report)

	report.Entries = append(report.Entries,
		models.RuleResult{
			Rule:          RuleFlagReturns,
			Description:   "Flag negative-quantity rows as returns (retained)",
			RowsRemaining: len(txs),
		},
		models.RuleResult{
			Rule:          RuleComputeAmount,
			Description:   "Recompute total amount as quantity x unit price",
			RowsRemaining: len(txs),
		},
		models.RuleResult{
			Rule:          RuleFlagOutliers,
			Description:   "Flag amounts outside the 3xIQR Tukey fence (retained)",
			RowsRemaining: len(txs),
		},
		models.RuleResult{
			Rule:          RuleDeriveCalendar,
			Description:   "Derive calendar columns from the invoice timestamp",
			RowsRemaining: len(txs),
		},
	)

	report.FinalRows = len(txs)
	log.Printf("Cleaning complete: %d of %d rows retained (%d returns, %d outliers)",
		len(txs), len(raw), report.Flags.Returns, report.Flags.Outliers)

	return txs, report, nil
}

// applyDuplicateRule keeps the first occurrence of every raw-field identity.
func applyDuplicateRule(rows []models.RawTransaction) []models.RawTransaction {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]models.RawTransaction, 0, len(rows))
	for i := range rows {
		key := rows[i].Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rows[i])
	}
	return kept
}

// materialize converts surviving raw rows into cleaned transactions,
// recomputing the total amount and setting the return and zero flags.
func (c *Cleaner) materialize(rows []models.RawTransaction, report *models.CleaningReport) []models.Transaction {
	txs := make([]models.Transaction, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		tx := models.Transaction{
			InvoiceNo:   r.InvoiceNo,
			StockCode:   r.StockCode,
			Description: r.Description,
			Quantity:    *r.Quantity,
			UnitPrice:   *r.UnitPrice,
			InvoiceDate: *r.InvoiceDate,
			CustomerID:  r.CustomerID,
			Country:     r.Country,
		}

		// Total amount is always recomputed, never copied from input.
		qty := decimalFromInt(tx.Quantity)
		tx.TotalAmount = qty.Mul(tx.UnitPrice)

		tx.IsReturn = tx.Quantity < 0
		tx.IsZeroQuantity = tx.Quantity == 0
		tx.IsZeroPrice = tx.UnitPrice.IsZero()

		if tx.IsReturn {
			report.Flags.Returns++
		}
		if tx.IsZeroQuantity {
			report.Flags.ZeroQuantity++
		}
		if tx.IsZeroPrice {
			report.Flags.ZeroPrice++
		}

		txs = append(txs, tx)
	}
	return txs
}

// checkIntegrity verifies the cleaned-record invariants. A negative total on
// a non-return row is a data-integrity anomaly: it is counted in the report,
// never silently corrected.
func (c *Cleaner) checkIntegrity(txs []models.Transaction, report *models.CleaningReport) {
	for i := range txs {
		tx := &txs[i]
		if !tx.IsReturn && tx.TotalAmount.Sign() < 0 {
			report.Flags.IntegrityAnomalies++
			log.Printf("Integrity anomaly: non-return row %s/%s has negative amount %s",
				tx.InvoiceNo, tx.StockCode, tx.TotalAmount)
			continue
		}
		if err := c.validate.Struct(tx); err != nil {
			report.Flags.IntegrityAnomalies++
			log.Printf("Integrity anomaly: row %s/%s failed validation: %v",
				tx.InvoiceNo, tx.StockCode, err)
		}
	}
}
