package models

// RuleResult is one entry of the cleaning audit trail: a rule that was
// applied, how many rows it removed and how many survived it. Entries appear
// in the exact order rules were applied.
type RuleResult struct {
	Rule          string `json:"rule"`
	Description   string `json:"description"`
	RowsRemoved   int    `json:"rows_removed"`
	RowsRemaining int    `json:"rows_remaining"`
}

// CleaningFlags counts rows that were retained but flagged for separate
// reporting. Nothing counted here was dropped.
type CleaningFlags struct {
	Returns            int `json:"returns"`
	ZeroQuantity       int `json:"zero_quantity"`
	ZeroPrice          int `json:"zero_price"`
	Outliers           int `json:"outliers"`
	IntegrityAnomalies int `json:"integrity_anomalies"`
}

// CleaningReport is the audit trail of a cleaning run. It is a first-class
// output of the stage, reproducible from the same input.
type CleaningReport struct {
	InitialRows int           `json:"initial_rows"`
	FinalRows   int           `json:"final_rows"`
	Entries     []RuleResult  `json:"entries"`
	Flags       CleaningFlags `json:"flags"`
}

// RowsRemoved returns the sum of removals across all rules. The conservation
// property InitialRows - RowsRemoved == FinalRows holds for every run.
func (r *CleaningReport) RowsRemoved() int {
	total := 0
	for _, e := range r.Entries {
		total += e.RowsRemoved
	}
	return total
}
