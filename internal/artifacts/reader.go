package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/cleaning"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// Reader serves persisted artifacts back to consumers such as the dashboard
// server. The server never re-derives cleaning decisions; the artifacts are
// the single source of truth.
type Reader struct {
	dir string
}

// NewReader creates a reader over an output directory.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// ReadSummary loads the summary statistics artifact.
func (r *Reader) ReadSummary() (*models.SummaryStats, error) {
	path := filepath.Join(r.dir, SummaryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading summary artifact")
	}
	var summary models.SummaryStats
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, errors.Wrap(err, "parsing summary artifact")
	}
	return &summary, nil
}

// ReadReport reconstructs the cleaning report from its CSV artifact.
func (r *Reader) ReadReport() (*models.CleaningReport, error) {
	path := filepath.Join(r.dir, ReportFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading cleaning report artifact")
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing cleaning report artifact")
	}
	if len(records) < 2 {
		return nil, errors.New("cleaning report artifact has no rule entries")
	}

	report := &models.CleaningReport{}
	for _, rec := range records[1:] {
		if len(rec) != len(reportHeader) {
			return nil, errors.Errorf("malformed report row: %v", rec)
		}
		removed, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, errors.Wrapf(err, "bad rows_removed for rule %s", rec[0])
		}
		remaining, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, errors.Wrapf(err, "bad rows_remaining for rule %s", rec[0])
		}
		flagged, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, errors.Wrapf(err, "bad rows_flagged for rule %s", rec[0])
		}
		switch rec[0] {
		case cleaning.RuleFlagReturns:
			report.Flags.Returns = flagged
		case cleaning.RuleComputeAmount:
			report.Flags.IntegrityAnomalies = flagged
		case cleaning.RuleFlagOutliers:
			report.Flags.Outliers = flagged
		case flagZeroQuantityRow:
			report.Flags.ZeroQuantity = flagged
			continue // trailer row, not a rule entry
		case flagZeroPriceRow:
			report.Flags.ZeroPrice = flagged
			continue
		}
		report.Entries = append(report.Entries, models.RuleResult{
			Rule:          rec[0],
			Description:   rec[1],
			RowsRemoved:   removed,
			RowsRemaining: remaining,
		})
	}

	if len(report.Entries) == 0 {
		return nil, errors.New("cleaning report artifact has no rule entries")
	}

	first := report.Entries[0]
	report.InitialRows = first.RowsRemaining + first.RowsRemoved
	report.FinalRows = report.Entries[len(report.Entries)-1].RowsRemaining
	return report, nil
}

// PreviewCleaned returns the header plus up to limit rows of the cleaned
// table, as raw CSV records for display.
func (r *Reader) PreviewCleaned(limit int) ([][]string, error) {
	path := filepath.Join(r.dir, CleanedFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading cleaned table artifact")
	}
	defer f.Close()

	cr := csv.NewReader(f)
	var records [][]string
	for len(records) < limit+1 {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing cleaned table artifact")
		}
		records = append(records, rec)
	}
	return records, nil
}
