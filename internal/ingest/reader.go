package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/models"
)

// TimeLayout is the timestamp format used by the reference dataset
// (month/day/year, 24h clock, no seconds).
const TimeLayout = "1/2/2006 15:04"

// Column names the input file must provide. Order in the file does not
// matter; presence does.
const (
	ColInvoiceNo   = "InvoiceNo"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColInvoiceDate = "InvoiceDate"
	ColUnitPrice   = "UnitPrice"
	ColCustomerID  = "CustomerID"
	ColCountry     = "Country"
)

var expectedColumns = []string{
	ColInvoiceNo, ColStockCode, ColDescription, ColQuantity,
	ColInvoiceDate, ColUnitPrice, ColCustomerID, ColCountry,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader loads the raw transaction file into memory, coercing each column to
// its semantic type. Coercion failures become nil fields; only a broken
// schema is fatal.
type Reader struct {
	layout string
	latin1 bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithTimeLayout overrides the timestamp layout.
func WithTimeLayout(layout string) ReaderOption {
	return func(r *Reader) { r.layout = layout }
}

// WithUTF8 disables the ISO-8859-1 decoding applied to the reference dataset.
func WithUTF8() ReaderOption {
	return func(r *Reader) { r.latin1 = false }
}

// NewReader creates a reader for the reference dataset conventions
// (ISO-8859-1 encoding, m/d/Y H:M timestamps).
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{layout: TimeLayout, latin1: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile opens path read-only and loads it. The source file is never
// modified.
func (r *Reader) ReadFile(path string) ([]models.RawTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	rows, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read loads raw transactions from rd. The header row is validated against
// the expected column set; missing columns are a fatal *SchemaError.
func (r *Reader) Read(rd io.Reader) ([]models.RawTransaction, error) {
	// The BOM must go before the decoder runs: under ISO-8859-1 its bytes
	// decode to three junk characters glued to the first column name.
	br := bufio.NewReader(rd)
	if lead, err := br.Peek(3); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(3)
	}
	rd = br

	if r.latin1 {
		rd = transform.NewReader(rd, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1 // ragged rows are handled per-field

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: expectedColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []models.RawTransaction
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, models.RawTransaction{
			InvoiceNo:   field(record, cols[ColInvoiceNo]),
			StockCode:   field(record, cols[ColStockCode]),
			Description: field(record, cols[ColDescription]),
			Quantity:    parseInt(field(record, cols[ColQuantity])),
			UnitPrice:   parseDecimal(field(record, cols[ColUnitPrice])),
			InvoiceDate: r.parseTime(field(record, cols[ColInvoiceDate])),
			CustomerID:  field(record, cols[ColCustomerID]),
			Country:     field(record, cols[ColCountry]),
		})
	}

	log.Printf("Loaded %d raw rows (%d columns)", len(rows), len(header))
	return rows, nil
}

// indexColumns maps expected column names to their position in the header.
func indexColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		positions[name] = i
	}

	cols := make(map[string]int, len(expectedColumns))
	var missing []string
	for _, name := range expectedColumns {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDecimal(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &v
}

func (r *Reader) parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(r.layout, s)
	if err != nil {
		return nil
	}
	return &t
}
