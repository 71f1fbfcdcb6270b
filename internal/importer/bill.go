package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/billsum/billsum/internal/model"
)

// Header labels a bill export must carry. Columns are matched by label, not position.
const (
	ColDate     = "Transaction date"
	ColMerchant = "Merchant name"
	ColAmount   = "Billing amount"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MissingColumnsError reports required header labels absent from the input.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing columns: " + strings.Join(e.Columns, ", ")
}

// RowError describes why a single row was dropped.
type RowError struct {
	Row int // 1-based line in the file, header = 1
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// BillParser parses header-labeled bill exports with DD/MM/YYYY dates and
// comma/tab contaminated amounts. Malformed rows are dropped, never fatal.
type BillParser struct {
	// Logger receives one debug line per dropped row. Nil discards.
	Logger *slog.Logger
}

// Format returns the parser name.
func (p *BillParser) Format() string { return "bill" }

// Parse reads a bill CSV and returns the rows that decode cleanly, in file order.
// When the header is unreadable or lacks a required label, Parse returns no bills
// together with an error describing why; callers that only want the bills can
// ignore it.
func (p *BillParser) Parse(r io.Reader) ([]model.Bill, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var bills []model.Bill
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.reject(RowError{Row: row, Err: err})
			continue
		}
		if len(rec) != len(header) {
			p.reject(RowError{Row: row, Err: fmt.Errorf("expected %d fields, got %d", len(header), len(rec))})
			continue
		}
		bill, err := parseBillRow(rec, cols)
		if err != nil {
			p.reject(RowError{Row: row, Err: err})
			continue
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

func (p *BillParser) reject(e RowError) {
	if p.Logger == nil {
		return
	}
	p.Logger.Debug("dropping row", "row", e.Row, "reason", e.Err)
}

type columns struct {
	date, merchant, amount int
}

func headerIndex(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	lookup := func(label string) int {
		i, ok := idx[label]
		if !ok {
			missing = append(missing, label)
		}
		return i
	}
	cols := columns{
		date:     lookup(ColDate),
		merchant: lookup(ColMerchant),
		amount:   lookup(ColAmount),
	}
	if len(missing) > 0 {
		return columns{}, &MissingColumnsError{Columns: missing}
	}
	return cols, nil
}

func parseBillRow(rec []string, cols columns) (model.Bill, error) {
	date, err := model.ParseDate(rec[cols.date])
	if err != nil {
		return model.Bill{}, err
	}

	amount, err := ParseAmount(rec[cols.amount])
	if err != nil {
		return model.Bill{}, err
	}

	return model.Bill{
		Date:     date,
		Merchant: rec[cols.merchant],
		Amount:   amount,
	}, nil
}

var amountStripper = strings.NewReplacer(",", "", "\t", "")

// ParseAmount strips thousands separators and tabs, then parses a decimal.
// "1,234.56" and "1\t234.56" both yield 1234.56.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := amountStripper.Replace(s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
