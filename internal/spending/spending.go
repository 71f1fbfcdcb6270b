// Package spending sums bill amounts over an inclusive date range.
package spending

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/billsum/billsum/internal/importer"
	"github.com/billsum/billsum/internal/model"
)

// Total returns the negated sum of amounts for bills with a merchant and a
// date inside r. Exports record payments as negative amounts, so money spent
// comes back positive. Zero means nothing qualified.
func Total(bills []model.Bill, r model.DateRange) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		if b.Merchant == "" {
			continue
		}
		if b.Date.Before(r.Start) {
			continue
		}
		if b.Date.After(r.End) {
			continue
		}
		total = total.Add(b.Amount)
	}
	return total.Neg()
}

// ComputeTotal decodes a bill export and returns Total over r.
// An export that cannot be read at all yields zero, same as one with no
// qualifying rows.
func ComputeTotal(raw []byte, r model.DateRange) decimal.Decimal {
	return NewCalculator(nil).ComputeTotal(raw, r)
}

// Calculator is ComputeTotal with a logger for dropped rows and unreadable input.
type Calculator struct {
	parser *importer.BillParser
	log    *slog.Logger
}

// NewCalculator creates a Calculator. A nil logger discards.
func NewCalculator(log *slog.Logger) *Calculator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Calculator{
		parser: &importer.BillParser{Logger: log},
		log:    log,
	}
}

// ComputeTotal decodes raw and returns Total over r.
func (c *Calculator) ComputeTotal(raw []byte, r model.DateRange) decimal.Decimal {
	bills, err := c.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		c.log.Debug("export unreadable, treating as empty", "error", err)
	}
	return Total(bills, r)
}
