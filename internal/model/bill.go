package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill represents a parsed row of a bill export.
type Bill struct {
	Date     time.Time       // calendar date, UTC midnight
	Merchant string          // empty = no merchant
	Amount   decimal.Decimal // negative = payment out, positive = refund/credit
}

// DateRange is an inclusive pair of calendar dates.
// Start <= End is not enforced here.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within [Start, End].
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
