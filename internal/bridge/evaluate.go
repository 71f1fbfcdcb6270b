package bridge

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/billsum/billsum/internal/config"
	"github.com/billsum/billsum/internal/model"
	"github.com/billsum/billsum/internal/selection"
)

// Computer computes the spending total of a raw bill export.
type Computer interface {
	ComputeTotal(raw []byte, r model.DateRange) decimal.Decimal
}

// TotalFunc returns the spending total over r.
type TotalFunc func(r model.DateRange) decimal.Decimal

// Evaluate checks the date selection, runs total and turns the outcome into
// a Response. total is only called when both dates are set and start is
// strictly before end.
func Evaluate(state selection.State, total TotalFunc, msgs config.MessagesConfig) Response {
	switch {
	case state.Start == nil && state.End == nil:
		return errorResponse(msgs.NeedBothDates)
	case state.End == nil:
		return errorResponse(msgs.NeedEndDate)
	case state.Start == nil:
		return errorResponse(msgs.NeedStartDate)
	}

	start, end := *state.Start, *state.End
	if !start.Before(end) {
		return errorResponse(msgs.StartBeforeEnd)
	}

	// A zero total also covers an unreadable export; both read as no data.
	sum := total(model.DateRange{Start: start, End: end})
	if sum.IsZero() {
		return errorResponse(msgs.NoData)
	}
	return Response{
		Status: StatusOK,
		Result: fmt.Sprintf(msgs.Total, sum.StringFixed(2)),
	}
}

func errorResponse(msg string) Response {
	return Response{Status: StatusError, Result: msg}
}
