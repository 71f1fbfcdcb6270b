package bridge

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/billsum/billsum/internal/config"
	"github.com/billsum/billsum/internal/model"
	"github.com/billsum/billsum/internal/selection"
)

// Hub runs two independent event loops: one applies DateRequests to the
// selection store, the other answers each CSVData with a Response computed
// from the latest selection snapshot.
type Hub struct {
	store selection.Store
	calc  Computer
	msgs  config.MessagesConfig
	log   *slog.Logger

	dates     chan DateRequest
	data      chan CSVData
	responses chan Response
}

// NewHub creates a Hub. queueSize bounds each input queue and the response queue.
func NewHub(store selection.Store, calc Computer, msgs config.MessagesConfig, log *slog.Logger, queueSize int) *Hub {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Hub{
		store:     store,
		calc:      calc,
		msgs:      msgs,
		log:       log.With("component", "hub"),
		dates:     make(chan DateRequest, queueSize),
		data:      make(chan CSVData, queueSize),
		responses: make(chan Response, queueSize),
	}
}

// Dates is the input queue for date selections. Close it to stop the date loop.
func (h *Hub) Dates() chan<- DateRequest { return h.dates }

// Data is the input queue for exports. Close it to stop the compute loop.
func (h *Hub) Data() chan<- CSVData { return h.data }

// Responses yields one Response per CSVData. It is closed when Run returns.
func (h *Hub) Responses() <-chan Response { return h.responses }

// Run blocks until both loops stop, either because their queue was closed
// or because ctx was cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.responses)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.dateLoop(ctx) })
	g.Go(func() error { return h.computeLoop(ctx) })
	return g.Wait()
}

func (h *Hub) dateLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-h.dates:
			if !ok {
				return nil
			}
			h.applyDate(req)
		}
	}
}

func (h *Hub) applyDate(req DateRequest) {
	if req.Date == nil {
		h.log.Debug("date request without a date", "role", req.Role)
		return
	}
	d, err := model.NewDate(req.Date.Year, req.Date.Month, req.Date.Day)
	if err != nil {
		h.log.Warn("ignoring date request", "role", req.Role, "error", err)
		return
	}
	switch req.Role {
	case RoleStart:
		h.store.SetStart(d)
	case RoleEnd:
		h.store.SetEnd(d)
	default:
		h.log.Warn("ignoring date request", "role", req.Role, "error", "unknown role")
		return
	}
	h.log.Debug("date selected", "role", req.Role, "date", model.FormatDate(d))
}

func (h *Hub) computeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-h.data:
			if !ok {
				return nil
			}
			resp := Evaluate(h.store.Load(), func(r model.DateRange) decimal.Decimal {
				return h.calc.ComputeTotal(msg.Binary, r)
			}, h.msgs)
			h.log.Info("computed", "status", resp.Status, "bytes", len(msg.Binary))
			select {
			case h.responses <- resp:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
