package kitchen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/logger"
	"github.com/MikeMC777/comandas/internal/order"
)

var ErrRenderFailed = errors.New("kitchen ticket could not be rendered")

// Renderer delivers a ticket to the kitchen. It has no effect on print state.
type Renderer interface {
	Render(ctx context.Context, t Ticket) error
}

type OrderReader interface {
	Get(ctx context.Context, orderID string) (*order.Order, []order.Item, error)
}

// Dispatcher renders the unprinted part of an order and confirms exactly
// what was rendered. A failed render confirms nothing, so the same items
// come back on the next attempt.
type Dispatcher struct {
	orders   OrderReader
	tracker  *Tracker
	renderer Renderer
	log      *zap.Logger
	now      func() time.Time
}

func NewDispatcher(orders OrderReader, tracker *Tracker, renderer Renderer, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		orders:   orders,
		tracker:  tracker,
		renderer: renderer,
		log:      logger.OrNop(log),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type DispatchResult struct {
	Ticket  Ticket `json:"ticket"`
	Printed int    `json:"printed"`
}

func (d *Dispatcher) Dispatch(ctx context.Context, orderID string) (*DispatchResult, error) {
	o, _, err := d.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Active {
		return nil, apperr.OrderClosed(orderID)
	}
	items, err := d.tracker.Unprinted(ctx, orderID)
	if err != nil {
		return nil, err
	}
	t := NewTicket(*o, items, d.now())
	if t.Empty() {
		return &DispatchResult{Ticket: t}, nil
	}

	if err := d.renderer.Render(ctx, t); err != nil {
		d.log.Warn("ticket render failed",
			zap.String("order_id", orderID),
			zap.Int("lines", len(t.Lines)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	n, err := d.tracker.ConfirmPrinted(ctx, orderID, t.ItemIDs())
	if err != nil {
		return nil, err
	}
	d.log.Info("ticket dispatched",
		zap.String("order_id", orderID),
		zap.Int("lines", len(t.Lines)),
		zap.Int("printed", n),
	)
	return &DispatchResult{Ticket: t, Printed: n}, nil
}
