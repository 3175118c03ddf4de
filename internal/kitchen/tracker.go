// Package kitchen tracks which line items the kitchen has been sent and
// builds incremental tickets from the rest.
package kitchen

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/logger"
	"github.com/MikeMC777/comandas/internal/order"
)

// PrintStore is the print-state slice of the order repository.
type PrintStore interface {
	Unprinted(ctx context.Context, orderID string) ([]order.Item, error)
	MarkPrinted(ctx context.Context, orderID string, ids []string) (int, error)
}

type Tracker struct {
	store PrintStore
	log   *zap.Logger
}

func NewTracker(store PrintStore, log *zap.Logger) *Tracker {
	return &Tracker{store: store, log: logger.OrNop(log)}
}

// Unprinted returns the order's items not yet sent, in creation order.
func (t *Tracker) Unprinted(ctx context.Context, orderID string) ([]order.Item, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, apperr.Validation("order id must be a uuid")
	}
	items, err := t.store.Unprinted(ctx, orderID)
	if err != nil {
		return nil, t.fail("list unprinted", err)
	}
	return items, nil
}

// ConfirmPrinted marks the given items printed and returns how many changed.
// Ids that are not in the order or already printed are skipped, so repeating
// a call updates nothing. An empty list updates nothing too, but the order
// must still exist and be active.
func (t *Tracker) ConfirmPrinted(ctx context.Context, orderID string, itemIDs []string) (int, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return 0, apperr.Validation("order id must be a uuid")
	}
	ids := make([]string, 0, len(itemIDs))
	seen := make(map[string]struct{}, len(itemIDs))
	for _, raw := range itemIDs {
		id := strings.TrimSpace(raw)
		if _, err := uuid.Parse(id); err != nil {
			return 0, apperr.Validation("invalid line item id %q", raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	n, err := t.store.MarkPrinted(ctx, orderID, ids)
	if err != nil {
		return 0, t.fail("mark printed", err)
	}
	t.log.Info("print confirmed",
		zap.String("order_id", orderID),
		zap.Int("requested", len(ids)),
		zap.Int("updated", n),
	)
	return n, nil
}

func (t *Tracker) fail(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	t.log.Error(op+" failed", zap.Error(err))
	return apperr.Internal(op, err)
}
