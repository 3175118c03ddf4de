// Package audit turns removals of already-printed line items into
// append-only loss records.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/logger"
)

type Auditor struct {
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewAuditor(log *zap.Logger) *Auditor {
	return &Auditor{
		log:   logger.OrNop(log),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// WithClock overrides the record timestamp source.
func (a *Auditor) WithClock(now func() time.Time) *Auditor {
	a.now = now
	return a
}

// OnLineItemRemoval is called by the order store before the item is
// removed. It returns nil when the kitchen never saw the item.
func (a *Auditor) OnLineItemRemoval(r Removal) *Record {
	if !r.Printed {
		return nil
	}
	lost := r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))).Round(2)
	rec := &Record{
		ID:              a.newID(),
		OrderID:         r.OrderID,
		EmployeeID:      r.EmployeeID,
		TableID:         r.TableID,
		TableNumber:     r.TableNumber,
		DishDescription: r.DishDescription,
		UnitPrice:       r.UnitPrice,
		Quantity:        r.Quantity,
		LostAmount:      lost,
		WasPrinted:      true,
		Action:          r.Kind(),
		CreatedAt:       a.now(),
	}
	a.log.Info("printed line item removed",
		zap.String("order_id", rec.OrderID),
		zap.String("employee_id", rec.EmployeeID),
		zap.String("dish", rec.DishDescription),
		zap.Int("quantity", rec.Quantity),
		zap.String("lost_amount", rec.LostAmount.StringFixed(2)),
		zap.String("action", string(rec.Action)),
	)
	return rec
}
