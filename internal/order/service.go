// Package order is the order store: opening orders against tables or as
// takeaway, line items with price snapshots, removal under audit, closing.
package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/actor"
	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/logger"
	"github.com/MikeMC777/comandas/internal/table"
)

// DishLookup is the slice of the catalog the store reads, once, per line item.
type DishLookup interface {
	GetByID(ctx context.Context, id string) (*catalog.Dish, error)
}

// Auditor receives every removal before the item is touched.
type Auditor interface {
	OnLineItemRemoval(r audit.Removal) *audit.Record
}

type Service struct {
	repo    Repository
	dishes  DishLookup
	auditor Auditor
	log     *zap.Logger
}

func NewService(repo Repository, dishes DishLookup, auditor Auditor, log *zap.Logger) *Service {
	return &Service{repo: repo, dishes: dishes, auditor: auditor, log: logger.OrNop(log)}
}

type OpenInput struct {
	TableIDs []string
	Takeaway bool
}

// OpenOrder opens an order for the acting employee. Exactly one of a
// non-empty table set or takeaway must be given.
func (s *Service) OpenOrder(ctx context.Context, act actor.Actor, in OpenInput) (*Order, error) {
	if !act.Valid() {
		return nil, apperr.Validation("employee identity is required")
	}
	if in.Takeaway == (len(in.TableIDs) > 0) {
		return nil, apperr.Validation("provide either table ids or takeaway, not both or neither")
	}
	var ids []string
	if !in.Takeaway {
		var err error
		if ids, err = table.NormalizeIDs(in.TableIDs); err != nil {
			return nil, err
		}
	}

	o := &Order{ID: uuid.NewString(), EmployeeID: act.EmployeeID, Takeaway: in.Takeaway}
	if err := s.repo.Create(ctx, o, ids); err != nil {
		return nil, s.fail(ctx, "open order", err)
	}
	s.log.Info("order opened",
		zap.String("order_id", o.ID),
		zap.String("employee_id", o.EmployeeID),
		zap.Bool("takeaway", o.Takeaway),
		zap.Int("tables", len(o.Tables)),
	)
	return o, nil
}

// AddLineItem snapshots the dish's current name and price into a new item.
func (s *Service) AddLineItem(ctx context.Context, act actor.Actor, orderID, dishID string, qty int) (*Item, *Order, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, nil, err
	}
	if err := requireID("dish id", dishID); err != nil {
		return nil, nil, err
	}
	if qty <= 0 {
		return nil, nil, apperr.Validation("quantity must be positive")
	}
	dish, err := s.dishes.GetByID(ctx, dishID)
	if err != nil {
		return nil, nil, s.fail(ctx, "lookup dish", err)
	}
	if !dish.Available {
		return nil, nil, apperr.Validation("dish %s is not available", dish.Name)
	}

	it := &Item{
		ID:        uuid.NewString(),
		DishID:    dish.ID,
		DishName:  dish.Label(),
		Quantity:  qty,
		UnitPrice: dish.Price.Round(2),
	}
	o, err := s.repo.AddItem(ctx, orderID, it)
	if err != nil {
		return nil, nil, s.fail(ctx, "add line item", err)
	}
	s.log.Debug("line item added",
		zap.String("order_id", orderID),
		zap.String("item_id", it.ID),
		zap.String("employee_id", act.EmployeeID),
		zap.Int("quantity", qty),
	)
	return it, o, nil
}

// RemoveResult reports the new order state and the audit record, if the
// removed item had already been printed.
type RemoveResult struct {
	Order  *Order
	Record *audit.Record
}

// RemoveLineItem removes qty units of an item; qty 0 means the whole line.
// The auditor sees the pre-removal item inside the same transaction.
func (s *Service) RemoveLineItem(ctx context.Context, act actor.Actor, orderID, itemID string, qty int) (*RemoveResult, error) {
	if !act.Valid() {
		return nil, apperr.Validation("employee identity is required")
	}
	if err := requireID("order id", orderID); err != nil {
		return nil, err
	}
	if err := requireID("line item id", itemID); err != nil {
		return nil, err
	}
	if qty < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}

	plan := func(o Order, it Item) (RemovalPlan, error) {
		n := qty
		if n == 0 {
			n = it.Quantity
		}
		if n > it.Quantity {
			return RemovalPlan{}, apperr.Validation("cannot remove %d units from a line of %d", n, it.Quantity)
		}
		r := audit.Removal{
			OrderID:         o.ID,
			EmployeeID:      act.EmployeeID,
			DishDescription: it.DishName,
			UnitPrice:       it.UnitPrice,
			ItemQuantity:    it.Quantity,
			Quantity:        n,
			Printed:         it.Printed,
		}
		if t := o.PrimaryTable(); t != nil {
			id, number := t.ID, t.Number
			r.TableID, r.TableNumber = &id, &number
		}
		return RemovalPlan{Quantity: n, Record: s.auditor.OnLineItemRemoval(r)}, nil
	}

	o, p, err := s.repo.RemoveItem(ctx, orderID, itemID, plan)
	if err != nil {
		return nil, s.fail(ctx, "remove line item", err)
	}
	s.log.Info("line item removed",
		zap.String("order_id", orderID),
		zap.String("item_id", itemID),
		zap.String("employee_id", act.EmployeeID),
		zap.Int("quantity", p.Quantity),
		zap.Bool("audited", p.Record != nil),
	)
	return &RemoveResult{Order: o, Record: p.Record}, nil
}

// CloseOrder finalizes the order and frees its tables.
func (s *Service) CloseOrder(ctx context.Context, act actor.Actor, orderID string) (*Order, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, err
	}
	o, err := s.repo.Close(ctx, orderID)
	if err != nil {
		return nil, s.fail(ctx, "close order", err)
	}
	s.log.Info("order closed",
		zap.String("order_id", o.ID),
		zap.String("closed_by", act.EmployeeID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

func (s *Service) ListActive(ctx context.Context, f ListFilter) ([]Order, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out, err := s.repo.ListActive(ctx, f)
	if err != nil {
		return nil, s.fail(ctx, "list active orders", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, []Item, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, nil, err
	}
	o, items, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, s.fail(ctx, "get order", err)
	}
	return o, items, nil
}

// ClosedLines returns sold lines of closed orders for reporting.
func (s *Service) ClosedLines(ctx context.Context, q ClosedQuery) ([]SoldLine, error) {
	out, err := s.repo.ClosedLines(ctx, q)
	if err != nil {
		return nil, s.fail(ctx, "list closed lines", err)
	}
	return out, nil
}

// fail passes application errors through and wraps anything else as an
// internal error after logging it.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	s.log.Error(op+" failed", zap.Error(err))
	return apperr.Internal(op, err)
}

func requireID(name, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("%s must be a uuid", name)
	}
	return nil
}
