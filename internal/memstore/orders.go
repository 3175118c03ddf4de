package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
)

type orderRepo struct{ s *Store }

func (r orderRepo) Create(ctx context.Context, o *order.Order, tableIDs []string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var refs []order.TableRef
	if !o.Takeaway {
		seated, err := table.Assign(ctx, lockedSeating{s}, o.ID, tableIDs)
		if err != nil {
			return err
		}
		refs = make([]order.TableRef, len(seated))
		for i, t := range seated {
			refs[i] = order.TableRef{ID: t.ID, Number: t.Number}
		}
	}
	o.Active = true
	o.Total = decimal.Zero
	o.CreatedAt = s.now()
	o.Tables = refs
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

// lockedSeating is the table.Seating of a store whose mutex the caller
// already holds.
type lockedSeating struct{ s *Store }

func (l lockedSeating) Lock(_ context.Context, ids []string) ([]table.Slot, error) {
	var out []table.Slot
	for _, id := range ids {
		t, ok := l.s.tables[id]
		if !ok {
			continue
		}
		out = append(out, table.Slot{
			Table:    l.s.withStateLocked(*t),
			Occupied: l.s.activeOrderLocked(id) != "",
		})
	}
	return out, nil
}

func (l lockedSeating) Seat(_ context.Context, orderID string, ids []string) error {
	for _, id := range ids {
		if l.s.activeOrderLocked(id) != "" {
			return apperr.TableConflict("table %s is assigned to an active order", id)
		}
	}
	for _, id := range ids {
		l.s.assignments = append(l.s.assignments, table.Assignment{OrderID: orderID, TableID: id, Active: true})
	}
	return nil
}

func (l lockedSeating) Unseat(_ context.Context, orderID string) error {
	for i := range l.s.assignments {
		if l.s.assignments[i].OrderID == orderID {
			l.s.assignments[i].Active = false
		}
	}
	return nil
}

func (s *Store) activeOrderLocked(tableID string) string {
	for _, a := range s.assignments {
		if a.TableID == tableID && a.Active {
			return a.OrderID
		}
	}
	return ""
}

func (r orderRepo) GetByID(_ context.Context, id string) (*order.Order, []order.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil, apperr.NotFound("order %s not found", id)
	}
	return cloneOrder(o), s.itemsLocked(id, false), nil
}

func (r orderRepo) ListActive(_ context.Context, f order.ListFilter) ([]order.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []order.Order{}
	for _, o := range s.orders {
		if f.Matches(*o) {
			out = append(out, *cloneOrder(o))
		}
	}
	order.SortOrders(out, f.Sort)
	return out, nil
}

func (r orderRepo) AddItem(_ context.Context, orderID string, it *order.Item) (*order.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.activeLocked(orderID)
	if err != nil {
		return nil, err
	}
	s.seq++
	it.OrderID = orderID
	it.Seq = s.seq
	it.CreatedAt = s.now()
	it.Printed = false
	cp := *it
	s.items[orderID] = append(s.items[orderID], &cp)
	s.recomputeLocked(o)
	return cloneOrder(o), nil
}

func (r orderRepo) RemoveItem(_ context.Context, orderID, itemID string, plan order.PlanRemoval) (*order.Order, order.RemovalPlan, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.activeLocked(orderID)
	if err != nil {
		return nil, order.RemovalPlan{}, err
	}
	items := s.items[orderID]
	idx := slices.IndexFunc(items, func(it *order.Item) bool { return it.ID == itemID })
	if idx < 0 {
		return nil, order.RemovalPlan{}, apperr.NotFound("line item %s not found in order %s", itemID, orderID)
	}
	it := items[idx]

	p, err := plan(*cloneOrder(o), *it)
	if err != nil {
		return nil, order.RemovalPlan{}, err
	}
	if p.Record != nil {
		s.audits = append(s.audits, *p.Record)
	}
	if p.Quantity >= it.Quantity {
		s.items[orderID] = slices.Delete(items, idx, idx+1)
	} else {
		it.Quantity -= p.Quantity
	}
	s.recomputeLocked(o)
	return cloneOrder(o), p, nil
}

func (r orderRepo) Close(ctx context.Context, id string) (*order.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.activeLocked(id)
	if err != nil {
		return nil, err
	}
	closedAt := s.now()
	o.Active = false
	o.ClosedAt = &closedAt
	if err := table.Release(ctx, lockedSeating{s}, id); err != nil {
		return nil, err
	}
	return cloneOrder(o), nil
}

func (r orderRepo) Unprinted(_ context.Context, orderID string) ([]order.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	return s.itemsLocked(orderID, true), nil
}

func (r orderRepo) MarkPrinted(_ context.Context, orderID string, ids []string) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.activeLocked(orderID); err != nil {
		return 0, err
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	n := 0
	for _, it := range s.items[orderID] {
		if _, ok := want[it.ID]; ok && !it.Printed {
			it.Printed = true
			n++
		}
	}
	return n, nil
}

func (r orderRepo) ClosedLines(_ context.Context, q order.ClosedQuery) ([]order.SoldLine, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []order.SoldLine{}
	for _, o := range s.orders {
		if !q.Matches(*o) {
			continue
		}
		for _, it := range s.items[o.ID] {
			out = append(out, order.SoldLine{
				OrderID:    o.ID,
				EmployeeID: o.EmployeeID,
				DishID:     it.DishID,
				DishName:   it.DishName,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				ClosedAt:   *o.ClosedAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClosedAt.Before(out[j].ClosedAt) })
	return out, nil
}

func (s *Store) activeLocked(id string) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, apperr.NotFound("order %s not found", id)
	}
	if !o.Active {
		return nil, apperr.OrderClosed(id)
	}
	return o, nil
}

func (s *Store) itemsLocked(orderID string, unprintedOnly bool) []order.Item {
	out := []order.Item{}
	for _, it := range s.items[orderID] {
		if unprintedOnly && it.Printed {
			continue
		}
		out = append(out, *it)
	}
	return out
}

func (s *Store) recomputeLocked(o *order.Order) {
	items := s.itemsLocked(o.ID, false)
	o.Total = order.Total(items)
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Tables = slices.Clone(o.Tables)
	if o.ClosedAt != nil {
		t := *o.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}
