// Package table is the table registry: occupancy state and the atomic
// assignment of tables to active orders.
package table

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/comandas/internal/apperr"
)

type Registry struct {
	repo Repository
}

func NewRegistry(repo Repository) *Registry { return &Registry{repo: repo} }

func (r *Registry) List(ctx context.Context) ([]Table, error) {
	return r.repo.List(ctx)
}

func (r *Registry) Get(ctx context.Context, id string) (*Table, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("table id must be a uuid")
	}
	return r.repo.GetByID(ctx, id)
}

// GetActiveAssignment returns the active order seated at tableID, or
// ok=false when the table is free.
func (r *Registry) GetActiveAssignment(ctx context.Context, tableID string) (orderID string, ok bool, err error) {
	t, err := r.Get(ctx, tableID)
	if err != nil {
		return "", false, err
	}
	return t.ActiveOrder, t.ActiveOrder != "", nil
}

// Slot is a locked table and whether an active order already holds it.
type Slot struct {
	Table
	Occupied bool
}

// Seating is the occupancy store an assignment runs against. Implementations
// work inside the caller's transaction or lock, so Lock and Seat together are
// one check-and-reserve step.
type Seating interface {
	// Lock returns the requested tables that exist and holds them until the
	// enclosing transaction ends. Missing ids are left out.
	Lock(ctx context.Context, ids []string) ([]Slot, error)
	Seat(ctx context.Context, orderID string, ids []string) error
	Unseat(ctx context.Context, orderID string) error
}

// Assign seats orderID at every table in ids or at none of them. It fails
// with NotFound when a table does not exist and TableConflict when any is
// held by an active order. Tables are returned by number.
func Assign(ctx context.Context, s Seating, orderID string, ids []string) ([]Table, error) {
	locked := slices.Clone(ids)
	slices.Sort(locked)
	slots, err := s.Lock(ctx, locked)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(locked) {
		return nil, apperr.NotFound("one or more tables do not exist")
	}

	var busy []int
	tables := make([]Table, 0, len(slots))
	for _, sl := range slots {
		if sl.Occupied {
			busy = append(busy, sl.Number)
		}
		tables = append(tables, sl.Table)
	}
	if len(busy) > 0 {
		slices.Sort(busy)
		return nil, apperr.TableConflict("tables %v are assigned to an active order", busy)
	}
	if err := s.Seat(ctx, orderID, locked); err != nil {
		return nil, err
	}

	slices.SortFunc(tables, func(a, b Table) int { return a.Number - b.Number })
	for i := range tables {
		tables[i].State = Occupied
		tables[i].ActiveOrder = orderID
	}
	return tables, nil
}

// Release frees every table held by orderID.
func Release(ctx context.Context, s Seating, orderID string) error {
	return s.Unseat(ctx, orderID)
}

// NormalizeIDs trims and deduplicates a requested table set, keeping the
// caller's order. Duplicates would otherwise trip the one-active-assignment
// guard against the order itself.
func NormalizeIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if _, err := uuid.Parse(id); err != nil {
			return nil, apperr.Validation("invalid table id %q", raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, apperr.Validation("at least one table id is required")
	}
	return out, nil
}
