package order

import (
	"context"
)

// Repository is the persistence boundary of the order store. Every method is
// atomic: it fully applies or leaves no trace.
type Repository interface {
	// Create inserts o and, for dine-in orders, seats it at tableIDs. Returns
	// a TableConflict error when any table already belongs to an active order.
	Create(ctx context.Context, o *Order, tableIDs []string) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	ListActive(ctx context.Context, f ListFilter) ([]Order, error)
	// AddItem appends it to an active order and returns the order with its
	// recomputed total.
	AddItem(ctx context.Context, orderID string, it *Item) (*Order, error)
	// RemoveItem locks the order and item, asks plan what to do, writes the
	// audit record if any, then deletes or reduces the item.
	RemoveItem(ctx context.Context, orderID, itemID string, plan PlanRemoval) (*Order, RemovalPlan, error)
	// Close deactivates the order and releases its tables.
	Close(ctx context.Context, id string) (*Order, error)

	Unprinted(ctx context.Context, orderID string) ([]Item, error)
	// MarkPrinted flips printed for ids that belong to orderID and are still
	// unprinted, returning how many rows changed.
	MarkPrinted(ctx context.Context, orderID string, ids []string) (int, error)

	ClosedLines(ctx context.Context, q ClosedQuery) ([]SoldLine, error)
}
