package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comandas/internal/audit"
)

type TableRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

// Order is open while Active. Takeaway orders have no tables; dine-in
// orders have at least one.
type Order struct {
	ID         string
	EmployeeID string
	Takeaway   bool
	Active     bool
	Total      decimal.Decimal
	Tables     []TableRef
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

// PrimaryTable is the lowest-numbered table, or nil for takeaway.
func (o Order) PrimaryTable() *TableRef {
	if len(o.Tables) == 0 {
		return nil
	}
	p := o.Tables[0]
	for _, t := range o.Tables[1:] {
		if t.Number < p.Number {
			p = t
		}
	}
	return &p
}

// Item is a line item. DishName and UnitPrice are snapshots taken when the
// item was added; Printed never goes back to false.
type Item struct {
	ID        string
	OrderID   string
	DishID    string
	DishName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Printed   bool
	Seq       int64
	CreatedAt time.Time
}

func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Total sums the subtotals of items, rounded to cents.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum.Round(2)
}

// RemovalPlan is what the store applies once the auditor has seen the item.
type RemovalPlan struct {
	Quantity int           // units to remove; equal to the item quantity deletes the row
	Record   *audit.Record // nil when nothing is audited
}

// PlanRemoval is invoked by the repository inside the removal transaction,
// after the order and item are locked and before anything is written.
type PlanRemoval func(o Order, it Item) (RemovalPlan, error)

// SoldLine is a line item of a closed order, used for reporting.
type SoldLine struct {
	OrderID    string
	EmployeeID string
	DishID     string
	DishName   string
	Quantity   int
	UnitPrice  decimal.Decimal
	ClosedAt   time.Time
}

type ClosedQuery struct {
	EmployeeID string
	From, To   *time.Time // on ClosedAt, To exclusive
}

func (q ClosedQuery) Matches(o Order) bool {
	if o.Active || o.ClosedAt == nil {
		return false
	}
	if q.EmployeeID != "" && o.EmployeeID != q.EmployeeID {
		return false
	}
	if q.From != nil && o.ClosedAt.Before(*q.From) {
		return false
	}
	if q.To != nil && !o.ClosedAt.Before(*q.To) {
		return false
	}
	return true
}
