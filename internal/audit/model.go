package audit

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActionKind string

const (
	FullDeletion ActionKind = "full_deletion"
	Correction   ActionKind = "correction"
)

// Record is immutable evidence of a removed line item that the kitchen had
// already seen. Description and price are copies taken at deletion time.
type Record struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	EmployeeID      string          `json:"employee_id"`
	TableID         *string         `json:"table_id"` // nil for takeaway
	TableNumber     *int            `json:"table_number"`
	DishDescription string          `json:"dish_description"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	LostAmount      decimal.Decimal `json:"lost_amount"`
	WasPrinted      bool            `json:"was_printed"`
	Action          ActionKind      `json:"action"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Removal describes a line item at the instant before it is removed or
// reduced.
type Removal struct {
	OrderID         string
	EmployeeID      string
	TableID         *string
	TableNumber     *int
	DishDescription string
	UnitPrice       decimal.Decimal
	ItemQuantity    int // quantity on the line before removal
	Quantity        int // units being removed
	Printed         bool
}

// Kind derives the action from the quantity delta: removing the whole line is
// a deletion, removing part of it a correction.
func (r Removal) Kind() ActionKind {
	if r.Quantity < r.ItemQuantity {
		return Correction
	}
	return FullDeletion
}

type Query struct {
	EmployeeID string
	From, To   *time.Time // To is exclusive
}

func (q Query) Matches(r Record) bool {
	if q.EmployeeID != "" && r.EmployeeID != q.EmployeeID {
		return false
	}
	if q.From != nil && r.CreatedAt.Before(*q.From) {
		return false
	}
	if q.To != nil && !r.CreatedAt.Before(*q.To) {
		return false
	}
	return true
}
