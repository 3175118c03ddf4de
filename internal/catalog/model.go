package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is a catalog entry. Orders read it once, when a line item is created,
// and keep their own snapshot of name and price afterwards.
type Dish struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Label is the text frozen into line items and audit records.
func (d Dish) Label() string {
	if d.Description != "" {
		return d.Name + " (" + d.Description + ")"
	}
	return d.Name
}

type Query struct {
	Q             string
	AvailableOnly bool
	Limit         int
	Offset        int
}
