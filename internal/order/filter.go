package order

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MikeMC777/comandas/internal/apperr"
)

type OrderType string

const (
	TypeAll      OrderType = ""
	TypeTakeaway OrderType = "takeaway"
	TypeDineIn   OrderType = "dine_in"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListFilter is the closed set of criteria for listing active orders.
type ListFilter struct {
	Type        OrderType     `validate:"omitempty,oneof=takeaway dine_in"`
	EmployeeID  string        `validate:"omitempty,uuid"`
	TableNumber *int          `validate:"omitempty,gt=0"`
	From        *time.Time    // created_at >= From
	To          *time.Time    // created_at < To
	Sort        SortDirection `validate:"omitempty,oneof=asc desc"`
}

var validate = validator.New()

// Validate checks f and fills in the default sort.
func (f *ListFilter) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Validation("invalid filter field %s", verrs[0].Field())
		}
		return apperr.Validation("invalid filter")
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return apperr.Validation("from must be before to")
	}
	if f.Sort == "" {
		f.Sort = SortAsc
	}
	return nil
}

// Matches reports whether an active order satisfies f.
func (f ListFilter) Matches(o Order) bool {
	if !o.Active {
		return false
	}
	switch f.Type {
	case TypeTakeaway:
		if !o.Takeaway {
			return false
		}
	case TypeDineIn:
		if o.Takeaway {
			return false
		}
	}
	if f.EmployeeID != "" && o.EmployeeID != f.EmployeeID {
		return false
	}
	if f.TableNumber != nil && !slices.ContainsFunc(o.Tables, func(t TableRef) bool { return t.Number == *f.TableNumber }) {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !o.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

// SortOrders orders by creation time in direction d, breaking ties by id.
func SortOrders(orders []Order, d SortDirection) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if d == SortDesc {
			return -c
		}
		return c
	})
}
