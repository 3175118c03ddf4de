package order

import "time"

// OpenOrderRequest payload for opening an order.
// swagger:model OpenOrderRequest
type OpenOrderRequest struct {
	TableIDs []string `json:"table_ids" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Takeaway bool     `json:"takeaway" example:"false"`
}

// AddItemRequest payload for adding a line item.
// swagger:model AddItemRequest
type AddItemRequest struct {
	DishID   string `json:"dish_id" binding:"required" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Quantity int    `json:"quantity" example:"2"`
}

// ConfirmPrintedRequest payload listing the items the kitchen received.
// swagger:model ConfirmPrintedRequest
type ConfirmPrintedRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// ItemResponse is a line item as returned by the API. Money is a string
// with two decimals.
// swagger:model ItemResponse
type ItemResponse struct {
	ID        string    `json:"id"`
	DishID    string    `json:"dish_id"`
	DishName  string    `json:"dish_name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price" example:"25.00"`
	Subtotal  string    `json:"subtotal" example:"50.00"`
	Printed   bool      `json:"printed"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse is an order with its items, if they were loaded.
// swagger:model OrderResponse
type OrderResponse struct {
	ID         string         `json:"id"`
	EmployeeID string         `json:"employee_id"`
	Takeaway   bool           `json:"takeaway"`
	Active     bool           `json:"active"`
	Total      string         `json:"total" example:"50.00"`
	Tables     []TableRef     `json:"tables"`
	Items      []ItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ClosedAt   *time.Time     `json:"closed_at,omitempty"`
}

func NewItemResponse(it Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		DishID:    it.DishID,
		DishName:  it.DishName,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice.StringFixed(2),
		Subtotal:  it.Subtotal().StringFixed(2),
		Printed:   it.Printed,
		CreatedAt: it.CreatedAt,
	}
}

func NewOrderResponse(o Order, items []Item) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		EmployeeID: o.EmployeeID,
		Takeaway:   o.Takeaway,
		Active:     o.Active,
		Total:      o.Total.StringFixed(2),
		Tables:     o.Tables,
		CreatedAt:  o.CreatedAt,
		ClosedAt:   o.ClosedAt,
	}
	if resp.Tables == nil {
		resp.Tables = []TableRef{}
	}
	for _, it := range items {
		resp.Items = append(resp.Items, NewItemResponse(it))
	}
	return resp
}
