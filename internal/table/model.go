package table

type State string

const (
	Free     State = "free"
	Occupied State = "occupied"
)

// Table is a physical table. State is derived from its assignments:
// Occupied iff it belongs to an active order.
type Table struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	State       State  `json:"state"`
	ActiveOrder string `json:"active_order_id,omitempty"`
}

// Assignment links an order to one of its tables. Active goes false when
// the order closes; the row itself stays as history.
type Assignment struct {
	OrderID string `json:"order_id"`
	TableID string `json:"table_id"`
	Active  bool   `json:"active"`
}

func stateFor(activeOrder string) State {
	if activeOrder != "" {
		return Occupied
	}
	return Free
}
