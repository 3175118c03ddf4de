package kitchen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MikeMC777/comandas/internal/order"
)

type TicketLine struct {
	ItemID   string `json:"item_id"`
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

// Ticket is one incremental kitchen ticket: only items not sent before.
type Ticket struct {
	OrderID    string       `json:"order_id"`
	EmployeeID string       `json:"employee_id"`
	Takeaway   bool         `json:"takeaway"`
	Tables     []int        `json:"tables,omitempty"`
	Lines      []TicketLine `json:"lines"`
	IssuedAt   time.Time    `json:"issued_at"`
}

func NewTicket(o order.Order, items []order.Item, at time.Time) Ticket {
	t := Ticket{
		OrderID:    o.ID,
		EmployeeID: o.EmployeeID,
		Takeaway:   o.Takeaway,
		IssuedAt:   at,
		Lines:      make([]TicketLine, 0, len(items)),
	}
	for _, ref := range o.Tables {
		t.Tables = append(t.Tables, ref.Number)
	}
	for _, it := range items {
		t.Lines = append(t.Lines, TicketLine{ItemID: it.ID, Dish: it.DishName, Quantity: it.Quantity})
	}
	return t
}

func (t Ticket) ItemIDs() []string {
	ids := make([]string, len(t.Lines))
	for i, l := range t.Lines {
		ids[i] = l.ItemID
	}
	return ids
}

func (t Ticket) Empty() bool { return len(t.Lines) == 0 }

const ticketWidth = 32

// Text lays the ticket out for a 32-column kitchen printer.
func (t Ticket) Text() string {
	var b strings.Builder
	rule := strings.Repeat("-", ticketWidth) + "\n"

	b.WriteString(rule)
	if t.Takeaway {
		b.WriteString("TAKEAWAY\n")
	} else {
		nums := make([]string, len(t.Tables))
		for i, n := range t.Tables {
			nums[i] = strconv.Itoa(n)
		}
		b.WriteString("TABLE " + strings.Join(nums, "+") + "\n")
	}
	fmt.Fprintf(&b, "ORDER %s\n", shortID(t.OrderID))
	fmt.Fprintf(&b, "%s\n", t.IssuedAt.Format("2006-01-02 15:04"))
	b.WriteString(rule)
	for _, l := range t.Lines {
		fmt.Fprintf(&b, "%3dx %s\n", l.Quantity, l.Dish)
	}
	b.WriteString(rule)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
