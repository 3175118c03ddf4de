package kitchen

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/MikeMC777/comandas/internal/order"
)

func TestTicketText(t *testing.T) {
	cases := []struct {
		name  string
		order order.Order
		items []order.Item
		at    time.Time
	}{
		{
			name: "ticket_dine_in",
			order: order.Order{
				ID:     "3f2a9c1e-5b1d-4c2a-9e0f-7a6b5c4d3e21",
				Tables: []order.TableRef{{ID: "a", Number: 7}, {ID: "b", Number: 8}},
			},
			items: []order.Item{
				{ID: "i1", DishName: "Lomo Saltado", Quantity: 2},
				{ID: "i2", DishName: "Chicha Morada", Quantity: 1},
			},
			at: time.Date(2026, 10, 14, 20, 30, 0, 0, time.UTC),
		},
		{
			name:  "ticket_takeaway",
			order: order.Order{ID: "9b7d44e0-1c2d-4e3f-8a9b-0c1d2e3f4a5b", Takeaway: true},
			items: []order.Item{{ID: "i3", DishName: "Anticuchos", Quantity: 12}},
			at:    time.Date(2026, 10, 14, 13, 5, 0, 0, time.UTC),
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := NewTicket(tc.order, tc.items, tc.at)
			g.Assert(t, tc.name, []byte(tk.Text()))
		})
	}
}

func TestNewTicket(t *testing.T) {
	o := order.Order{ID: "o1", EmployeeID: "e1", Tables: []order.TableRef{{ID: "t", Number: 3}}}
	tk := NewTicket(o, []order.Item{{ID: "i1", DishName: "Ceviche", Quantity: 1}, {ID: "i2", DishName: "Chicha", Quantity: 2}}, time.Now())

	assert.Equal(t, []int{3}, tk.Tables)
	assert.Equal(t, []string{"i1", "i2"}, tk.ItemIDs())
	assert.False(t, tk.Empty())
	assert.True(t, NewTicket(o, nil, time.Now()).Empty())
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "kitchen.ticket.takeaway", RoutingKey(Ticket{Takeaway: true}))
	assert.Equal(t, "kitchen.ticket.dine_in", RoutingKey(Ticket{}))
}
