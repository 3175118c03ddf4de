package audit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnLineItemRemoval_UnprintedProducesNothing(t *testing.T) {
	a := NewAuditor(nil)

	rec := a.OnLineItemRemoval(Removal{
		OrderID:      "o1",
		EmployeeID:   "e1",
		UnitPrice:    decimal.RequireFromString("25.00"),
		ItemQuantity: 1,
		Quantity:     1,
		Printed:      false,
	})

	assert.Nil(t, rec)
}

func TestOnLineItemRemoval_PrintedCorrection(t *testing.T) {
	at := time.Date(2026, 10, 14, 20, 30, 0, 0, time.UTC)
	a := NewAuditor(nil).WithClock(func() time.Time { return at })
	table, number := "t7", 7

	rec := a.OnLineItemRemoval(Removal{
		OrderID:         "o1",
		EmployeeID:      "e1",
		TableID:         &table,
		TableNumber:     &number,
		DishDescription: "Lomo Saltado",
		UnitPrice:       decimal.RequireFromString("25.00"),
		ItemQuantity:    2,
		Quantity:        1,
		Printed:         true,
	})

	require.NotNil(t, rec)
	assert.True(t, rec.WasPrinted)
	assert.Equal(t, Correction, rec.Action)
	assert.Equal(t, "25.00", rec.LostAmount.StringFixed(2))
	assert.Equal(t, 7, *rec.TableNumber)
	assert.Equal(t, at, rec.CreatedAt)
	assert.NotEmpty(t, rec.ID)
}

func TestOnLineItemRemoval_PrintedFullDeletionTakeaway(t *testing.T) {
	a := NewAuditor(nil)

	rec := a.OnLineItemRemoval(Removal{
		OrderID:         "o2",
		EmployeeID:      "e1",
		DishDescription: "Ceviche",
		UnitPrice:       decimal.RequireFromString("18.50"),
		ItemQuantity:    3,
		Quantity:        3,
		Printed:         true,
	})

	require.NotNil(t, rec)
	assert.Equal(t, FullDeletion, rec.Action)
	assert.Equal(t, "55.50", rec.LostAmount.StringFixed(2))
	assert.Nil(t, rec.TableID)
}

func TestQueryMatches(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	q := Query{EmployeeID: "e1", From: &from, To: &to}

	assert.True(t, q.Matches(Record{EmployeeID: "e1", CreatedAt: from}))
	assert.False(t, q.Matches(Record{EmployeeID: "e1", CreatedAt: to}))
	assert.False(t, q.Matches(Record{EmployeeID: "e2", CreatedAt: from.Add(time.Hour)}))
}
