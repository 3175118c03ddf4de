package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
)

func TestCreate_ConcurrentOverlappingTables(t *testing.T) {
	st := New()
	t1, t2, t3 := st.AddTable(1), st.AddTable(2), st.AddTable(3)
	sets := [][]string{{t1.ID, t2.ID}, {t2.ID, t3.ID}}

	const rounds = 20
	for round := 0; round < rounds; round++ {
		var wg sync.WaitGroup
		errs := make([]error, len(sets))
		orders := make([]*order.Order, len(sets))
		for i, ids := range sets {
			wg.Add(1)
			go func(i int, ids []string) {
				defer wg.Done()
				o := &order.Order{ID: uuid.NewString(), EmployeeID: uuid.NewString()}
				errs[i] = st.Orders().Create(context.Background(), o, ids)
				orders[i] = o
			}(i, ids)
		}
		wg.Wait()

		ok, conflicts := 0, 0
		var winner *order.Order
		for i, err := range errs {
			switch {
			case err == nil:
				ok++
				winner = orders[i]
			case errors.Is(err, apperr.ErrTableConflict):
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		require.Equal(t, 1, ok, "round %d", round)
		require.Equal(t, 1, conflicts, "round %d", round)

		tables, err := st.Tables().List(context.Background())
		require.NoError(t, err)
		occupied := 0
		for _, tb := range tables {
			if tb.State == table.Occupied {
				occupied++
				assert.Equal(t, winner.ID, tb.ActiveOrder)
			}
		}
		assert.Equal(t, 2, occupied)

		_, err = st.Orders().Close(context.Background(), winner.ID)
		require.NoError(t, err)
	}
}

func TestViewsShareState(t *testing.T) {
	st := New()
	tb := st.AddTable(4)
	o := &order.Order{ID: uuid.NewString(), EmployeeID: uuid.NewString()}
	require.NoError(t, st.Orders().Create(context.Background(), o, []string{tb.ID}))

	got, err := st.Tables().GetByID(context.Background(), tb.ID)
	require.NoError(t, err)

	assert.Equal(t, table.Occupied, got.State)
	assert.Equal(t, o.ID, got.ActiveOrder)
}

func TestAddTable_DuplicateNumber(t *testing.T) {
	st := New()
	st.AddTable(1)

	err := st.Tables().Create(context.Background(), &table.Table{ID: uuid.NewString(), Number: 1})

	assert.ErrorIs(t, err, apperr.ErrValidation)
}
