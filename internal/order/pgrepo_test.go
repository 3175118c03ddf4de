package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/comandas/internal/actor"
	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/db/dbtest"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
)

type pgEnv struct {
	repo   *order.PGRepo
	tables *table.PGRepo
	dishes *catalog.PGRepo
	audits *audit.PGRepo
	svc    *order.Service
	act    actor.Actor
}

func setupPG(t *testing.T) *pgEnv {
	t.Helper()
	pool := dbtest.Pool(t)
	act, err := actor.New(uuid.NewString(), "Rosa")
	require.NoError(t, err)
	e := &pgEnv{
		repo:   order.NewPGRepo(pool),
		tables: table.NewPGRepo(pool),
		dishes: catalog.NewPGRepo(pool),
		audits: audit.NewPGRepo(pool),
		act:    act,
	}
	e.svc = order.NewService(e.repo, e.dishes, audit.NewAuditor(nil), nil)
	return e
}

func (e *pgEnv) addTable(t *testing.T, number int) string {
	t.Helper()
	tb := &table.Table{ID: uuid.NewString(), Number: number}
	require.NoError(t, e.tables.Create(context.Background(), tb))
	return tb.ID
}

func (e *pgEnv) addDish(t *testing.T, name, price string) string {
	t.Helper()
	d := &catalog.Dish{ID: uuid.NewString(), Name: name, Price: decimal.RequireFromString(price), Available: true}
	require.NoError(t, e.dishes.Create(context.Background(), d))
	return d.ID
}

func TestPGRepo_ConcurrentOverlappingOpen(t *testing.T) {
	e := setupPG(t)
	ctx := context.Background()
	t1, t2, t3 := e.addTable(t, 1), e.addTable(t, 2), e.addTable(t, 3)
	sets := [][]string{{t1, t2}, {t3, t2}}

	for round := 0; round < 10; round++ {
		var wg sync.WaitGroup
		errs := make([]error, len(sets))
		orders := make([]*order.Order, len(sets))
		for i, ids := range sets {
			wg.Add(1)
			go func(i int, ids []string) {
				defer wg.Done()
				o := &order.Order{ID: uuid.NewString(), EmployeeID: e.act.EmployeeID}
				errs[i] = e.repo.Create(ctx, o, ids)
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
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
		}
		require.Equal(t, 1, ok, "round %d", round)
		require.Equal(t, 1, conflicts, "round %d", round)
		require.Len(t, winner.Tables, 2)
		assert.Less(t, winner.Tables[0].Number, winner.Tables[1].Number)

		list, err := e.tables.List(ctx)
		require.NoError(t, err)
		occupied := 0
		for _, tb := range list {
			if tb.State == table.Occupied {
				occupied++
				assert.Equal(t, winner.ID, tb.ActiveOrder)
			}
		}
		assert.Equal(t, 2, occupied, "round %d", round)

		_, err = e.repo.Close(ctx, winner.ID)
		require.NoError(t, err)
	}

	list, err := e.tables.List(ctx)
	require.NoError(t, err)
	for _, tb := range list {
		assert.Equal(t, table.Free, tb.State)
	}
}

func TestPGRepo_OpenMissingTable(t *testing.T) {
	e := setupPG(t)
	t1 := e.addTable(t, 1)

	_, err := e.svc.OpenOrder(context.Background(), e.act, order.OpenInput{TableIDs: []string{t1, uuid.NewString()}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := e.tables.GetByID(context.Background(), t1)
	require.NoError(t, err)
	assert.Equal(t, table.Free, got.State)
}

func TestPGRepo_LineItemLifecycle(t *testing.T) {
	e := setupPG(t)
	ctx := context.Background()
	tb := e.addTable(t, 7)
	lomo := e.addDish(t, "Lomo Saltado", "25.00")

	o, err := e.svc.OpenOrder(ctx, e.act, order.OpenInput{TableIDs: []string{tb}})
	require.NoError(t, err)
	it, got, err := e.svc.AddLineItem(ctx, e.act, o.ID, lomo, 3)
	require.NoError(t, err)
	assert.Equal(t, "75.00", got.Total.StringFixed(2))

	n, err := e.repo.MarkPrinted(ctx, o.ID, []string{it.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = e.repo.MarkPrinted(ctx, o.ID, []string{it.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	res, err := e.svc.RemoveLineItem(ctx, e.act, o.ID, it.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, audit.Correction, res.Record.Action)
	assert.Equal(t, "50.00", res.Order.Total.StringFixed(2))

	_, items, err := e.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Printed)

	res, err = e.svc.RemoveLineItem(ctx, e.act, o.ID, it.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, audit.FullDeletion, res.Record.Action)
	assert.True(t, res.Order.Total.IsZero())

	recs, err := e.audits.List(ctx, audit.Query{EmployeeID: e.act.EmployeeID})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	lost := decimal.Zero
	for _, r := range recs {
		assert.Equal(t, "Lomo Saltado", r.DishDescription)
		assert.Equal(t, 7, *r.TableNumber)
		assert.True(t, r.WasPrinted)
		lost = lost.Add(r.LostAmount)
	}
	assert.Equal(t, "75.00", lost.StringFixed(2))

	ceviche := e.addDish(t, "Ceviche", "18.50")
	_, _, err = e.svc.AddLineItem(ctx, e.act, o.ID, ceviche, 2)
	require.NoError(t, err)
	_, err = e.svc.CloseOrder(ctx, e.act, o.ID)
	require.NoError(t, err)

	_, _, err = e.svc.AddLineItem(ctx, e.act, o.ID, ceviche, 1)
	assert.ErrorIs(t, err, apperr.ErrOrderClosed)
	_, err = e.svc.CloseOrder(ctx, e.act, o.ID)
	assert.ErrorIs(t, err, apperr.ErrOrderClosed)

	sold, err := e.svc.ClosedLines(ctx, order.ClosedQuery{EmployeeID: e.act.EmployeeID})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, 2, sold[0].Quantity)
	assert.Equal(t, "18.50", sold[0].UnitPrice.StringFixed(2))

	active, err := e.svc.ListActive(ctx, order.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestPGRepo_UnprintedRemovalIsNotAudited(t *testing.T) {
	e := setupPG(t)
	ctx := context.Background()
	dish := e.addDish(t, "Anticuchos", "12.00")

	o, err := e.svc.OpenOrder(ctx, e.act, order.OpenInput{Takeaway: true})
	require.NoError(t, err)
	it, _, err := e.svc.AddLineItem(ctx, e.act, o.ID, dish, 2)
	require.NoError(t, err)

	res, err := e.svc.RemoveLineItem(ctx, e.act, o.ID, it.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, res.Record)

	recs, err := e.audits.List(ctx, audit.Query{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}
