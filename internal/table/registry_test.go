package table_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/memstore"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
)

func TestNormalizeIDs(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()

	got, err := table.NormalizeIDs([]string{b, " " + a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, got)

	_, err = table.NormalizeIDs(nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = table.NormalizeIDs([]string{a, "seven"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegistry_ActiveAssignment(t *testing.T) {
	st := memstore.New()
	reg := table.NewRegistry(st.Tables())
	ctx := context.Background()
	t8 := st.AddTable(8)
	t2 := st.AddTable(2)

	orderID, ok, err := reg.GetActiveAssignment(ctx, t8.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, orderID)

	o := &order.Order{ID: uuid.NewString(), EmployeeID: uuid.NewString()}
	require.NoError(t, st.Orders().Create(ctx, o, []string{t8.ID, t2.ID}))
	assert.Equal(t, []order.TableRef{{ID: t2.ID, Number: 2}, {ID: t8.ID, Number: 8}}, o.Tables)

	orderID, ok, err = reg.GetActiveAssignment(ctx, t8.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, o.ID, orderID)

	list, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Number)
	assert.Equal(t, table.Occupied, list[0].State)

	_, err = st.Orders().Close(ctx, o.ID)
	require.NoError(t, err)
	got, err := reg.Get(ctx, t2.ID)
	require.NoError(t, err)
	assert.Equal(t, table.Free, got.State)
}

func TestRegistry_GetErrors(t *testing.T) {
	reg := table.NewRegistry(memstore.New().Tables())

	_, err := reg.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = reg.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// fakeSeating records what Assign asks of a backend.
type fakeSeating struct {
	tables   map[string]table.Table
	occupied map[string]bool
	locked   []string
	seated   []string
	unseated string
}

func newFakeSeating(numbers ...int) (*fakeSeating, []string) {
	f := &fakeSeating{tables: map[string]table.Table{}, occupied: map[string]bool{}}
	ids := make([]string, len(numbers))
	for i, n := range numbers {
		ids[i] = uuid.NewString()
		f.tables[ids[i]] = table.Table{ID: ids[i], Number: n, State: table.Free}
	}
	return f, ids
}

func (f *fakeSeating) Lock(_ context.Context, ids []string) ([]table.Slot, error) {
	f.locked = ids
	var out []table.Slot
	for _, id := range ids {
		if t, ok := f.tables[id]; ok {
			out = append(out, table.Slot{Table: t, Occupied: f.occupied[id]})
		}
	}
	return out, nil
}

func (f *fakeSeating) Seat(_ context.Context, _ string, ids []string) error {
	f.seated = append(f.seated, ids...)
	return nil
}

func (f *fakeSeating) Unseat(_ context.Context, orderID string) error {
	f.unseated = orderID
	return nil
}

func TestAssign(t *testing.T) {
	f, ids := newFakeSeating(8, 3, 5)
	requested := append([]string(nil), ids...)
	orderID := uuid.NewString()

	got, err := table.Assign(context.Background(), f, orderID, ids)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 5, 8}, []int{got[0].Number, got[1].Number, got[2].Number})
	for _, tb := range got {
		assert.Equal(t, table.Occupied, tb.State)
		assert.Equal(t, orderID, tb.ActiveOrder)
	}
	assert.ElementsMatch(t, ids, f.seated)
	assert.IsIncreasing(t, f.locked)
	assert.Equal(t, requested, ids)
}

func TestAssign_ConflictSeatsNothing(t *testing.T) {
	f, ids := newFakeSeating(1, 2, 3)
	f.occupied[ids[2]] = true
	f.occupied[ids[0]] = true

	_, err := table.Assign(context.Background(), f, uuid.NewString(), ids)

	assert.ErrorIs(t, err, apperr.ErrTableConflict)
	assert.Contains(t, err.Error(), "[1 3]")
	assert.Empty(t, f.seated)
}

func TestAssign_MissingTableSeatsNothing(t *testing.T) {
	f, ids := newFakeSeating(1)

	_, err := table.Assign(context.Background(), f, uuid.NewString(), append(ids, uuid.NewString()))

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, f.seated)
}

func TestRelease(t *testing.T) {
	f, _ := newFakeSeating()
	orderID := uuid.NewString()

	require.NoError(t, table.Release(context.Background(), f, orderID))

	assert.Equal(t, orderID, f.unseated)
}
