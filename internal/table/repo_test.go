package table_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/db/dbtest"
	"github.com/MikeMC777/comandas/internal/table"
)

func TestPGRepo(t *testing.T) {
	repo := table.NewPGRepo(dbtest.Pool(t))
	ctx := context.Background()

	nine := &table.Table{ID: uuid.NewString(), Number: 9}
	require.NoError(t, repo.Create(ctx, nine))
	require.NoError(t, repo.Create(ctx, &table.Table{ID: uuid.NewString(), Number: 2}))

	err := repo.Create(ctx, &table.Table{ID: uuid.NewString(), Number: 9})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := repo.GetByID(ctx, nine.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Number)
	assert.Equal(t, table.Free, got.State)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Number)
	assert.Equal(t, 9, list[1].Number)
}
