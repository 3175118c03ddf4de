package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("remove item: %w", NotFound("line item %s not in order", "abc"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrOrderClosed))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{TableConflict("t"), http.StatusConflict},
		{OrderClosed("o"), http.StatusConflict},
		{Internal("db", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	err := Internal("insert order", errors.New("pq: connection refused"))

	assert.Equal(t, "internal error", PublicMessage(err))
	assert.Equal(t, "table 3 is busy", PublicMessage(TableConflict("table %d is busy", 3)))
	assert.ErrorContains(t, err, "connection refused")
}
