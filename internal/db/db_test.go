package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert assignment: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "table_assignments_one_active",
	})

	assert.True(t, IsUniqueViolation(dup, "table_assignments_one_active"))
	assert.True(t, IsUniqueViolation(dup, ""))
	assert.False(t, IsUniqueViolation(dup, "dining_tables_number_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}
