package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/db"
)

type Repository interface {
	Create(ctx context.Context, t *Table) error
	GetByID(ctx context.Context, id string) (*Table, error)
	List(ctx context.Context) ([]Table, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectTables = `
	SELECT t.id, t.number, COALESCE(ta.order_id::text, '')
	FROM dining_tables t
	LEFT JOIN table_assignments ta ON ta.table_id = t.id AND ta.active
`

func (r *PGRepo) Create(ctx context.Context, t *Table) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `INSERT INTO dining_tables (id, number) VALUES ($1,$2)`, t.ID, t.Number)
	if db.IsUniqueViolation(err, "") {
		return apperr.Validation("table number %d already exists", t.Number)
	}
	if err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	t.State = Free
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t Table
	err := r.db.QueryRow(ctx, selectTables+` WHERE t.id=$1`, id).Scan(&t.ID, &t.Number, &t.ActiveOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("table %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	t.State = stateFor(t.ActiveOrder)
	return &t, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectTables+` ORDER BY t.number`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	out := []Table{}
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.Number, &t.ActiveOrder); err != nil {
			return nil, err
		}
		t.State = stateFor(t.ActiveOrder)
		out = append(out, t)
	}
	return out, rows.Err()
}

// TxSeating is the Postgres Seating bound to one transaction.
type TxSeating struct{ tx pgx.Tx }

func NewTxSeating(tx pgx.Tx) TxSeating { return TxSeating{tx: tx} }

// Lock takes the row locks in id order, so concurrent openers queue instead
// of deadlocking. The partial unique index stays the final guard.
func (s TxSeating) Lock(ctx context.Context, ids []string) ([]Slot, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT t.id, t.number, EXISTS (
			SELECT 1 FROM table_assignments ta WHERE ta.table_id = t.id AND ta.active
		)
		FROM dining_tables t
		WHERE t.id = ANY($1::uuid[])
		ORDER BY t.id
		FOR UPDATE OF t
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock tables: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var sl Slot
		if err := rows.Scan(&sl.ID, &sl.Number, &sl.Occupied); err != nil {
			return nil, err
		}
		sl.State = Free
		if sl.Occupied {
			sl.State = Occupied
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (s TxSeating) Seat(ctx context.Context, orderID string, ids []string) error {
	for _, id := range ids {
		_, err := s.tx.Exec(ctx, `
			INSERT INTO table_assignments (order_id, table_id, active) VALUES ($1,$2,TRUE)
		`, orderID, id)
		if db.IsUniqueViolation(err, "table_assignments_one_active") {
			return apperr.TableConflict("table %s is assigned to an active order", id)
		}
		if err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

func (s TxSeating) Unseat(ctx context.Context, orderID string) error {
	if _, err := s.tx.Exec(ctx, `
		UPDATE table_assignments SET active = FALSE WHERE order_id = $1 AND active
	`, orderID); err != nil {
		return fmt.Errorf("release tables: %w", err)
	}
	return nil
}
