package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository reads audit records. Records are written only by the order
// store, inside the removal transaction, so there is no update or delete.
type Repository interface {
	List(ctx context.Context, q Query) ([]Record, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context, q Query) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var employee *string
	if q.EmployeeID != "" {
		employee = &q.EmployeeID
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, employee_id, table_id::text, table_number, dish_description,
		       unit_price::text, quantity, lost_amount::text, was_printed, action, created_at
		FROM deletion_audit
		WHERE ($1::uuid IS NULL OR employee_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at, id
	`, employee, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			rec         Record
			price, lost string
			action      string
		)
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.EmployeeID, &rec.TableID, &rec.TableNumber,
			&rec.DishDescription, &price, &rec.Quantity, &lost, &rec.WasPrinted, &action, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Action = ActionKind(action)
		if rec.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		if rec.LostAmount, err = decimal.NewFromString(lost); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// InsertTx appends rec inside the caller's transaction.
func InsertTx(ctx context.Context, tx pgx.Tx, rec *Record) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO deletion_audit (id, order_id, employee_id, table_id, table_number, dish_description,
		                            unit_price, quantity, lost_amount, was_printed, action, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, rec.ID, rec.OrderID, rec.EmployeeID, rec.TableID, rec.TableNumber, rec.DishDescription,
		rec.UnitPrice.StringFixed(2), rec.Quantity, rec.LostAmount.StringFixed(2), rec.WasPrinted,
		string(rec.Action), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
