package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/db"
	"github.com/MikeMC777/comandas/internal/table"
)

type PGRepo struct{ pool *pgxpool.Pool }

func NewPGRepo(pool *pgxpool.Pool) *PGRepo { return &PGRepo{pool: pool} }

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderColumns = `id, employee_id, takeaway, active, total::text, created_at, closed_at`

const itemColumns = `id, order_id, dish_id, dish_name, quantity, unit_price::text, printed, seq, created_at`

func (r *PGRepo) Create(ctx context.Context, o *Order, tableIDs []string) error {
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO orders (id, employee_id, takeaway, active, total, created_at)
			VALUES ($1,$2,$3,TRUE,0,NOW())
			RETURNING created_at
		`, o.ID, o.EmployeeID, o.Takeaway).Scan(&o.CreatedAt); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		o.Active = true
		o.Total = decimal.Zero
		if o.Takeaway {
			return nil
		}
		seated, err := table.Assign(ctx, table.NewTxSeating(tx), o.ID, tableIDs)
		if err != nil {
			return err
		}
		o.Tables = make([]TableRef, len(seated))
		for i, t := range seated {
			o.Tables[i] = TableRef{ID: t.ID, Number: t.Number}
		}
		return nil
	})
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := loadOrder(ctx, r.pool, id, false)
	if err != nil {
		return nil, nil, err
	}
	items, err := loadItems(ctx, r.pool, id, false)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

func (r *PGRepo) ListActive(ctx context.Context, f ListFilter) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var takeaway *bool
	switch f.Type {
	case TypeTakeaway:
		v := true
		takeaway = &v
	case TypeDineIn:
		v := false
		takeaway = &v
	}
	var employee *string
	if f.EmployeeID != "" {
		employee = &f.EmployeeID
	}
	direction := "ASC"
	if f.Sort == SortDesc {
		direction = "DESC"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.active
		  AND ($1::boolean IS NULL OR o.takeaway = $1)
		  AND ($2::uuid IS NULL OR o.employee_id = $2)
		  AND ($3::int IS NULL OR EXISTS (
		        SELECT 1 FROM table_assignments ta
		        JOIN dining_tables t ON t.id = ta.table_id
		        WHERE ta.order_id = o.id AND t.number = $3))
		  AND ($4::timestamptz IS NULL OR o.created_at >= $4)
		  AND ($5::timestamptz IS NULL OR o.created_at < $5)
		ORDER BY o.created_at `+direction+`, o.id `+direction,
		takeaway, employee, f.TableNumber, f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	refs, err := tablesFor(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tables = refs[out[i].ID]
	}
	return out, nil
}

func (r *PGRepo) AddItem(ctx context.Context, orderID string, it *Item) (*Order, error) {
	var o *Order
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if o, err = lockActive(ctx, tx, orderID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (id, order_id, dish_id, dish_name, quantity, unit_price, printed, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,FALSE,NOW())
			RETURNING seq, created_at
		`, it.ID, orderID, it.DishID, it.DishName, it.Quantity, it.UnitPrice.StringFixed(2)).Scan(&it.Seq, &it.CreatedAt); err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
		it.OrderID = orderID
		o.Total, err = recomputeTotal(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) RemoveItem(ctx context.Context, orderID, itemID string, plan PlanRemoval) (*Order, RemovalPlan, error) {
	var (
		o *Order
		p RemovalPlan
	)
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if o, err = lockActive(ctx, tx, orderID); err != nil {
			return err
		}
		it, err := scanItem(tx.QueryRow(ctx, `
			SELECT `+itemColumns+` FROM order_items WHERE id=$1 AND order_id=$2 FOR UPDATE
		`, itemID, orderID))
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("line item %s not found in order %s", itemID, orderID)
		}
		if err != nil {
			return fmt.Errorf("get line item: %w", err)
		}

		if p, err = plan(*o, *it); err != nil {
			return err
		}
		if p.Record != nil {
			if err := audit.InsertTx(ctx, tx, p.Record); err != nil {
				return err
			}
		}
		if p.Quantity >= it.Quantity {
			_, err = tx.Exec(ctx, `DELETE FROM order_items WHERE id=$1`, itemID)
		} else {
			_, err = tx.Exec(ctx, `UPDATE order_items SET quantity = quantity - $2 WHERE id=$1`, itemID, p.Quantity)
		}
		if err != nil {
			return fmt.Errorf("remove line item: %w", err)
		}
		o.Total, err = recomputeTotal(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, RemovalPlan{}, err
	}
	return o, p, nil
}

func (r *PGRepo) Close(ctx context.Context, id string) (*Order, error) {
	var o *Order
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if o, err = lockActive(ctx, tx, id); err != nil {
			return err
		}
		var closedAt time.Time
		if err := tx.QueryRow(ctx, `
			UPDATE orders SET active = FALSE, closed_at = NOW() WHERE id = $1 RETURNING closed_at
		`, id).Scan(&closedAt); err != nil {
			return fmt.Errorf("close order: %w", err)
		}
		o.Active = false
		o.ClosedAt = &closedAt
		return table.Release(ctx, table.NewTxSeating(tx), id)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) Unprinted(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := loadOrder(ctx, r.pool, orderID, false); err != nil {
		return nil, err
	}
	return loadItems(ctx, r.pool, orderID, true)
}

func (r *PGRepo) MarkPrinted(ctx context.Context, orderID string, ids []string) (int, error) {
	var n int
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := lockActive(ctx, tx, orderID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE order_items SET printed = TRUE
			WHERE order_id = $1 AND id = ANY($2::uuid[]) AND NOT printed
		`, orderID, ids)
		if err != nil {
			return fmt.Errorf("mark printed: %w", err)
		}
		n = int(tag.RowsAffected())
		return nil
	})
	return n, err
}

func (r *PGRepo) ClosedLines(ctx context.Context, q ClosedQuery) ([]SoldLine, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var employee *string
	if q.EmployeeID != "" {
		employee = &q.EmployeeID
	}
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.employee_id, i.dish_id, i.dish_name, i.quantity, i.unit_price::text, o.closed_at
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE NOT o.active
		  AND ($1::uuid IS NULL OR o.employee_id = $1)
		  AND ($2::timestamptz IS NULL OR o.closed_at >= $2)
		  AND ($3::timestamptz IS NULL OR o.closed_at < $3)
		ORDER BY o.closed_at, i.seq
	`, employee, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("list closed lines: %w", err)
	}
	defer rows.Close()

	out := []SoldLine{}
	for rows.Next() {
		var (
			l     SoldLine
			price string
		)
		if err := rows.Scan(&l.OrderID, &l.EmployeeID, &l.DishID, &l.DishName, &l.Quantity, &price, &l.ClosedAt); err != nil {
			return nil, err
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// lockActive loads the order FOR UPDATE with its tables and rejects closed
// orders.
func lockActive(ctx context.Context, tx pgx.Tx, id string) (*Order, error) {
	o, err := loadOrder(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if !o.Active {
		return nil, apperr.OrderClosed(id)
	}
	return o, nil
}

func loadOrder(ctx context.Context, q querier, id string, forUpdate bool) (*Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	o, err := scanOrder(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	refs, err := tablesFor(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	o.Tables = refs[id]
	return o, nil
}

func loadItems(ctx context.Context, q querier, orderID string, unprintedOnly bool) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT `+itemColumns+`
		FROM order_items
		WHERE order_id=$1 AND (NOT $2 OR NOT printed)
		ORDER BY seq
	`, orderID, unprintedOnly)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// tablesFor returns the tables of each order, lowest number first.
func tablesFor(ctx context.Context, q querier, orderIDs []string) (map[string][]TableRef, error) {
	rows, err := q.Query(ctx, `
		SELECT ta.order_id, t.id, t.number
		FROM table_assignments ta
		JOIN dining_tables t ON t.id = ta.table_id
		WHERE ta.order_id = ANY($1::uuid[])
		ORDER BY t.number
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order tables: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]TableRef, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			ref     TableRef
		)
		if err := rows.Scan(&orderID, &ref.ID, &ref.Number); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], ref)
	}
	return out, rows.Err()
}

func recomputeTotal(ctx context.Context, tx pgx.Tx, orderID string) (decimal.Decimal, error) {
	var total string
	if err := tx.QueryRow(ctx, `
		UPDATE orders
		SET total = COALESCE((SELECT SUM(quantity * unit_price) FROM order_items WHERE order_id = $1), 0)
		WHERE id = $1
		RETURNING total::text
	`, orderID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("recompute total: %w", err)
	}
	return decimal.NewFromString(total)
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		total string
	)
	if err := row.Scan(&o.ID, &o.EmployeeID, &o.Takeaway, &o.Active, &total, &o.CreatedAt, &o.ClosedAt); err != nil {
		return nil, err
	}
	var err error
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		it    Item
		price string
	)
	if err := row.Scan(&it.ID, &it.OrderID, &it.DishID, &it.DishName, &it.Quantity, &price, &it.Printed, &it.Seq, &it.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &it, nil
}
