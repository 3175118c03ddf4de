// Package catalog provides the dish lookup consumed by the order store and
// its PostgreSQL implementation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comandas/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, d *Dish) error
	GetByID(ctx context.Context, id string) (*Dish, error)
	List(ctx context.Context, q Query) ([]Dish, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, d *Dish) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO dishes (id, name, description, price, available, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		RETURNING created_at, updated_at
	`, d.ID, d.Name, d.Description, d.Price.StringFixed(2), d.Available).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert dish: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		d     Dish
		price string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, price::text, available, created_at, updated_at
		FROM dishes WHERE id=$1
	`, id).Scan(&d.ID, &d.Name, &d.Description, &price, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("dish %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get dish: %w", err)
	}
	if d.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse dish price: %w", err)
	}
	return &d, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price::text, available, created_at, updated_at
		FROM dishes
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND (NOT $2 OR available)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`, search, q.AvailableOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	out := []Dish{}
	for rows.Next() {
		var (
			d     Dish
			price string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &price, &d.Available, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if d.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse dish price: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
