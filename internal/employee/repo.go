package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/comandas/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, e *Employee) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO employees (id, name, pin_hash, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING created_at
	`, e.ID, e.Name, e.PINHash).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var e Employee
	err := r.db.QueryRow(ctx, `
		SELECT id, name, pin_hash, created_at FROM employees WHERE id=$1
	`, id).Scan(&e.ID, &e.Name, &e.PINHash, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("employee %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}
