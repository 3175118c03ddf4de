// Package memstore is an in-process backend for every repository in the
// core. One mutex guards all state, so each operation is a single critical
// section, which gives the same all-or-nothing behavior as the Postgres
// transactions.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
)

type Store struct {
	mu sync.Mutex

	tables      map[string]*table.Table
	dishes      map[string]*catalog.Dish
	employees   map[string]*employee.Employee
	orders      map[string]*order.Order
	items       map[string][]*order.Item // by order id, in seq order
	assignments []table.Assignment
	audits      []audit.Record
	seq         int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		tables:    map[string]*table.Table{},
		dishes:    map[string]*catalog.Dish{},
		employees: map[string]*employee.Employee{},
		orders:    map[string]*order.Order{},
		items:     map[string][]*order.Item{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for created/closed timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Orders() order.Repository { return orderRepo{s} }
func (s *Store) Tables() table.Repository { return tableRepo{s} }
func (s *Store) Audits() audit.Repository { return auditRepo{s} }
func (s *Store) Dishes() catalog.Repository { return dishRepo{s} }
func (s *Store) Employees() employee.Repository { return employeeRepo{s} }

// AddTable seeds a free table.
func (s *Store) AddTable(number int) table.Table {
	t := table.Table{ID: uuid.NewString(), Number: number}
	_ = tableRepo{s}.Create(context.Background(), &t)
	return t
}

// AddDish seeds an available dish.
func (s *Store) AddDish(name, price string) catalog.Dish {
	d := catalog.Dish{ID: uuid.NewString(), Name: name, Price: decimal.RequireFromString(price), Available: true}
	_ = dishRepo{s}.Create(context.Background(), &d)
	return d
}

// AddEmployee seeds an employee with a bcrypt-hashed pin.
func (s *Store) AddEmployee(name, pin string) employee.Employee {
	hash, err := employee.HashPIN(pin)
	if err != nil {
		panic(err)
	}
	e := employee.Employee{ID: uuid.NewString(), Name: name, PINHash: hash}
	_ = employeeRepo{s}.Create(context.Background(), &e)
	return e
}
