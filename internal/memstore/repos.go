package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/table"
)

type tableRepo struct{ s *Store }

func (r tableRepo) Create(_ context.Context, t *table.Table) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tables {
		if existing.Number == t.Number {
			return apperr.Validation("table number %d already exists", t.Number)
		}
	}
	t.State = table.Free
	cp := *t
	s.tables[t.ID] = &cp
	return nil
}

func (r tableRepo) GetByID(_ context.Context, id string) (*table.Table, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, apperr.NotFound("table %s not found", id)
	}
	out := s.withStateLocked(*t)
	return &out, nil
}

func (r tableRepo) List(_ context.Context) ([]table.Table, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]table.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, s.withStateLocked(*t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *Store) withStateLocked(t table.Table) table.Table {
	t.ActiveOrder = s.activeOrderLocked(t.ID)
	t.State = table.Free
	if t.ActiveOrder != "" {
		t.State = table.Occupied
	}
	return t
}

type auditRepo struct{ s *Store }

func (r auditRepo) List(_ context.Context, q audit.Query) ([]audit.Record, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []audit.Record{}
	for _, rec := range s.audits {
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type dishRepo struct{ s *Store }

func (r dishRepo) Create(_ context.Context, d *catalog.Dish) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d.CreatedAt = s.now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	s.dishes[d.ID] = &cp
	return nil
}

func (r dishRepo) GetByID(_ context.Context, id string) (*catalog.Dish, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dishes[id]
	if !ok {
		return nil, apperr.NotFound("dish %s not found", id)
	}
	cp := *d
	return &cp, nil
}

func (r dishRepo) List(_ context.Context, q catalog.Query) ([]catalog.Dish, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(q.Q))
	out := []catalog.Dish{}
	for _, d := range s.dishes {
		if q.AvailableOnly && !d.Available {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Name+" "+d.Description), search) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// EditDish changes a dish in place, as a menu edit would.
func (s *Store) EditDish(dishID, name, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.dishes[dishID]; ok {
		d.Name = name
		d.Price = decimal.RequireFromString(price)
		d.UpdatedAt = s.now()
	}
}

type employeeRepo struct{ s *Store }

func (r employeeRepo) Create(_ context.Context, e *employee.Employee) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	e.CreatedAt = s.now()
	cp := *e
	s.employees[e.ID] = &cp
	return nil
}

func (r employeeRepo) GetByID(_ context.Context, id string) (*employee.Employee, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return nil, apperr.NotFound("employee %s not found", id)
	}
	cp := *e
	return &cp, nil
}
