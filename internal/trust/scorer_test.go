package trust

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/order"
)

type fakeAudits struct {
	records []audit.Record
	err     error
}

func (f *fakeAudits) List(_ context.Context, q audit.Query) ([]audit.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []audit.Record{}
	for _, r := range f.records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSales struct {
	lines []order.SoldLine
}

func (f *fakeSales) ClosedLines(_ context.Context, q order.ClosedQuery) ([]order.SoldLine, error) {
	out := []order.SoldLine{}
	for _, l := range f.lines {
		closedAt := l.ClosedAt
		o := order.Order{ID: l.OrderID, EmployeeID: l.EmployeeID, ClosedAt: &closedAt}
		if q.Matches(o) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	names map[string]string
}

func (f fakeDirectory) Lookup(_ context.Context, id string) (*employee.Employee, error) {
	n, ok := f.names[id]
	if !ok {
		return nil, apperr.NotFound("employee %s not found", id)
	}
	return &employee.Employee{ID: id, Name: n}, nil
}

func (f fakeDirectory) Verify(context.Context, string, string) (*employee.Employee, error) {
	return nil, employee.ErrInvalidCredentials
}

func printed(emp, dish, lost string, at time.Time) audit.Record {
	return audit.Record{
		ID:              uuid.NewString(),
		EmployeeID:      emp,
		DishDescription: dish,
		LostAmount:      decimal.RequireFromString(lost),
		WasPrinted:      true,
		Action:          audit.FullDeletion,
		CreatedAt:       at,
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		count int
		want  Tier
	}{
		{0, TierLow},
		{1, TierLow},
		{2, TierMedium},
		{3, TierMedium},
		{4, TierMedium},
		{5, TierHigh},
		{12, TierHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierFor(tc.count), "count=%d", tc.count)
	}
}

func TestScorecard(t *testing.T) {
	emp := uuid.NewString()
	other := uuid.NewString()
	at := time.Date(2026, 10, 3, 21, 0, 0, 0, time.UTC)

	audits := &fakeAudits{records: []audit.Record{
		printed(emp, "Lomo Saltado", "25.00", at),
		printed(emp, "Ceviche", "18.50", at),
		printed(emp, "Ceviche", "18.50", at),
		printed(other, "Ceviche", "18.50", at),
	}}
	sales := &fakeSales{lines: []order.SoldLine{
		{OrderID: "o1", EmployeeID: emp, DishID: "d1", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00"), ClosedAt: at},
		{OrderID: "o1", EmployeeID: emp, DishID: "d2", Quantity: 1, UnitPrice: decimal.RequireFromString("9.90"), ClosedAt: at},
		{OrderID: "o2", EmployeeID: other, DishID: "d1", Quantity: 4, UnitPrice: decimal.RequireFromString("25.00"), ClosedAt: at},
	}}
	s := NewScorer(audits, sales, fakeDirectory{names: map[string]string{emp: "Rosa"}}, time.UTC, nil)

	card, err := s.Scorecard(context.Background(), emp)
	require.NoError(t, err)

	assert.Equal(t, "Rosa", card.Name)
	assert.Equal(t, 3, card.SuspiciousCount)
	assert.Equal(t, TierMedium, card.RiskTier)
	assert.Equal(t, "62.00", card.LostAmount.StringFixed(2))
	assert.Equal(t, "59.90", card.TotalSales.StringFixed(2))
}

func TestScorecard_NoHistoryIsLow(t *testing.T) {
	s := NewScorer(&fakeAudits{}, &fakeSales{}, nil, nil, nil)

	card, err := s.Scorecard(context.Background(), uuid.NewString())
	require.NoError(t, err)

	assert.Zero(t, card.SuspiciousCount)
	assert.Equal(t, TierLow, card.RiskTier)
	assert.True(t, card.TotalSales.IsZero())
}

func TestScorecard_Errors(t *testing.T) {
	s := NewScorer(&fakeAudits{err: errors.New("connection reset")}, &fakeSales{}, nil, nil, nil)

	_, err := s.Scorecard(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Scorecard(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrInternal)
}

func TestMonthlyReport(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, lima)
	from, to := MonthWindow(now, lima)

	emp := uuid.NewString()
	audits := &fakeAudits{records: []audit.Record{
		printed(emp, "Ceviche", "18.50", from),
		printed(emp, "Ceviche", "18.50", from.Add(48*time.Hour)),
		printed(emp, "Lomo Saltado", "25.00", to.Add(-time.Minute)),
		// previous month in Lima, same UTC day as the window start
		printed(emp, "Chicha", "6.00", from.Add(-time.Hour)),
		printed(emp, "Ceviche", "18.50", to),
	}}
	sales := &fakeSales{lines: []order.SoldLine{
		{OrderID: "o1", EmployeeID: emp, DishID: "d1", DishName: "Lomo Saltado", Quantity: 2, ClosedAt: from.Add(time.Hour)},
		{OrderID: "o2", EmployeeID: emp, DishID: "d2", DishName: "Ceviche", Quantity: 5, ClosedAt: from.Add(2 * time.Hour)},
		{OrderID: "o3", EmployeeID: emp, DishID: "d1", DishName: "Lomo Saltado", Quantity: 1, ClosedAt: from.Add(3 * time.Hour)},
		{OrderID: "o4", EmployeeID: emp, DishID: "d3", DishName: "Chicha", Quantity: 9, ClosedAt: from.Add(-time.Hour)},
	}}
	s := NewScorer(audits, sales, nil, lima, nil).WithClock(func() time.Time { return now })

	rep, err := s.MonthlyReport(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "2026-10", rep.Month)
	assert.Equal(t, 3, rep.RecordCount)
	assert.Equal(t, "62.00", rep.TotalLost.StringFixed(2))
	assert.Equal(t, []DishCount{{Description: "Ceviche", Count: 2}}, rep.TopDeleted)
	assert.Equal(t, []DishSold{{DishID: "d2", Name: "Ceviche", Quantity: 5}}, rep.TopSold)

	_, err = s.MonthlyReport(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestLeaderboard(t *testing.T) {
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
	at := time.Now().UTC()
	unprinted := printed(c, "Ceviche", "0", at)
	unprinted.WasPrinted = false

	audits := &fakeAudits{records: []audit.Record{
		printed(a, "Ceviche", "18.50", at),
		printed(b, "Ceviche", "18.50", at),
		printed(b, "Lomo Saltado", "25.00", at),
		printed(a, "Lomo Saltado", "50.00", at),
		printed(b, "Chicha", "6.00", at),
		unprinted,
	}}
	s := NewScorer(audits, &fakeSales{}, fakeDirectory{names: map[string]string{a: "Ana", b: "Beto"}}, nil, nil)

	board, err := s.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, board, 2)

	assert.Equal(t, b, board[0].EmployeeID)
	assert.Equal(t, "Beto", board[0].Name)
	assert.Equal(t, 3, board[0].SuspiciousCount)
	assert.Equal(t, TierMedium, board[0].RiskTier)
	assert.Equal(t, a, board[1].EmployeeID)
	assert.Equal(t, "68.50", board[1].LostAmount.StringFixed(2))

	top, err := s.Leaderboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}
