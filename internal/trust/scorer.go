// Package trust derives per-employee risk from audit records. Nothing here is
// persisted; every view is recomputed from the records on request.
package trust

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/logger"
	"github.com/MikeMC777/comandas/internal/order"
)

type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// TierFor maps a suspicious-deletion count to a tier: 0-1 low, 2-4 medium,
// 5 and above high.
func TierFor(suspicious int) Tier {
	switch {
	case suspicious <= 1:
		return TierLow
	case suspicious <= 4:
		return TierMedium
	default:
		return TierHigh
	}
}

type AuditReader interface {
	List(ctx context.Context, q audit.Query) ([]audit.Record, error)
}

type SalesReader interface {
	ClosedLines(ctx context.Context, q order.ClosedQuery) ([]order.SoldLine, error)
}

type Scorer struct {
	audits    AuditReader
	sales     SalesReader
	directory employee.Directory
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger
}

func NewScorer(audits AuditReader, sales SalesReader, directory employee.Directory, loc *time.Location, log *zap.Logger) *Scorer {
	if loc == nil {
		loc = time.UTC
	}
	return &Scorer{
		audits:    audits,
		sales:     sales,
		directory: directory,
		loc:       loc,
		now:       time.Now,
		log:       logger.OrNop(log),
	}
}

// WithClock overrides the reference time for the monthly window.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

type Scorecard struct {
	EmployeeID      string          `json:"employee_id"`
	Name            string          `json:"name,omitempty"`
	SuspiciousCount int             `json:"suspicious_count"`
	RiskTier        Tier            `json:"risk_tier"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	LostAmount      decimal.Decimal `json:"lost_amount"`
}

func (s *Scorer) Scorecard(ctx context.Context, employeeID string) (*Scorecard, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, apperr.Validation("employee id must be a uuid")
	}
	records, err := s.audits.List(ctx, audit.Query{EmployeeID: employeeID})
	if err != nil {
		return nil, s.fail("list audit records", err)
	}
	lines, err := s.sales.ClosedLines(ctx, order.ClosedQuery{EmployeeID: employeeID})
	if err != nil {
		return nil, s.fail("list closed lines", err)
	}

	card := &Scorecard{EmployeeID: employeeID, TotalSales: decimal.Zero, LostAmount: decimal.Zero}
	for _, r := range records {
		if r.WasPrinted {
			card.SuspiciousCount++
			card.LostAmount = card.LostAmount.Add(r.LostAmount)
		}
	}
	for _, l := range lines {
		card.TotalSales = card.TotalSales.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	card.TotalSales = card.TotalSales.Round(2)
	card.RiskTier = TierFor(card.SuspiciousCount)
	card.Name = s.nameOf(ctx, employeeID)
	return card, nil
}

type DishCount struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

type DishSold struct {
	DishID   string `json:"dish_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type MonthlyReport struct {
	Month       string          `json:"month"` // YYYY-MM
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	TotalLost   decimal.Decimal `json:"total_lost"`
	RecordCount int             `json:"record_count"`
	TopDeleted  []DishCount     `json:"top_deleted"`
	TopSold     []DishSold      `json:"top_sold"`
}

// MonthWindow returns [first day of the month, first day of next month) for
// t in loc.
func MonthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

func (s *Scorer) MonthlyReport(ctx context.Context, topN int) (*MonthlyReport, error) {
	if topN <= 0 {
		return nil, apperr.Validation("top must be positive")
	}
	from, to := MonthWindow(s.now(), s.loc)

	records, err := s.audits.List(ctx, audit.Query{From: &from, To: &to})
	if err != nil {
		return nil, s.fail("list audit records", err)
	}
	lines, err := s.sales.ClosedLines(ctx, order.ClosedQuery{From: &from, To: &to})
	if err != nil {
		return nil, s.fail("list closed lines", err)
	}

	rep := &MonthlyReport{
		Month:      from.Format("2006-01"),
		From:       from,
		To:         to,
		TotalLost:  decimal.Zero,
		TopDeleted: []DishCount{},
		TopSold:    []DishSold{},
	}
	deleted := map[string]int{}
	for _, r := range records {
		rep.TotalLost = rep.TotalLost.Add(r.LostAmount)
		rep.RecordCount++
		deleted[r.DishDescription]++
	}
	for desc, n := range deleted {
		rep.TopDeleted = append(rep.TopDeleted, DishCount{Description: desc, Count: n})
	}
	sort.Slice(rep.TopDeleted, func(i, j int) bool {
		a, b := rep.TopDeleted[i], rep.TopDeleted[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Description < b.Description
	})
	if len(rep.TopDeleted) > topN {
		rep.TopDeleted = rep.TopDeleted[:topN]
	}

	sold := map[string]*DishSold{}
	for _, l := range lines {
		d, ok := sold[l.DishID]
		if !ok {
			d = &DishSold{DishID: l.DishID, Name: l.DishName}
			sold[l.DishID] = d
		}
		d.Quantity += l.Quantity
	}
	for _, d := range sold {
		rep.TopSold = append(rep.TopSold, *d)
	}
	sort.Slice(rep.TopSold, func(i, j int) bool {
		a, b := rep.TopSold[i], rep.TopSold[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(rep.TopSold) > topN {
		rep.TopSold = rep.TopSold[:topN]
	}
	return rep, nil
}

type LeaderboardEntry struct {
	EmployeeID      string          `json:"employee_id"`
	Name            string          `json:"name,omitempty"`
	SuspiciousCount int             `json:"suspicious_count"`
	RiskTier        Tier            `json:"risk_tier"`
	LostAmount      decimal.Decimal `json:"lost_amount"`
}

// Leaderboard ranks employees by suspicious-deletion count, highest first.
// limit <= 0 returns everyone with at least one record.
func (s *Scorer) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	records, err := s.audits.List(ctx, audit.Query{})
	if err != nil {
		return nil, s.fail("list audit records", err)
	}
	by := map[string]*LeaderboardEntry{}
	for _, r := range records {
		if !r.WasPrinted {
			continue
		}
		e, ok := by[r.EmployeeID]
		if !ok {
			e = &LeaderboardEntry{EmployeeID: r.EmployeeID, LostAmount: decimal.Zero}
			by[r.EmployeeID] = e
		}
		e.SuspiciousCount++
		e.LostAmount = e.LostAmount.Add(r.LostAmount)
	}

	out := make([]LeaderboardEntry, 0, len(by))
	for _, e := range by {
		e.RiskTier = TierFor(e.SuspiciousCount)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SuspiciousCount != b.SuspiciousCount {
			return a.SuspiciousCount > b.SuspiciousCount
		}
		if c := a.LostAmount.Cmp(b.LostAmount); c != 0 {
			return c > 0
		}
		return a.EmployeeID < b.EmployeeID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Name = s.nameOf(ctx, out[i].EmployeeID)
	}
	return out, nil
}

// nameOf is best effort: a directory outage leaves the name empty rather
// than failing a reporting view.
func (s *Scorer) nameOf(ctx context.Context, id string) string {
	if s.directory == nil {
		return ""
	}
	e, err := s.directory.Lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("employee lookup failed", zap.String("employee_id", id), zap.Error(err))
		}
		return ""
	}
	return e.Name
}

func (s *Scorer) fail(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	s.log.Error(op+" failed", zap.Error(err))
	return apperr.Internal(op, err)
}
