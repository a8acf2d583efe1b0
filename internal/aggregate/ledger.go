package aggregate

import (
	"sort"
	"time"

	"go-boutique-store/internal/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Period is a lookback window. Days <= 0 means all time.
type Period struct {
	Days int `json:"days"`
}

var AllTime = Period{}

// Cutoff returns the first date included by p, or "" for all time. An
// N-day window covers today and the N-1 days before it.
func (p Period) Cutoff(today time.Time) string {
	if p.Days <= 0 {
		return ""
	}
	return today.AddDate(0, 0, -(p.Days - 1)).Format(dateLayout)
}

// FilterSince keeps entries dated on or after cutoff. ISO dates compare
// correctly as strings.
func FilterSince(entries []models.LedgerEntry, cutoff string) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if cutoff == "" || e.Date >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

// FilterLedger applies FilterSince to every bucket.
func FilterLedger(s models.LedgerSnapshot, cutoff string) models.LedgerSnapshot {
	return models.LedgerSnapshot{
		Sales:     FilterSince(s.Sales, cutoff),
		Purchases: FilterSince(s.Purchases, cutoff),
		Expenses:  FilterSince(s.Expenses, cutoff),
	}
}

// Sum adds up entry amounts.
func Sum(entries []models.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

type LedgerRollup struct {
	Cutoff        string          `json:"cutoff,omitempty"`
	Sales         decimal.Decimal `json:"sales"`
	Purchases     decimal.Decimal `json:"purchases"`
	Expenses      decimal.Decimal `json:"expenses"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	MarginPercent int64           `json:"marginPercent"`
	SalesCount    int             `json:"salesCount"`
	PurchaseCount int             `json:"purchaseCount"`
	ExpenseCount  int             `json:"expenseCount"`
}

// Rollup totals each bucket over the period ending today.
func Rollup(s models.LedgerSnapshot, p Period, today time.Time) LedgerRollup {
	cutoff := p.Cutoff(today)
	f := FilterLedger(s, cutoff)

	r := LedgerRollup{
		Cutoff:        cutoff,
		Sales:         Sum(f.Sales),
		Purchases:     Sum(f.Purchases),
		Expenses:      Sum(f.Expenses),
		SalesCount:    len(f.Sales),
		PurchaseCount: len(f.Purchases),
		ExpenseCount:  len(f.Expenses),
	}
	r.TotalCost = r.Purchases.Add(r.Expenses)
	r.NetProfit = r.Sales.Sub(r.TotalCost)
	if r.Sales.IsPositive() {
		r.MarginPercent = r.NetProfit.Mul(hundred).Div(r.Sales).Round(0).IntPart()
	}
	return r
}

type BucketTotals struct {
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// Totals is the all-time sum of each bucket.
func Totals(s models.LedgerSnapshot) BucketTotals {
	t := BucketTotals{Sales: Sum(s.Sales), Purchases: Sum(s.Purchases), Expenses: Sum(s.Expenses)}
	t.NetProfit = t.Sales.Sub(t.Purchases).Sub(t.Expenses)
	return t
}

type DatePoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// DailySeries sums entries per calendar date, oldest date first.
func DailySeries(entries []models.LedgerEntry) []DatePoint {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		sums[e.Date] = sums[e.Date].Add(e.Amount)
	}
	dates := make([]string, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DatePoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, DatePoint{Date: d, Amount: sums[d]})
	}
	return out
}

type SalesCostPoint struct {
	Date  string          `json:"date"`
	Sales decimal.Decimal `json:"sales"`
	Costs decimal.Decimal `json:"costs"`
}

// SalesVsCosts lines up daily sales against daily purchases plus
// expenses over every date that has either.
func SalesVsCosts(s models.LedgerSnapshot) []SalesCostPoint {
	sales := make(map[string]decimal.Decimal)
	costs := make(map[string]decimal.Decimal)
	for _, p := range DailySeries(s.Sales) {
		sales[p.Date] = p.Amount
	}
	for _, p := range DailySeries(append(append([]models.LedgerEntry(nil), s.Purchases...), s.Expenses...)) {
		costs[p.Date] = p.Amount
	}

	seen := make(map[string]bool)
	var dates []string
	for _, m := range []map[string]decimal.Decimal{sales, costs} {
		for d := range m {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	sort.Strings(dates)

	out := make([]SalesCostPoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, SalesCostPoint{Date: d, Sales: sales[d], Costs: costs[d]})
	}
	return out
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// CategoryTotals sums entries per category label in first-seen order.
func CategoryTotals(entries []models.LedgerEntry) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, e := range entries {
		cat := e.Category
		if cat == "" {
			cat = models.OtherCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategoryTotal{Category: cat, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// NewestFirst orders entries by date, latest first. Entries on the same
// date keep their arrival order reversed.
func NewestFirst(entries []models.LedgerEntry) []models.LedgerEntry {
	out := make([]models.LedgerEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
