package aggregate

import (
	"sort"
	"strings"

	"go-boutique-store/internal/models"

	"github.com/shopspring/decimal"
)

// LineItem is one receipt line before totals are computed.
type LineItem struct {
	Name string          `json:"name"`
	Qty  int             `json:"qty"`
	MRP  decimal.Decimal `json:"mrp"`
}

type ReceiptTotals struct {
	Items    []models.ReceiptItem
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeReceiptTotals keeps named lines (qty at least 1), sums them, and
// applies the discount: a positive flat amount wins over the percentage,
// and the result is clamped to [0, subtotal].
func ComputeReceiptTotals(lines []LineItem, flat, percent decimal.Decimal) ReceiptTotals {
	t := ReceiptTotals{Subtotal: decimal.Zero, Discount: decimal.Zero}
	for _, l := range lines {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		qty := l.Qty
		if qty < 1 {
			qty = 1
		}
		total := l.MRP.Mul(decimal.NewFromInt(int64(qty)))
		t.Items = append(t.Items, models.ReceiptItem{Name: name, Qty: qty, MRP: l.MRP, Total: total})
		t.Subtotal = t.Subtotal.Add(total)
	}

	switch {
	case flat.IsPositive():
		t.Discount = flat
	case percent.IsPositive():
		t.Discount = t.Subtotal.Mul(percent).Div(hundred).Round(2)
	}
	if t.Discount.GreaterThan(t.Subtotal) {
		t.Discount = t.Subtotal
	}
	if t.Discount.IsNegative() {
		t.Discount = decimal.Zero
	}
	t.Total = t.Subtotal.Sub(t.Discount)
	return t
}

// ReceiptFilter narrows the receipt history. Empty fields match everything.
type ReceiptFilter struct {
	Search      string             `form:"q"`
	PaymentMode models.PaymentMode `form:"mode"`
	Date        string             `form:"date"`
}

// FilterReceipts applies f and returns matches newest first.
func FilterReceipts(receipts []models.Receipt, f ReceiptFilter) []models.Receipt {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Receipt, 0, len(receipts))
	for _, r := range receipts {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.CustomerName), q) &&
			!strings.Contains(strings.ToLower(r.CustomerPhone), q) &&
			!strings.Contains(strings.ToLower(r.ReceiptNo), q) {
			continue
		}
		if f.PaymentMode != "" && r.PaymentMode != f.PaymentMode {
			continue
		}
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out
}

type ReceiptSummary struct {
	Count   int                        `json:"count"`
	Revenue decimal.Decimal            `json:"revenue"`
	Average decimal.Decimal            `json:"average"`
	ByMode  map[models.PaymentMode]int `json:"byMode"`
}

// SummarizeReceipts counts receipts, totals revenue and averages it.
func SummarizeReceipts(receipts []models.Receipt) ReceiptSummary {
	s := ReceiptSummary{Revenue: decimal.Zero, Average: decimal.Zero, ByMode: make(map[models.PaymentMode]int)}
	for _, m := range models.PaymentModes {
		s.ByMode[m] = 0
	}
	for _, r := range receipts {
		s.Count++
		s.Revenue = s.Revenue.Add(r.Total)
		s.ByMode[r.PaymentMode]++
	}
	if s.Count > 0 {
		s.Average = s.Revenue.Div(decimal.NewFromInt(int64(s.Count))).Round(0)
	}
	return s
}

// RecentReceipts returns the n latest receipts, newest first.
func RecentReceipts(receipts []models.Receipt, n int) []models.Receipt {
	out := append([]models.Receipt(nil), receipts...)
	sortNewestFirst(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SalesBetween totals receipts dated within [from, to], both inclusive.
func SalesBetween(receipts []models.Receipt, from, to string) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, r := range receipts {
		if r.Date >= from && r.Date <= to {
			total = total.Add(r.Total)
			count++
		}
	}
	return total, count
}

func sortNewestFirst(rs []models.Receipt) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].CreatedAt.After(rs[j].CreatedAt) })
}
