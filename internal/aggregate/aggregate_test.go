package aggregate

import (
	"reflect"
	"testing"
	"time"

	"go-boutique-store/internal/models"

	"github.com/shopspring/decimal"
)

func intp(v int) *int { return &v }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name  string
		stock *int
		level StockLevel
		label string
	}{
		{"unknown", nil, StockUnknown, "unknown"},
		{"zero", intp(0), StockOut, "out of stock"},
		{"negative", intp(-2), StockOut, "out of stock"},
		{"one", intp(1), StockLow, "low stock (1)"},
		{"five", intp(5), StockLow, "low stock (5)"},
		{"six", intp(6), StockAvailable, "in stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStock(tt.stock)
			if got.Level != tt.level || got.Label != tt.label {
				t.Fatalf("ClassifyStock = %+v, want %s / %s", got, tt.level, tt.label)
			}
		})
	}
}

func TestClassifyMargin(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		cost    *decimal.Decimal
		level   MarginLevel
		percent int64
		amount  int64
		healthy bool
	}{
		{"no cost", 100, nil, MarginUnknown, 0, 0, false},
		{"loss", 80, decp(100), MarginLoss, 0, 20, false},
		{"breakeven", 100, decp(100), MarginBreakeven, 0, 0, false},
		{"thin profit", 110, decp(100), MarginProfit, 10, 10, false},
		{"healthy profit", 120, decp(100), MarginProfit, 20, 20, true},
		{"rounded", 4500, decp(2700), MarginProfit, 67, 1800, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyMargin(dec(tt.price), tt.cost)
			if got.Level != tt.level || got.Percent != tt.percent || got.Healthy != tt.healthy {
				t.Fatalf("ClassifyMargin = %+v", got)
			}
			if !got.Amount.Equal(dec(tt.amount)) {
				t.Fatalf("amount = %s, want %d", got.Amount, tt.amount)
			}
		})
	}
}

func TestBreakevenForEqualPrices(t *testing.T) {
	for _, v := range []int64{0, 1, 99, 4500} {
		if got := ClassifyMargin(dec(v), decp(v)); got.Level != MarginBreakeven || got.Label != "breakeven (0%)" {
			t.Fatalf("price == cost == %d gave %+v", v, got)
		}
	}
}

func entry(date string, amount int64, category string) models.LedgerEntry {
	return models.LedgerEntry{Date: date, Amount: dec(amount), Category: category}
}

func TestRollupWindowAndAllTime(t *testing.T) {
	d1, d2 := "2025-06-01", "2025-06-02"
	snap := models.LedgerSnapshot{
		Sales:     []models.LedgerEntry{entry(d1, 100, "General"), entry(d1, 200, "Online")},
		Purchases: []models.LedgerEntry{entry(d1, 50, "Fabric")},
		Expenses:  []models.LedgerEntry{entry(d2, 30, "Rent")},
	}
	today := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)

	day := Rollup(snap, Period{Days: 1}, today)
	if !day.Sales.IsZero() || !day.Purchases.IsZero() || !day.Expenses.Equal(dec(30)) || !day.NetProfit.Equal(dec(-30)) {
		t.Fatalf("1-day rollup = %+v", day)
	}
	if day.MarginPercent != 0 || day.Cutoff != d2 {
		t.Fatalf("1-day margin/cutoff = %d %q", day.MarginPercent, day.Cutoff)
	}

	all := Rollup(snap, AllTime, today)
	if !all.Sales.Equal(dec(300)) || !all.Purchases.Equal(dec(50)) || !all.Expenses.Equal(dec(30)) {
		t.Fatalf("all-time sums = %+v", all)
	}
	if !all.NetProfit.Equal(dec(220)) || !all.TotalCost.Equal(dec(80)) || all.MarginPercent != 73 {
		t.Fatalf("all-time derived = %+v", all)
	}
	if all.SalesCount != 2 || all.PurchaseCount != 1 || all.ExpenseCount != 1 {
		t.Fatalf("counts = %+v", all)
	}
}

func TestRollupDoesNotMutateInput(t *testing.T) {
	snap := models.LedgerSnapshot{Sales: []models.LedgerEntry{entry("2025-01-02", 5, "General"), entry("2025-01-01", 7, "General")}}
	before := append([]models.LedgerEntry(nil), snap.Sales...)
	Rollup(snap, Period{Days: 7}, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
	DailySeries(snap.Sales)
	NewestFirst(snap.Sales)
	if !reflect.DeepEqual(before, snap.Sales) {
		t.Fatal("input modified")
	}
}

func TestDailySeriesAndSalesVsCosts(t *testing.T) {
	snap := models.LedgerSnapshot{
		Sales:     []models.LedgerEntry{entry("2025-06-03", 10, ""), entry("2025-06-01", 5, ""), entry("2025-06-03", 1, "")},
		Purchases: []models.LedgerEntry{entry("2025-06-02", 4, "")},
		Expenses:  []models.LedgerEntry{entry("2025-06-02", 6, ""), entry("2025-06-03", 2, "")},
	}

	series := DailySeries(snap.Sales)
	if len(series) != 2 || series[0].Date != "2025-06-01" || !series[1].Amount.Equal(dec(11)) {
		t.Fatalf("DailySeries = %+v", series)
	}

	points := SalesVsCosts(snap)
	if len(points) != 3 {
		t.Fatalf("SalesVsCosts = %+v", points)
	}
	if points[1].Date != "2025-06-02" || !points[1].Sales.IsZero() || !points[1].Costs.Equal(dec(10)) {
		t.Fatalf("middle point = %+v", points[1])
	}
	if !points[2].Sales.Equal(dec(11)) || !points[2].Costs.Equal(dec(2)) {
		t.Fatalf("last point = %+v", points[2])
	}
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals([]models.LedgerEntry{
		entry("2025-06-01", 100, "Rent"),
		entry("2025-06-01", 20, "Shipping"),
		entry("2025-06-02", 50, "Rent"),
		entry("2025-06-02", 5, ""),
	})
	want := []string{"Rent", "Shipping", "Other"}
	if len(got) != len(want) {
		t.Fatalf("CategoryTotals = %+v", got)
	}
	for i, c := range want {
		if got[i].Category != c {
			t.Fatalf("position %d = %s, want %s", i, got[i].Category, c)
		}
	}
	if !got[0].Amount.Equal(dec(150)) {
		t.Fatalf("Rent = %s", got[0].Amount)
	}
}

func TestCatalogStats(t *testing.T) {
	products := []models.Product{
		{Price: dec(100), Category: "Premium", Stock: intp(2)},
		{Price: dec(200), Category: "premium", Stock: intp(9)},
		{Price: dec(301), Category: "Premium"},
		{Price: dec(0), Category: "", Stock: intp(5)},
	}
	got := Catalog(products)
	if got.Count != 4 || got.Categories != 2 || got.LowStock != 2 {
		t.Fatalf("Catalog = %+v", got)
	}
	if !got.AveragePrice.Equal(dec(150)) {
		t.Fatalf("average = %s", got.AveragePrice)
	}
	if empty := Catalog(nil); !empty.AveragePrice.IsZero() || empty.Count != 0 {
		t.Fatalf("empty catalog = %+v", empty)
	}
}

func TestStockWatch(t *testing.T) {
	products := []models.Product{
		{ID: "a", Stock: nil},
		{ID: "b", Stock: intp(12)},
		{ID: "c", Stock: intp(0)},
		{ID: "d", Stock: intp(100)},
		{ID: "e", Stock: intp(3)},
	}
	rows := StockWatch(products, 4)
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "e", "b", "a"}) {
		t.Fatalf("order = %v", ids)
	}
	if rows[0].Status.Level != StockOut {
		t.Fatalf("status = %+v", rows[0].Status)
	}
}

func TestStockValuation(t *testing.T) {
	v := StockValuation([]models.Product{
		{Name: "A", Category: "Premium", Stock: intp(2), CostPrice: decp(1000)},
		{Name: "B", Category: "Casual", Stock: intp(1), CostPrice: decp(500)},
		{Name: "C", Category: "Premium", Stock: intp(3), CostPrice: decp(100)},
		{Name: "D", Category: "Premium"},
	})
	if len(v.Categories) != 2 || v.Categories[0].CategoryName != "Premium" {
		t.Fatalf("groups = %+v", v.Categories)
	}
	if !v.Categories[0].Subtotal.Equal(dec(2300)) || !v.GrandTotal.Equal(dec(2800)) {
		t.Fatalf("totals = %s / %s", v.Categories[0].Subtotal, v.GrandTotal)
	}
}

func TestComputeReceiptTotals(t *testing.T) {
	lines := []LineItem{
		{Name: "Abaya", Qty: 2, MRP: dec(1500)},
		{Name: "  ", Qty: 1, MRP: dec(999)},
		{Name: "Scarf", Qty: 0, MRP: dec(300)},
	}
	tests := []struct {
		name     string
		flat     decimal.Decimal
		pct      decimal.Decimal
		discount int64
	}{
		{"none", decimal.Zero, decimal.Zero, 0},
		{"percent", decimal.Zero, dec(10), 330},
		{"flat wins", dec(100), dec(10), 100},
		{"clamped", dec(5000), decimal.Zero, 3300},
		{"negative ignored", dec(-50), decimal.Zero, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReceiptTotals(lines, tt.flat, tt.pct)
			if len(got.Items) != 2 || got.Items[1].Qty != 1 {
				t.Fatalf("items = %+v", got.Items)
			}
			sum := decimal.Zero
			for _, it := range got.Items {
				sum = sum.Add(it.MRP.Mul(decimal.NewFromInt(int64(it.Qty))))
			}
			if !got.Subtotal.Equal(sum) || !got.Subtotal.Equal(dec(3300)) {
				t.Fatalf("subtotal = %s", got.Subtotal)
			}
			if !got.Discount.Equal(dec(tt.discount)) {
				t.Fatalf("discount = %s, want %d", got.Discount, tt.discount)
			}
			if !got.Total.Equal(got.Subtotal.Sub(got.Discount)) || got.Discount.GreaterThan(got.Subtotal) {
				t.Fatalf("total invariant broken: %+v", got)
			}
		})
	}
}

func TestFilterAndSummarizeReceipts(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	receipts := []models.Receipt{
		{ReceiptNo: "RA-0001", CustomerName: "Aisha", CustomerPhone: "98765", Total: dec(1000), PaymentMode: models.PaymentUPI, Date: "2025-06-01", CreatedAt: base},
		{ReceiptNo: "RA-0002", CustomerName: "Fatima", Total: dec(500), PaymentMode: models.PaymentCash, Date: "2025-06-02", CreatedAt: base.Add(24 * time.Hour)},
		{ReceiptNo: "RA-0003", CustomerName: "aisha k", Total: dec(301), PaymentMode: models.PaymentUPI, Date: "2025-06-02", CreatedAt: base.Add(25 * time.Hour)},
	}

	got := FilterReceipts(receipts, ReceiptFilter{Search: "AISHA"})
	if len(got) != 2 || got[0].ReceiptNo != "RA-0003" {
		t.Fatalf("search = %+v", got)
	}
	if got := FilterReceipts(receipts, ReceiptFilter{Search: "ra-0002"}); len(got) != 1 {
		t.Fatalf("receipt number search = %+v", got)
	}
	if got := FilterReceipts(receipts, ReceiptFilter{PaymentMode: models.PaymentUPI, Date: "2025-06-02"}); len(got) != 1 || got[0].ReceiptNo != "RA-0003" {
		t.Fatalf("mode+date = %+v", got)
	}

	s := SummarizeReceipts(receipts)
	if s.Count != 3 || !s.Revenue.Equal(dec(1801)) || !s.Average.Equal(dec(600)) {
		t.Fatalf("summary = %+v", s)
	}
	if s.ByMode[models.PaymentUPI] != 2 || s.ByMode[models.PaymentCreditCard] != 0 {
		t.Fatalf("by mode = %+v", s.ByMode)
	}

	recent := RecentReceipts(receipts, 2)
	if len(recent) != 2 || recent[0].ReceiptNo != "RA-0003" || receipts[0].ReceiptNo != "RA-0001" {
		t.Fatalf("recent = %+v", recent)
	}

	total, n := SalesBetween(receipts, "2025-06-02", "2025-06-02")
	if n != 2 || !total.Equal(dec(801)) {
		t.Fatalf("SalesBetween = %s, %d", total, n)
	}
}
