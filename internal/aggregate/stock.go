// Package aggregate derives statistics from repository snapshots. Every
// function is pure: same input, same output, inputs never modified.
package aggregate

import (
	"fmt"
	"sort"

	"go-boutique-store/internal/models"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the highest stock count still reported as low.
const LowStockThreshold = 5

type StockLevel string

const (
	StockUnknown   StockLevel = "unknown"
	StockOut       StockLevel = "out of stock"
	StockLow       StockLevel = "low stock"
	StockAvailable StockLevel = "in stock"
)

const unknownStockPos = 99

type StockStatus struct {
	Level     StockLevel `json:"level"`
	Remaining int        `json:"remaining,omitempty"`
	Label     string     `json:"label"`
}

// ClassifyStock buckets an optional stock count.
func ClassifyStock(stock *int) StockStatus {
	switch {
	case stock == nil:
		return StockStatus{Level: StockUnknown, Label: string(StockUnknown)}
	case *stock <= 0:
		return StockStatus{Level: StockOut, Label: string(StockOut)}
	case *stock <= LowStockThreshold:
		return StockStatus{Level: StockLow, Remaining: *stock, Label: fmt.Sprintf("low stock (%d)", *stock)}
	default:
		return StockStatus{Level: StockAvailable, Remaining: *stock, Label: string(StockAvailable)}
	}
}

type MarginLevel string

const (
	MarginUnknown   MarginLevel = "unknown"
	MarginLoss      MarginLevel = "loss"
	MarginBreakeven MarginLevel = "breakeven"
	MarginProfit    MarginLevel = "profit"
)

// HealthyMarginPercent separates a healthy profit from a thin one.
const HealthyMarginPercent = 20

type MarginStatus struct {
	Level   MarginLevel     `json:"level"`
	Percent int64           `json:"percent"`
	Amount  decimal.Decimal `json:"amount"` // profit, or loss as a positive number
	Healthy bool            `json:"healthy"`
	Label   string          `json:"label"`
}

var hundred = decimal.NewFromInt(100)

// ClassifyMargin compares a selling price with an optional cost price.
func ClassifyMargin(price decimal.Decimal, cost *decimal.Decimal) MarginStatus {
	if cost == nil {
		return MarginStatus{Level: MarginUnknown, Label: string(MarginUnknown)}
	}
	switch price.Cmp(*cost) {
	case -1:
		loss := cost.Sub(price)
		return MarginStatus{Level: MarginLoss, Amount: loss, Label: "loss (" + loss.String() + ")"}
	case 0:
		return MarginStatus{Level: MarginBreakeven, Label: "breakeven (0%)"}
	}

	profit := price.Sub(*cost)
	var pct int64
	if cost.IsPositive() {
		pct = profit.Mul(hundred).Div(*cost).Round(0).IntPart()
	} else {
		pct = 100
	}
	return MarginStatus{
		Level:   MarginProfit,
		Percent: pct,
		Amount:  profit,
		Healthy: pct >= HealthyMarginPercent,
		Label:   fmt.Sprintf("%d%% margin", pct),
	}
}

// CatalogStats summarises the product list.
type CatalogStats struct {
	Count        int             `json:"count"`
	Categories   int             `json:"categories"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	LowStock     int             `json:"lowStock"`
}

// Catalog counts products, distinct categories (exact match) and low
// stock items, and averages the price (0 when empty).
func Catalog(products []models.Product) CatalogStats {
	stats := CatalogStats{Count: len(products), AveragePrice: decimal.Zero}
	seen := make(map[string]bool)
	sum := decimal.Zero
	for _, p := range products {
		if p.Category != "" {
			seen[p.Category] = true
		}
		sum = sum.Add(p.Price)
		if p.Stock != nil && *p.Stock <= LowStockThreshold {
			stats.LowStock++
		}
	}
	stats.Categories = len(seen)
	if len(products) > 0 {
		stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(products)))).Round(0)
	}
	return stats
}

type StockRow struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Stock  *int        `json:"stock,omitempty"`
	Status StockStatus `json:"status"`
}

// StockWatch lists the n products with the least stock. Unknown stock
// sorts as 99.
func StockWatch(products []models.Product, n int) []StockRow {
	rows := make([]StockRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, StockRow{ID: p.ID, Name: p.Name, Stock: p.Stock, Status: ClassifyStock(p.Stock)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return stockSortKey(rows[i].Stock) < stockSortKey(rows[j].Stock)
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func stockSortKey(s *int) int {
	if s == nil {
		return unknownStockPos
	}
	return *s
}

type ValuationItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type Valuation struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// StockValuation values the stock on hand at cost, grouped by category in
// first-seen order. Products without stock or cost are left out.
func StockValuation(products []models.Product) Valuation {
	out := Valuation{GrandTotal: decimal.Zero}
	index := make(map[string]int)
	for _, p := range products {
		if p.Stock == nil || p.CostPrice == nil {
			continue
		}
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		i, ok := index[cat]
		if !ok {
			i = len(out.Categories)
			index[cat] = i
			out.Categories = append(out.Categories, CategoryGroup{CategoryName: cat, Subtotal: decimal.Zero})
		}
		total := p.CostPrice.Mul(decimal.NewFromInt(int64(*p.Stock)))
		out.Categories[i].Items = append(out.Categories[i].Items, ValuationItem{
			Name:      p.Name,
			Quantity:  *p.Stock,
			CostPrice: *p.CostPrice,
			TotalCost: total,
		})
		out.Categories[i].Subtotal = out.Categories[i].Subtotal.Add(total)
		out.GrandTotal = out.GrandTotal.Add(total)
	}
	return out
}
