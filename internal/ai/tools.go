package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"

	// PlaceholderImage stands in for the photo of a product created by chat.
	PlaceholderImage = "https://via.placeholder.com/150"
)

var ErrUnknownTool = errors.New("unknown tool")

// Toolbox runs the assistant's function calls against the repositories.
type Toolbox struct {
	Products *repository.Products
	Ledger   *repository.Ledger
	Receipts *repository.Receipts
	Now      func() time.Time
}

func (t *Toolbox) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Call runs one tool. Bad arguments come back as an "error" field for the
// model to read; only an unknown tool name is a Go error.
func (t *Toolbox) Call(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "check_inventory":
		return t.checkInventory(), nil
	case "update_product_price":
		return t.updatePrice(ctx, args), nil
	case "create_product":
		return t.createProduct(ctx, args), nil
	case "get_sales_report":
		return t.salesReport(args), nil
	case "get_ledger_summary":
		return t.ledgerSummary(args), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

type inventoryItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    string  `json:"price"`
	Cost     *string `json:"cost,omitempty"`
	Stock    *int    `json:"stock,omitempty"`
	Status   string  `json:"status"`
}

func (t *Toolbox) checkInventory() map[string]any {
	products := t.Products.List()
	items := make([]inventoryItem, 0, len(products))
	for _, p := range products {
		item := inventoryItem{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price.String(),
			Stock:    p.Stock,
			Status:   aggregate.ClassifyStock(p.Stock).Label,
		}
		if p.CostPrice != nil {
			cost := p.CostPrice.String()
			item.Cost = &cost
		}
		items = append(items, item)
	}
	// Responses must be plain JSON values, so the list travels as text.
	raw, err := json.Marshal(items)
	if err != nil {
		return toolError(err.Error())
	}
	return map[string]any{"inventory": string(raw), "count": len(items)}
}

func (t *Toolbox) updatePrice(ctx context.Context, args map[string]any) map[string]any {
	id := argString(args, "product_id")
	price, ok := argNumber(args, "new_price")
	if id == "" || !ok {
		return toolError("product_id and new_price are required")
	}
	if _, err := t.Products.Get(id); err != nil {
		return map[string]any{"status": "Product ID not found"}
	}
	p := decimal.NewFromFloat(price)
	if err := t.Products.Update(ctx, id, models.ProductPatch{Price: &p}); err != nil {
		return toolError(err.Error())
	}
	return map[string]any{"status": "Success", "new_price": p.String()}
}

func (t *Toolbox) createProduct(ctx context.Context, args map[string]any) map[string]any {
	price, ok := argNumber(args, "price")
	if !ok {
		return toolError("price is required")
	}
	in := repository.ProductInput{
		Name:     argString(args, "name"),
		Price:    decimal.NewFromFloat(price),
		Category: argString(args, "category"),
		Image:    PlaceholderImage,
	}
	if stock, ok := argNumber(args, "stock_quantity"); ok {
		n := int(stock)
		in.Stock = &n
	}
	id, err := t.Products.Create(ctx, in)
	if err != nil {
		return toolError(err.Error())
	}
	return map[string]any{"status": "created", "id": id}
}

func (t *Toolbox) salesReport(args map[string]any) map[string]any {
	start, end := argString(args, "start_date"), argString(args, "end_date")
	if _, err := time.Parse(dateLayout, start); err != nil {
		return toolError("Dates must be in YYYY-MM-DD format.")
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return toolError("Dates must be in YYYY-MM-DD format.")
	}

	revenue, count := aggregate.SalesBetween(t.Receipts.List(), start, end)
	ledgerSales := decimal.Zero
	for _, e := range aggregate.FilterSince(t.Ledger.List(models.BucketSales), start) {
		if e.Date <= end {
			ledgerSales = ledgerSales.Add(e.Amount)
		}
	}
	return map[string]any{
		"revenue":      revenue.String(),
		"sales_count":  count,
		"ledger_sales": ledgerSales.String(),
	}
}

func (t *Toolbox) ledgerSummary(args map[string]any) map[string]any {
	days, _ := argNumber(args, "days")
	r := aggregate.Rollup(t.Ledger.Snapshot(), aggregate.Period{Days: int(days)}, t.now())
	return map[string]any{
		"since":          r.Cutoff,
		"sales":          r.Sales.String(),
		"purchases":      r.Purchases.String(),
		"expenses":       r.Expenses.String(),
		"net_profit":     r.NetProfit.String(),
		"margin_percent": r.MarginPercent,
	}
}

func toolError(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	}
	return ""
}

func argNumber(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	}
	return 0, false
}

