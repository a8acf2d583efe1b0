package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/repository"
	"go-boutique-store/internal/store/memory"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
)

func newToolbox(t *testing.T) *Toolbox {
	t.Helper()
	ctx := context.Background()
	adapter := memory.New()
	ledger := repository.NewLedger(adapter, nil)
	tb := &Toolbox{
		Products: repository.NewProducts(adapter, nil),
		Ledger:   ledger,
		Receipts: repository.NewReceipts(adapter, ledger, nil),
	}
	for _, load := range []func(context.Context) error{tb.Products.Load, tb.Ledger.Load, tb.Receipts.Load} {
		if err := load(ctx); err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(func() {
		tb.Products.Close()
		tb.Ledger.Close()
		tb.Receipts.Close()
	})
	return tb
}

func TestInventoryAndPriceTools(t *testing.T) {
	ctx := context.Background()
	tb := newToolbox(t)

	out, err := tb.Call(ctx, "create_product", map[string]any{"name": "Black Abaya", "price": 1500.0, "stock_quantity": 4.0})
	if err != nil || out["status"] != "created" {
		t.Fatalf("create = %v, %v", out, err)
	}
	id := out["id"].(string)

	out, _ = tb.Call(ctx, "check_inventory", nil)
	var items []inventoryItem
	if err := json.Unmarshal([]byte(out["inventory"].(string)), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != id || items[0].Price != "1500" || items[0].Status != "low stock (4)" {
		t.Fatalf("inventory = %+v", items)
	}

	out, _ = tb.Call(ctx, "update_product_price", map[string]any{"product_id": id, "new_price": 1750.0})
	if out["status"] != "Success" {
		t.Fatalf("update = %v", out)
	}
	p, _ := tb.Products.Get(id)
	if !p.Price.Equal(decimal.NewFromInt(1750)) || p.Image != PlaceholderImage {
		t.Fatalf("product = %+v", p)
	}

	out, _ = tb.Call(ctx, "update_product_price", map[string]any{"product_id": "nope", "new_price": 1.0})
	if out["status"] != "Product ID not found" {
		t.Fatalf("update missing = %v", out)
	}
	out, _ = tb.Call(ctx, "create_product", map[string]any{"name": "", "price": 10.0})
	if out["error"] == nil {
		t.Fatalf("create without name = %v", out)
	}
}

func TestReportTools(t *testing.T) {
	ctx := context.Background()
	tb := newToolbox(t)

	today := time.Now()
	tb.Now = func() time.Time { return today }

	receipt, err := tb.Receipts.Create(ctx, repository.ReceiptDraft{
		CustomerName: "Fatima",
		Items:        []aggregate.LineItem{{Name: "Abaya", Qty: 1, MRP: decimal.NewFromInt(1200)}},
		PostToLedger: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tb.Ledger.Create(ctx, models.BucketExpenses, repository.LedgerInput{
		Date: receipt.Date, Amount: decimal.NewFromInt(200), Description: "Courier", Category: "Shipping",
	}); err != nil {
		t.Fatal(err)
	}

	out, _ := tb.Call(ctx, "get_sales_report", map[string]any{"start_date": receipt.Date, "end_date": receipt.Date})
	if out["revenue"] != "1200" || out["sales_count"] != 1 || out["ledger_sales"] != "1200" {
		t.Fatalf("sales report = %v", out)
	}
	out, _ = tb.Call(ctx, "get_sales_report", map[string]any{"start_date": "March", "end_date": "2026-03-31"})
	if out["error"] == nil {
		t.Fatalf("bad dates = %v", out)
	}

	out, _ = tb.Call(ctx, "get_ledger_summary", map[string]any{"days": 7.0})
	if out["net_profit"] != "1000" || out["since"] != today.AddDate(0, 0, -6).Format(dateLayout) {
		t.Fatalf("summary = %v", out)
	}

	if _, err := tb.Call(ctx, "drop_tables", nil); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("unknown tool: %v", err)
	}
}

func TestResponseParts(t *testing.T) {
	resp := func(parts ...genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}}}
	}

	calls, err := functionCalls(resp(genai.FunctionCall{Name: "check_inventory"}, genai.Text("looking")))
	if err != nil || len(calls) != 1 || calls[0].Name != "check_inventory" {
		t.Fatalf("calls = %v, %v", calls, err)
	}
	if got := printResponse(resp(genai.Text("Three in stock."))); got != "Three in stock." {
		t.Fatalf("text = %q", got)
	}
	if got := printResponse(resp()); got != "I completed the action." {
		t.Fatalf("empty = %q", got)
	}
	if _, err := functionCalls(&genai.GenerateContentResponse{}); !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("no candidates: %v", err)
	}
}
