// Package views builds the JSON payloads behind each page and registers
// them with the view synchronizer.
package views

import (
	"time"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/repository"
	"go-boutique-store/internal/viewsync"
)

const (
	Storefront = "storefront"
	Inventory  = "inventory"
	Ledger     = "ledger"
	Dashboard  = "dashboard"
	Receipts   = "receipts"
)

const (
	DefaultDashboardDays = 30
	dashboardRecent      = 6
	dashboardStockWatch  = 6
)

// Builder derives page payloads from the repositories' current snapshots.
type Builder struct {
	Products *repository.Products
	Ledger   *repository.Ledger
	Receipts *repository.Receipts
	Now      func() time.Time
	// Period is the dashboard lookback pushed to live clients. nil means
	// DefaultDashboardDays.
	Period *aggregate.Period
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

type ShopItem struct {
	models.Product
	StockStatus aggregate.StockStatus `json:"stockStatus"`
}

type StorefrontPayload struct {
	Products   []ShopItem `json:"products"`
	Categories []string   `json:"categories"`
}

// Storefront lists products with their stock badge and the category
// filters, in first-seen order.
func (b *Builder) Storefront() StorefrontPayload {
	products := b.Products.List()
	out := StorefrontPayload{Products: make([]ShopItem, 0, len(products)), Categories: []string{}}
	seen := make(map[string]bool)
	for _, p := range products {
		out.Products = append(out.Products, ShopItem{Product: p, StockStatus: aggregate.ClassifyStock(p.Stock)})
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out.Categories = append(out.Categories, p.Category)
		}
	}
	return out
}

type InventoryRow struct {
	models.Product
	StockStatus aggregate.StockStatus  `json:"stockStatus"`
	Margin      aggregate.MarginStatus `json:"margin"`
}

type InventoryPayload struct {
	Products  []InventoryRow         `json:"products"`
	Stats     aggregate.CatalogStats `json:"stats"`
	Valuation aggregate.Valuation    `json:"valuation"`
	Saving    bool                   `json:"saving"`
}

// Inventory is the admin product table.
func (b *Builder) Inventory() InventoryPayload {
	products := b.Products.List()
	rows := make([]InventoryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, InventoryRow{
			Product:     p,
			StockStatus: aggregate.ClassifyStock(p.Stock),
			Margin:      aggregate.ClassifyMargin(p.Price, p.CostPrice),
		})
	}
	return InventoryPayload{
		Products:  rows,
		Stats:     aggregate.Catalog(products),
		Valuation: aggregate.StockValuation(products),
		Saving:    b.Products.Saving(),
	}
}

type BucketView struct {
	Entries    []models.LedgerEntry `json:"entries"`
	Categories []string             `json:"categories"`
}

type LedgerPayload struct {
	Buckets map[models.Bucket]BucketView `json:"buckets"`
	Totals  aggregate.BucketTotals       `json:"totals"`
}

// LedgerBook lists each bucket newest first with the all-time totals.
func (b *Builder) LedgerBook() LedgerPayload {
	snap := b.Ledger.Snapshot()
	out := LedgerPayload{Buckets: make(map[models.Bucket]BucketView, len(models.Buckets)), Totals: aggregate.Totals(snap)}
	for _, bucket := range models.Buckets {
		out.Buckets[bucket] = BucketView{
			Entries:    aggregate.NewestFirst(snap.Bucket(bucket)),
			Categories: bucket.Categories(),
		}
	}
	return out
}

type DashboardPayload struct {
	Period     aggregate.Period           `json:"period"`
	Rollup     aggregate.LedgerRollup     `json:"rollup"`
	Trend      []aggregate.SalesCostPoint `json:"trend"`
	Expenses   []aggregate.CategoryTotal  `json:"expenseCategories"`
	StockWatch []aggregate.StockRow       `json:"stockWatch"`
	Catalog    aggregate.CatalogStats     `json:"catalog"`
	Recent     []models.Receipt           `json:"recentReceipts"`
}

// Dashboard rolls the ledger up over p and adds the stock and receipt panels.
func (b *Builder) Dashboard(p aggregate.Period) DashboardPayload {
	today := b.now()
	snap := b.Ledger.Snapshot()
	window := aggregate.FilterLedger(snap, p.Cutoff(today))
	products := b.Products.List()
	return DashboardPayload{
		Period:     p,
		Rollup:     aggregate.Rollup(snap, p, today),
		Trend:      aggregate.SalesVsCosts(window),
		Expenses:   aggregate.CategoryTotals(window.Expenses),
		StockWatch: aggregate.StockWatch(products, dashboardStockWatch),
		Catalog:    aggregate.Catalog(products),
		Recent:     aggregate.RecentReceipts(b.Receipts.List(), dashboardRecent),
	}
}

type ReceiptsPayload struct {
	Receipts []models.Receipt         `json:"receipts"`
	Summary  aggregate.ReceiptSummary `json:"summary"`
}

// ReceiptHistory filters the receipt log and summarises the matches.
func (b *Builder) ReceiptHistory(f aggregate.ReceiptFilter) ReceiptsPayload {
	matches := aggregate.FilterReceipts(b.Receipts.List(), f)
	return ReceiptsPayload{Receipts: matches, Summary: aggregate.SummarizeReceipts(matches)}
}

// Register wires every page to the repositories it reads.
func Register(s *viewsync.Synchronizer, b *Builder) error {
	period := aggregate.Period{Days: DefaultDashboardDays}
	if b.Period != nil {
		period = *b.Period
	}
	views := []viewsync.View{
		{
			Name:    Storefront,
			Sources: []viewsync.Source{b.Products},
			Render:  func() (any, error) { return b.Storefront(), nil },
		},
		{
			Name:    Inventory,
			Sources: []viewsync.Source{b.Products},
			Render:  func() (any, error) { return b.Inventory(), nil },
		},
		{
			Name:    Ledger,
			Sources: []viewsync.Source{b.Ledger},
			Render:  func() (any, error) { return b.LedgerBook(), nil },
		},
		{
			Name:    Dashboard,
			Sources: []viewsync.Source{b.Ledger, b.Products, b.Receipts},
			Render:  func() (any, error) { return b.Dashboard(period), nil },
		},
		{
			Name:    Receipts,
			Sources: []viewsync.Source{b.Receipts},
			Render:  func() (any, error) { return b.ReceiptHistory(aggregate.ReceiptFilter{}), nil },
		},
	}
	for _, v := range views {
		if err := s.Register(v); err != nil {
			return err
		}
	}
	return nil
}
