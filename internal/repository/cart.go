package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store"

	"github.com/shopspring/decimal"
)

// Cart is one shopper's cart, keyed by product id so a product appears at
// most once. Items keep the name, price and image seen when they were
// added, even if the product later changes or disappears.
type Cart struct {
	c   *collection
	now func() time.Time
}

func NewCart(adapter store.Adapter, scope string, logger *slog.Logger) *Cart {
	return &Cart{c: newCollection(store.Cart(scope), adapter, logger), now: time.Now}
}

func (r *Cart) Load(ctx context.Context) error { return r.c.load(ctx) }
func (r *Cart) Close()                         { r.c.close() }
func (r *Cart) Subscribe(fn func()) func()     { return r.c.subscribe(fn) }

// Fetch reads the cart once and does not follow later changes. Such a cart
// needs no Close; it suits a cart that lives for a single request.
func (r *Cart) Fetch(ctx context.Context) error { return r.c.fetch(ctx) }

func (r *Cart) List() []models.CartItem {
	return decode[models.CartItem](r.c, r.c.current(), nil)
}

func (r *Cart) Contains(productID string) bool {
	return r.c.current().Index(productID) >= 0
}

func (r *Cart) Count() int { return len(r.c.current()) }

// Total sums item prices. Every product counts once.
func (r *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.List() {
		total = total.Add(it.Price)
	}
	return total
}

// Toggle adds p with the chosen size, or removes it when already present.
// It reports whether the product is in the cart afterwards.
func (r *Cart) Toggle(ctx context.Context, p models.Product, size string) (bool, error) {
	var added bool
	err := r.c.mutate(ctx, "toggle", func(cur store.Snapshot) (*change, error) {
		if cur.Index(p.ID) >= 0 {
			added = false
			return r.c.setChange(cur.Without(p.ID)), nil
		}

		size = strings.TrimSpace(size)
		if size == "" {
			size = models.DefaultCartSize
		}
		raw, err := json.Marshal(models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Size:      size,
			AddedAt:   r.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("encode cart item: %w", err)
		}
		added = true
		return r.c.setChange(append(cur, store.Record{Key: p.ID, Value: raw})), nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// Remove drops one product. A product not in the cart is a no-op.
func (r *Cart) Remove(ctx context.Context, productID string) error {
	return r.c.mutate(ctx, "remove", func(cur store.Snapshot) (*change, error) {
		if cur.Index(productID) < 0 {
			return nil, nil
		}
		return r.c.setChange(cur.Without(productID)), nil
	})
}

func (r *Cart) Clear(ctx context.Context) error {
	return r.c.mutate(ctx, "clear", func(cur store.Snapshot) (*change, error) {
		if len(cur) == 0 {
			return nil, nil
		}
		return r.c.setChange(store.Snapshot{}), nil
	})
}
