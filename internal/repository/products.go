package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store"

	"github.com/shopspring/decimal"
)

// ProductInput is the admin form for a new product.
type ProductInput struct {
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Sizes       []string         `json:"sizes"`
	Image       string           `json:"image"`
	Stock       *int             `json:"stock,omitempty"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"`
}

// Products is the catalog, stored as one collection keyed by product id.
type Products struct {
	c   *collection
	now func() time.Time
}

func NewProducts(adapter store.Adapter, logger *slog.Logger) *Products {
	return &Products{c: newCollection(store.Products, adapter, logger), now: time.Now}
}

func (r *Products) Load(ctx context.Context) error { return r.c.load(ctx) }
func (r *Products) Close()                         { r.c.close() }

// Subscribe calls fn after every change to the catalog.
func (r *Products) Subscribe(fn func()) func() { return r.c.subscribe(fn) }

// Saving reports whether a write is waiting for the store.
func (r *Products) Saving() bool { return r.c.saving() }

// List returns the catalog in insertion order.
func (r *Products) List() []models.Product {
	return decode[models.Product](r.c, r.c.current(), nil)
}

func (r *Products) Get(id string) (models.Product, error) {
	for _, p := range r.List() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, errs.ErrNotFound)
}

// Create validates in, applies defaults and appends the product.
func (r *Products) Create(ctx context.Context, in ProductInput) (string, error) {
	if err := validateProductInput(in); err != nil {
		return "", err
	}

	var id string
	err := r.c.mutate(ctx, "create", func(cur store.Snapshot) (*change, error) {
		id = r.uniqueID(cur)
		rec, err := productRecord(newProduct(id, in, r.now()))
		if err != nil {
			return nil, err
		}
		return r.c.setChange(append(cur, rec)), nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update merges patch into the product. A missing id is a no-op.
func (r *Products) Update(ctx context.Context, id string, patch models.ProductPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	return r.c.mutate(ctx, "update", func(cur store.Snapshot) (*change, error) {
		i := cur.Index(id)
		if i < 0 {
			return nil, nil
		}
		var p models.Product
		if err := json.Unmarshal(cur[i].Value, &p); err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		rec, err := productRecord(patch.Apply(p))
		if err != nil {
			return nil, err
		}
		cur[i] = rec
		return r.c.setChange(cur), nil
	})
}

// Delete removes one product after confirmation. A missing id is a no-op.
func (r *Products) Delete(ctx context.Context, id string, confirm Confirm) error {
	return r.c.mutate(ctx, "delete", func(cur store.Snapshot) (*change, error) {
		if cur.Index(id) < 0 {
			return nil, nil
		}
		if err := ask(confirm, "Delete this product? This cannot be undone."); err != nil {
			return nil, err
		}
		return r.c.setChange(cur.Without(id)), nil
	})
}

// Clear removes every product after confirmation.
func (r *Products) Clear(ctx context.Context, confirm Confirm) error {
	return r.c.mutate(ctx, "clear", func(cur store.Snapshot) (*change, error) {
		if len(cur) == 0 {
			return nil, nil
		}
		if err := ask(confirm, "Delete ALL products? This cannot be undone."); err != nil {
			return nil, err
		}
		return r.c.setChange(store.Snapshot{}), nil
	})
}

// LoadSamples appends the sample catalog. Confirmation is only needed
// when products already exist.
func (r *Products) LoadSamples(ctx context.Context, confirm Confirm) (int, error) {
	samples := SampleProducts()
	err := r.c.mutate(ctx, "load samples", func(cur store.Snapshot) (*change, error) {
		if len(cur) > 0 {
			if err := ask(confirm, "This will add sample products alongside existing ones. Continue?"); err != nil {
				return nil, err
			}
		}
		next := cur
		now := r.now()
		for _, in := range samples {
			rec, err := productRecord(newProduct(r.uniqueID(next), in, now))
			if err != nil {
				return nil, err
			}
			next = append(next, rec)
		}
		return r.c.setChange(next), nil
	})
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (r *Products) uniqueID(cur store.Snapshot) string {
	for {
		id := newProductID(r.now())
		if cur.Index(id) < 0 {
			return id
		}
	}
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newProductID builds ABY-<base36 millis>-<4 random chars>.
func newProductID(now time.Time) string {
	var suffix [4]byte
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "ABY-" + ts + "-" + string(suffix[:])
}

func newProduct(id string, in ProductInput, now time.Time) models.Product {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	return models.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Sizes:       models.CleanSizes(in.Sizes),
		Image:       in.Image,
		Stock:       in.Stock,
		CostPrice:   in.CostPrice,
		CreatedAt:   now.UTC(),
	}
}

func productRecord(p models.Product) (store.Record, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return store.Record{}, fmt.Errorf("encode product %s: %w", p.ID, err)
	}
	return store.Record{Key: p.ID, Value: raw}, nil
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errs.Invalid("name", errs.ErrRequired)
	}
	if !in.Price.IsPositive() {
		return errs.Invalid("price", errs.ErrNotPositive)
	}
	if in.Image == "" {
		return errs.Invalid("image", errs.ErrImageRequired)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return errs.Invalid("stock", errs.ErrNegative)
	}
	if in.CostPrice != nil && in.CostPrice.IsNegative() {
		return errs.Invalid("costPrice", errs.ErrNegative)
	}
	return nil
}

func validatePatch(p models.ProductPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errs.Invalid("name", errs.ErrRequired)
	}
	if p.Price != nil && !p.Price.IsPositive() {
		return errs.Invalid("price", errs.ErrNotPositive)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return errs.Invalid("stock", errs.ErrNegative)
	}
	if p.CostPrice != nil && p.CostPrice.IsNegative() {
		return errs.Invalid("costPrice", errs.ErrNegative)
	}
	return nil
}
