package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store"
	"go-boutique-store/internal/store/memory"

	"github.com/shopspring/decimal"
)

func newProducts(t *testing.T) (*Products, *memory.Adapter) {
	t.Helper()
	adapter := memory.New()
	r := NewProducts(adapter, nil)
	if err := r.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Close)
	return r, adapter
}

func decp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	r, _ := newProducts(t)

	_, err := r.Create(ctx, ProductInput{Name: "Test", Price: decimal.NewFromInt(100)})
	if !errors.Is(err, errs.ErrImageRequired) || !errs.IsValidation(err) {
		t.Fatalf("create without image: %v", err)
	}
	if len(r.List()) != 0 {
		t.Fatal("rejected product was stored")
	}

	id, err := r.Create(ctx, ProductInput{Name: "Test", Price: decimal.NewFromInt(100), Image: "X"})
	if err != nil {
		t.Fatal(err)
	}
	list := r.List()
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("list = %+v", list)
	}

	if err := r.Update(ctx, id, models.ProductPatch{Price: decp(150)}); err != nil {
		t.Fatal(err)
	}
	got, err := r.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(decimal.NewFromInt(150)) || got.ID != id || got.Image != "X" {
		t.Fatalf("after edit = %+v", got)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	r, _ := newProducts(t)

	id, err := r.Create(ctx, ProductInput{Name: "  Kaftan ", Price: decimal.NewFromInt(10), Image: "k.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	p, _ := r.Get(id)
	if p.Name != "Kaftan" || p.Category != models.DefaultCategory || len(p.Sizes) != 4 || p.CreatedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if !regexp.MustCompile(`^ABY-[0-9A-Z]+-[0-9A-Z]{4}$`).MatchString(id) {
		t.Fatalf("id format: %s", id)
	}
}

func TestCreateValidation(t *testing.T) {
	neg := -1
	tests := []struct {
		name  string
		in    ProductInput
		field string
	}{
		{"blank name", ProductInput{Name: " ", Price: decimal.NewFromInt(1), Image: "x"}, "name"},
		{"zero price", ProductInput{Name: "A", Price: decimal.Zero, Image: "x"}, "price"},
		{"negative stock", ProductInput{Name: "A", Price: decimal.NewFromInt(1), Image: "x", Stock: &neg}, "stock"},
		{"negative cost", ProductInput{Name: "A", Price: decimal.NewFromInt(1), Image: "x", CostPrice: decp(-5)}, "costPrice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newProducts(t)
			_, err := r.Create(context.Background(), tt.in)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("err = %v, want validation on %s", err, tt.field)
			}
		})
	}
}

func TestUpdateNoOps(t *testing.T) {
	ctx := context.Background()
	r, _ := newProducts(t)
	id, _ := r.Create(ctx, ProductInput{Name: "A", Price: decimal.NewFromInt(5), Image: "a.jpg"})
	before, _ := r.Get(id)

	if err := r.Update(ctx, id, models.ProductPatch{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Update(ctx, "ABY-MISSING-0000", models.ProductPatch{Price: decp(9)}); err != nil {
		t.Fatalf("missing id should be a silent no-op: %v", err)
	}
	after, _ := r.Get(id)
	if !after.Price.Equal(before.Price) || after.Name != before.Name || len(r.List()) != 1 {
		t.Fatalf("product changed: %+v", after)
	}

	blank := ""
	if err := r.Update(ctx, id, models.ProductPatch{Name: &blank}); !errs.IsValidation(err) {
		t.Fatalf("blank name patch: %v", err)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	r, _ := newProducts(t)
	id, _ := r.Create(ctx, ProductInput{Name: "A", Price: decimal.NewFromInt(5), Image: "a.jpg"})

	var asked string
	decline := func(prompt string) bool { asked = prompt; return false }
	if err := r.Delete(ctx, id, decline); !errors.Is(err, errs.ErrConfirmationDeclined) {
		t.Fatalf("declined delete: %v", err)
	}
	if asked == "" || len(r.List()) != 1 {
		t.Fatal("product removed without confirmation")
	}
	if err := r.Delete(ctx, id, nil); !errors.Is(err, errs.ErrConfirmationDeclined) {
		t.Fatalf("nil confirm: %v", err)
	}
	if err := r.Delete(ctx, id, Always); err != nil {
		t.Fatal(err)
	}
	if len(r.List()) != 0 {
		t.Fatal("product still listed")
	}
	if err := r.Delete(ctx, id, nil); err != nil {
		t.Fatalf("deleting a missing product: %v", err)
	}
}

func TestSamplesAndClear(t *testing.T) {
	ctx := context.Background()
	r, _ := newProducts(t)

	n, err := r.LoadSamples(ctx, nil)
	if err != nil || n != 6 {
		t.Fatalf("first load: %d, %v", n, err)
	}
	if _, err := r.LoadSamples(ctx, nil); !errors.Is(err, errs.ErrConfirmationDeclined) {
		t.Fatalf("second load without confirmation: %v", err)
	}
	if _, err := r.LoadSamples(ctx, Always); err != nil {
		t.Fatal(err)
	}

	list := r.List()
	if len(list) != 12 {
		t.Fatalf("len = %d", len(list))
	}
	seen := make(map[string]bool)
	for _, p := range list {
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
	if list[0].Image != "images/ezgif-frame-010.jpg" || list[5].Image != "images/ezgif-frame-085.jpg" {
		t.Fatalf("sample images: %s, %s", list[0].Image, list[5].Image)
	}

	if err := r.Clear(ctx, func(string) bool { return false }); !errors.Is(err, errs.ErrConfirmationDeclined) {
		t.Fatalf("declined clear: %v", err)
	}
	if err := r.Clear(ctx, Always); err != nil {
		t.Fatal(err)
	}
	if len(r.List()) != 0 {
		t.Fatal("clear left products")
	}
}

func TestFailedWriteDiscardsOverlay(t *testing.T) {
	ctx := context.Background()
	r, adapter := newProducts(t)

	adapter.FailNext(store.ErrNetwork)
	_, err := r.Create(ctx, ProductInput{Name: "A", Price: decimal.NewFromInt(5), Image: "a.jpg"})
	if !errs.IsPersistence(err) || !errors.Is(err, store.ErrNetwork) {
		t.Fatalf("err = %v", err)
	}
	if len(r.List()) != 0 || r.Saving() {
		t.Fatal("failed write left state behind")
	}
}

func TestGetMissing(t *testing.T) {
	r, _ := newProducts(t)
	if _, err := r.Get("nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
