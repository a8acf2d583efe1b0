package repository

import (
	"context"
	"errors"
	"testing"

	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store/memory"

	"github.com/shopspring/decimal"
)

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(memory.New(), nil)
	if err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(l.Close)
	return l
}

func TestLedgerValidation(t *testing.T) {
	ok := LedgerInput{Date: "2026-03-01", Amount: decimal.NewFromInt(500), Description: "Fabric roll"}
	tests := []struct {
		name   string
		bucket models.Bucket
		edit   func(*LedgerInput)
		field  string
		want   error
	}{
		{"missing date", models.BucketPurchases, func(in *LedgerInput) { in.Date = "" }, "date", errs.ErrRequired},
		{"bad date", models.BucketPurchases, func(in *LedgerInput) { in.Date = "01/03/2026" }, "date", errs.ErrInvalidDate},
		{"missing description", models.BucketPurchases, func(in *LedgerInput) { in.Description = "  " }, "description", errs.ErrRequired},
		{"zero amount", models.BucketPurchases, func(in *LedgerInput) { in.Amount = decimal.Zero }, "amount", errs.ErrNotPositive},
		{"negative amount", models.BucketExpenses, func(in *LedgerInput) { in.Amount = decimal.NewFromInt(-3) }, "amount", errs.ErrNotPositive},
		{"foreign category", models.BucketExpenses, func(in *LedgerInput) { in.Category = "Fabric" }, "category", errs.ErrUnknownCategory},
		{"unknown bucket", models.Bucket("refunds"), func(*LedgerInput) {}, "bucket", errs.ErrUnknownBucket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger(t)
			in := ok
			tt.edit(&in)
			_, err := l.Create(context.Background(), tt.bucket, in)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field || !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %s: %v", err, tt.field, tt.want)
			}
		})
	}
}

func TestLedgerCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	k1, err := l.Create(ctx, models.BucketPurchases, LedgerInput{
		Date: "2026-03-01", Amount: decimal.NewFromInt(500), Description: "Fabric roll", Category: "Fabric",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Create(ctx, models.BucketPurchases, LedgerInput{
		Date: "2026-03-02", Amount: decimal.NewFromInt(80), Description: "Boxes",
	}); err != nil {
		t.Fatal(err)
	}

	list := l.List(models.BucketPurchases)
	if len(list) != 2 || list[0].Key != k1 || list[0].Bucket != models.BucketPurchases {
		t.Fatalf("list = %+v", list)
	}
	if list[1].Category != models.OtherCategory {
		t.Fatalf("default category = %q", list[1].Category)
	}
	if len(l.Snapshot().Sales) != 0 || len(l.Snapshot().Purchases) != 2 {
		t.Fatal("entry landed in the wrong bucket")
	}

	if err := l.DeleteByKey(ctx, models.BucketPurchases, k1, nil); !errors.Is(err, errs.ErrConfirmationDeclined) {
		t.Fatalf("unconfirmed delete: %v", err)
	}
	if err := l.DeleteByKey(ctx, models.BucketPurchases, "missing", nil); err != nil {
		t.Fatalf("missing key: %v", err)
	}
	if err := l.DeleteByKey(ctx, models.BucketPurchases, k1, Always); err != nil {
		t.Fatal(err)
	}
	list = l.List(models.BucketPurchases)
	if len(list) != 1 || list[0].Description != "Boxes" {
		t.Fatalf("after delete = %+v", list)
	}
}

func TestLedgerSubscribeCoversEveryBucket(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	calls := 0
	stop := l.Subscribe(func() { calls++ })
	if _, err := l.Create(ctx, models.BucketExpenses, LedgerInput{
		Date: "2026-03-01", Amount: decimal.NewFromInt(20), Description: "Tea", Category: "Utilities",
	}); err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Fatal("listener not called")
	}
	stop()
	before := calls
	if _, err := l.Create(ctx, models.BucketSales, LedgerInput{
		Date: "2026-03-01", Amount: decimal.NewFromInt(20), Description: "Walk-in sale",
	}); err != nil {
		t.Fatal(err)
	}
	if calls != before {
		t.Fatal("listener called after unsubscribe")
	}
}
