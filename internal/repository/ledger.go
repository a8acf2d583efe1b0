package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LedgerInput is one manual ledger entry.
type LedgerInput struct {
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"desc"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes"`
	AutoFromReceipt bool            `json:"autoFromReceipt"`
	ReceiptRef      string          `json:"receiptRef"`
}

// Ledger holds the sales, purchases and expenses logs. The buckets are
// independent collections; nothing spans them atomically.
type Ledger struct {
	buckets map[models.Bucket]*collection
	now     func() time.Time
}

func NewLedger(adapter store.Adapter, logger *slog.Logger) *Ledger {
	l := &Ledger{buckets: make(map[models.Bucket]*collection), now: time.Now}
	for _, b := range models.Buckets {
		l.buckets[b] = newCollection(store.Ledger(string(b)), adapter, logger)
	}
	return l
}

func (l *Ledger) Load(ctx context.Context) error {
	for _, b := range models.Buckets {
		if err := l.buckets[b].load(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Close() {
	for _, c := range l.buckets {
		c.close()
	}
}

// Subscribe calls fn after a change to any bucket.
func (l *Ledger) Subscribe(fn func()) func() {
	var stops []func()
	for _, b := range models.Buckets {
		stops = append(stops, l.buckets[b].subscribe(fn))
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

// List returns a bucket's entries in arrival order.
func (l *Ledger) List(b models.Bucket) []models.LedgerEntry {
	c, ok := l.buckets[b]
	if !ok {
		return nil
	}
	return decode(c, c.current(), func(e *models.LedgerEntry, key string) {
		e.Key = key
		e.Bucket = b
	})
}

// Snapshot returns all three buckets.
func (l *Ledger) Snapshot() models.LedgerSnapshot {
	return models.LedgerSnapshot{
		Sales:     l.List(models.BucketSales),
		Purchases: l.List(models.BucketPurchases),
		Expenses:  l.List(models.BucketExpenses),
	}
}

// Create validates in and appends it to bucket b.
func (l *Ledger) Create(ctx context.Context, b models.Bucket, in LedgerInput) (string, error) {
	c, ok := l.buckets[b]
	if !ok {
		return "", errs.Invalid("bucket", errs.ErrUnknownBucket)
	}
	entry, err := l.validate(b, in)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("encode ledger entry: %w", err)
	}

	var key string
	err = c.mutate(ctx, "create", func(cur store.Snapshot) (*change, error) {
		return c.pushChange(cur, raw, &key), nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// DeleteByKey removes one entry after confirmation. A missing key is a no-op.
func (l *Ledger) DeleteByKey(ctx context.Context, b models.Bucket, key string, confirm Confirm) error {
	c, ok := l.buckets[b]
	if !ok {
		return errs.Invalid("bucket", errs.ErrUnknownBucket)
	}
	return c.mutate(ctx, "delete", func(cur store.Snapshot) (*change, error) {
		if key == "" || cur.Index(key) < 0 {
			return nil, nil
		}
		if err := ask(confirm, "Delete this entry?"); err != nil {
			return nil, err
		}
		return c.removeChange(cur, key), nil
	})
}

func (l *Ledger) validate(b models.Bucket, in LedgerInput) (models.LedgerEntry, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return models.LedgerEntry{}, errs.Invalid("date", errs.ErrRequired)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.LedgerEntry{}, errs.Invalid("date", errs.ErrInvalidDate)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return models.LedgerEntry{}, errs.Invalid("description", errs.ErrRequired)
	}
	if !in.Amount.IsPositive() {
		return models.LedgerEntry{}, errs.Invalid("amount", errs.ErrNotPositive)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.OtherCategory
	}
	if !b.HasCategory(category) {
		return models.LedgerEntry{}, errs.Invalid("category", errs.ErrUnknownCategory)
	}

	return models.LedgerEntry{
		Date:            date,
		Amount:          in.Amount,
		Description:     desc,
		Category:        category,
		Notes:           strings.TrimSpace(in.Notes),
		AutoFromReceipt: in.AutoFromReceipt,
		ReceiptRef:      in.ReceiptRef,
		CreatedAt:       l.now().UTC(),
	}, nil
}
