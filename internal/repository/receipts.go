package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store"

	"github.com/shopspring/decimal"
)

// ReceiptDraft is the point-of-sale form.
type ReceiptDraft struct {
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	Items           []aggregate.LineItem `json:"items"`
	FlatDiscount    decimal.Decimal      `json:"discountFlat"`
	DiscountPercent decimal.Decimal      `json:"discountPercent"`
	PaymentMode     models.PaymentMode   `json:"paymentMode"`
	PostToLedger    bool                 `json:"postToLedger"`
	SalesCategory   string               `json:"salesCategory"`
}

// Receipts is the append-only receipt log plus the shared receipt counter.
//
// The counter is read, the receipt pushed, then the counter written. Two
// admins saving at the same moment can mint the same number; nothing here
// locks across processes.
type Receipts struct {
	c       *collection
	counter *collection
	ledger  *Ledger
	now     func() time.Time
}

// NewReceipts builds the receipt log. ledger may be nil, in which case
// PostToLedger is ignored.
func NewReceipts(adapter store.Adapter, ledger *Ledger, logger *slog.Logger) *Receipts {
	return &Receipts{
		c:       newCollection(store.Receipts, adapter, logger),
		counter: newCollection(store.ReceiptCounter, adapter, logger),
		ledger:  ledger,
		now:     time.Now,
	}
}

func (r *Receipts) Load(ctx context.Context) error {
	if err := r.c.load(ctx); err != nil {
		return err
	}
	return r.counter.load(ctx)
}

func (r *Receipts) Close() {
	r.c.close()
	r.counter.close()
}

func (r *Receipts) Subscribe(fn func()) func() { return r.c.subscribe(fn) }

// List returns receipts in arrival order.
func (r *Receipts) List() []models.Receipt {
	return decode(r.c, r.c.current(), func(rc *models.Receipt, key string) { rc.Key = key })
}

// Get finds a receipt by store key or receipt number.
func (r *Receipts) Get(ref string) (models.Receipt, error) {
	for _, rc := range r.List() {
		if rc.Key == ref || rc.ReceiptNo == ref {
			return rc, nil
		}
	}
	return models.Receipt{}, fmt.Errorf("receipt %s: %w", ref, errs.ErrNotFound)
}

// NextNumber previews the number the next receipt will get.
func (r *Receipts) NextNumber(ctx context.Context) (string, error) {
	last, err := r.readCounter(ctx)
	if err != nil {
		return "", err
	}
	return models.ReceiptNumber(last + 1), nil
}

// Create validates the draft, computes totals, numbers and stores the
// receipt, then advances the counter. With PostToLedger a linked sales
// entry is appended too.
func (r *Receipts) Create(ctx context.Context, d ReceiptDraft) (models.Receipt, error) {
	for i, it := range d.Items {
		if it.MRP.IsNegative() {
			return models.Receipt{}, errs.Invalid(fmt.Sprintf("items[%d].mrp", i), errs.ErrNegative)
		}
	}
	totals := aggregate.ComputeReceiptTotals(d.Items, d.FlatDiscount, d.DiscountPercent)
	if len(totals.Items) == 0 {
		return models.Receipt{}, errs.Invalid("items", errs.ErrNoItems)
	}
	mode := d.PaymentMode
	if mode == "" {
		mode = models.PaymentUPI
	}
	if !mode.Valid() {
		return models.Receipt{}, errs.Invalid("paymentMode", errs.ErrUnknownPaymentMode)
	}

	last, err := r.readCounter(ctx)
	if err != nil {
		return models.Receipt{}, err
	}
	n := last + 1

	name := strings.TrimSpace(d.CustomerName)
	if name == "" {
		name = models.DefaultCustomerName
	}
	now := r.now()
	receipt := models.Receipt{
		ReceiptNo:     models.ReceiptNumber(n),
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(d.CustomerPhone),
		Items:         totals.Items,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		PaymentMode:   mode,
		CreatedAt:     now.UTC(),
		Date:          now.Format(dateLayout),
	}
	raw, err := json.Marshal(receipt)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("encode receipt: %w", err)
	}

	var key string
	err = r.c.mutate(ctx, "create", func(cur store.Snapshot) (*change, error) {
		return r.c.pushChange(cur, raw, &key), nil
	})
	if err != nil {
		return models.Receipt{}, err
	}
	receipt.Key = key

	if err := r.writeCounter(ctx, n); err != nil {
		return receipt, err
	}

	if d.PostToLedger && r.ledger != nil && receipt.Total.IsPositive() {
		_, err := r.ledger.Create(ctx, models.BucketSales, LedgerInput{
			Date:            receipt.Date,
			Amount:          receipt.Total,
			Description:     fmt.Sprintf("Receipt %s - %s", receipt.ReceiptNo, receipt.CustomerName),
			Category:        d.SalesCategory,
			AutoFromReceipt: true,
			ReceiptRef:      receipt.ReceiptNo,
		})
		if err != nil {
			return receipt, fmt.Errorf("post %s to ledger: %w", receipt.ReceiptNo, err)
		}
	}
	return receipt, nil
}

// DeleteByKey removes one receipt after confirmation. A missing key is a no-op.
func (r *Receipts) DeleteByKey(ctx context.Context, key string, confirm Confirm) error {
	return r.c.mutate(ctx, "delete", func(cur store.Snapshot) (*change, error) {
		if key == "" || cur.Index(key) < 0 {
			return nil, nil
		}
		if err := ask(confirm, "Delete this receipt?"); err != nil {
			return nil, err
		}
		return r.c.removeChange(cur, key), nil
	})
}

// readCounter fetches the last issued number straight from the store.
func (r *Receipts) readCounter(ctx context.Context) (int, error) {
	snap, err := r.counter.adapter.Get(ctx, store.ReceiptCounter)
	if err != nil {
		return 0, errs.Persistence("read", store.ReceiptCounter, err)
	}
	i := snap.Index(store.CounterKey)
	if i < 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(snap[i].Value)))
	if err != nil {
		return 0, errs.Persistence("read", store.ReceiptCounter, fmt.Errorf("counter %q: %w", snap[i].Value, err))
	}
	return n, nil
}

func (r *Receipts) writeCounter(ctx context.Context, n int) error {
	value := json.RawMessage(strconv.Itoa(n))
	return r.counter.mutate(ctx, "advance", func(store.Snapshot) (*change, error) {
		return r.counter.setChange(store.Snapshot{{Key: store.CounterKey, Value: value}}), nil
	})
}
