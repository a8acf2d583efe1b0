package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is one of the three disjoint ledger logs.
type Bucket string

const (
	BucketSales     Bucket = "sales"
	BucketPurchases Bucket = "purchases"
	BucketExpenses  Bucket = "expenses"
)

// Buckets lists every ledger bucket in display order.
var Buckets = []Bucket{BucketSales, BucketPurchases, BucketExpenses}

const OtherCategory = "Other"

var bucketCategories = map[Bucket][]string{
	BucketSales:     {"General", "Online", "Walk-in", "Bulk Order", OtherCategory},
	BucketPurchases: {"Fabric", "Accessories", "Packaging", "Stock", OtherCategory},
	BucketExpenses:  {"Rent", "Utilities", "Salary", "Shipping", "Marketing", "Maintenance", OtherCategory},
}

// Valid reports whether b names a known bucket.
func (b Bucket) Valid() bool {
	_, ok := bucketCategories[b]
	return ok
}

// Categories returns the category labels allowed in b.
func (b Bucket) Categories() []string {
	return append([]string(nil), bucketCategories[b]...)
}

// HasCategory reports whether c is one of b's categories.
func (b Bucket) HasCategory(c string) bool {
	for _, known := range bucketCategories[b] {
		if known == c {
			return true
		}
	}
	return false
}

// LedgerEntry - one money movement. Entries are never edited, only deleted.
type LedgerEntry struct {
	Key             string          `json:"key,omitempty"`
	Bucket          Bucket          `json:"bucket,omitempty"`
	Date            string          `json:"date"` // YYYY-MM-DD
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"desc"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes,omitempty"`
	AutoFromReceipt bool            `json:"autoFromReceipt,omitempty"`
	ReceiptRef      string          `json:"receiptRef,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// LedgerSnapshot holds the entries of all three buckets.
type LedgerSnapshot struct {
	Sales     []LedgerEntry `json:"sales"`
	Purchases []LedgerEntry `json:"purchases"`
	Expenses  []LedgerEntry `json:"expenses"`
}

// Bucket returns the entries held for b.
func (s LedgerSnapshot) Bucket(b Bucket) []LedgerEntry {
	switch b {
	case BucketSales:
		return s.Sales
	case BucketPurchases:
		return s.Purchases
	case BucketExpenses:
		return s.Expenses
	}
	return nil
}
