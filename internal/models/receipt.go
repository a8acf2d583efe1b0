package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentUPI        PaymentMode = "UPI"
	PaymentCash       PaymentMode = "Cash"
	PaymentCreditCard PaymentMode = "Credit Card"
)

var PaymentModes = []PaymentMode{PaymentUPI, PaymentCash, PaymentCreditCard}

// Valid reports whether m is a supported payment mode.
func (m PaymentMode) Valid() bool {
	for _, known := range PaymentModes {
		if m == known {
			return true
		}
	}
	return false
}

const DefaultCustomerName = "Customer"

// ReceiptItem - one line of a receipt
type ReceiptItem struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	MRP   decimal.Decimal `json:"mrp"`
	Total decimal.Decimal `json:"total"` // Qty * MRP
}

// Receipt - a point-of-sale bill. Receipts are append-only.
type Receipt struct {
	Key           string          `json:"key,omitempty"`
	ReceiptNo     string          `json:"receiptNo"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	Items         []ReceiptItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMode   PaymentMode     `json:"paymentMode"`
	CreatedAt     time.Time       `json:"createdAt"`
	Date          string          `json:"date"` // YYYY-MM-DD
}

// ReceiptNumber formats the n-th receipt number, e.g. RA-0007.
func ReceiptNumber(n int) string {
	return fmt.Sprintf("RA-%04d", n)
}
