package checkout

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"go-boutique-store/internal/models"

	"github.com/shopspring/decimal"
)

func newFormatter() *Formatter {
	return New(Options{Contact: "+919876543210", BaseURL: "https://royalabaya.in/"})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"+91 98765-43210", "919876543210"},
		{"+1 (555) 010-9999", "15550109999"},
		{"09876543210", "919876543210"},
		{"9876543210", "919876543210"},
		{"919876543210", "919876543210"},
		// starts with 91 but too short to already carry the country code
		{"9123456789", "919123456789"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.raw); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatCart(t *testing.T) {
	f := newFormatter()
	cart := []models.CartItem{{ProductID: "P1", Name: "A", Price: decimal.NewFromInt(100), Size: "M", Image: "images/a.jpg"}}

	msg, ok := f.FormatCart(cart)
	if !ok {
		t.Fatal("non-empty cart reported no-op")
	}
	for _, want := range []string{
		"1. *A*\n",
		"Product ID: P1\n",
		"Size: M\n",
		"Price: ₹100\n",
		"Image: https://royalabaya.in/images/a.jpg\n",
		"*Total: ₹100*",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("message missing %q:\n%s", want, msg.Text)
		}
	}

	if !strings.HasPrefix(msg.Link, "https://wa.me/919876543210?text=") {
		t.Fatalf("link = %s", msg.Link)
	}
	u, err := url.Parse(msg.Link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("text") != msg.Text {
		t.Fatal("link text does not round-trip")
	}
	if strings.Contains(u.RawQuery, "+") {
		t.Fatal("spaces must be encoded as %20")
	}

	if _, ok := f.FormatCart(nil); ok {
		t.Fatal("empty cart should be a no-op")
	}
}

func TestFormatCartTotalsEveryItemOnce(t *testing.T) {
	f := newFormatter()
	msg, _ := f.FormatCart([]models.CartItem{
		{ProductID: "P1", Name: "A", Price: decimal.NewFromInt(4500), Size: "M"},
		{ProductID: "P2", Name: "B", Price: decimal.NewFromInt(3200), Size: "L", Image: "data:image/jpeg;base64,AAAA"},
	})
	if !strings.Contains(msg.Text, "*Total: ₹7,700*") {
		t.Fatalf("total:\n%s", msg.Text)
	}
	if strings.Contains(msg.Text, "data:image") {
		t.Fatal("inline image leaked into the message")
	}
}

func TestFormatInquiry(t *testing.T) {
	f := newFormatter()
	if _, ok := f.FormatInquiry(nil, "M"); ok {
		t.Fatal("nil product should be a no-op")
	}
	p := &models.Product{ID: "ABY-1", Name: "Pearl", Price: decimal.NewFromInt(4500), Image: "https://cdn.example/p.jpg"}

	msg, ok := f.FormatInquiry(p, "")
	if !ok || !strings.Contains(msg.Text, "Size: Not selected") || !strings.Contains(msg.Text, "Price: ₹4,500") {
		t.Fatalf("inquiry:\n%s", msg.Text)
	}
	if !strings.Contains(msg.Text, "Image: https://cdn.example/p.jpg") {
		t.Fatalf("absolute image rewritten:\n%s", msg.Text)
	}
	msg, _ = f.FormatInquiry(p, "XL")
	if !strings.Contains(msg.Text, "Size: XL") {
		t.Fatalf("inquiry:\n%s", msg.Text)
	}
}

func sampleReceipt() models.Receipt {
	return models.Receipt{
		ReceiptNo:     "RA-0007",
		CustomerName:  "Ayesha",
		CustomerPhone: "98765 43210",
		Items: []models.ReceiptItem{
			{Name: "Abaya", Qty: 2, MRP: decimal.NewFromInt(1000), Total: decimal.NewFromInt(2000)},
		},
		Subtotal:    decimal.NewFromInt(2000),
		Discount:    decimal.NewFromInt(200),
		Total:       decimal.NewFromInt(1800),
		PaymentMode: models.PaymentCash,
		Date:        "2026-03-14",
	}
}

func TestFormatReceipt(t *testing.T) {
	f := newFormatter()
	msg, ok := f.FormatReceipt(sampleReceipt())
	if !ok {
		t.Fatal("receipt with phone reported no-op")
	}
	if msg.Phone != "919876543210" {
		t.Fatalf("phone = %s", msg.Phone)
	}
	for _, want := range []string{
		"*ROYAL ABAYA*",
		"📄 *RA-0007*\n📅 14 Mar 2026",
		"  • Abaya × 2 = ₹2,000\n",
		"Discount:   -₹200\n",
		"*Total:     ₹1,800*",
		"💵 Paid via *Cash*",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("receipt missing %q:\n%s", want, msg.Text)
		}
	}

	r := sampleReceipt()
	r.Discount = decimal.Zero
	msg, _ = f.FormatReceipt(r)
	if strings.Contains(msg.Text, "Discount") {
		t.Fatal("zero discount should be omitted")
	}

	r.CustomerPhone = ""
	if _, ok := f.FormatReceipt(r); ok {
		t.Fatal("receipt without phone should be a no-op")
	}
}

func TestAmount(t *testing.T) {
	f := newFormatter()
	if got := f.Price(decimal.NewFromInt(100)); got != "₹100" {
		t.Fatalf("got %s", got)
	}
	if got := f.Amount(decimal.RequireFromString("99.5")); got != "99.50" {
		t.Fatalf("got %s", got)
	}
}

func TestReceiptPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := newFormatter().ReceiptPDF(sampleReceipt(), &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if QRPayload(sampleReceipt()) != "RA-0007|2026-03-14|1800.00" {
		t.Fatalf("payload = %s", QRPayload(sampleReceipt()))
	}
}
