// Package checkout turns carts, product inquiries and receipts into
// prefilled chat messages and printable receipts.
package checkout

import (
	"fmt"
	"strings"
	"time"

	"go-boutique-store/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Options struct {
	ShopName    string
	Tagline     string
	Currency    string
	CountryCode string
	// Contact is the business number cart and inquiry messages go to.
	Contact string
	// BaseURL prefixes relative product image paths.
	BaseURL string
}

// Message is a ready-to-send chat message.
type Message struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
	Link  string `json:"link"`
}

type Formatter struct {
	opts    Options
	printer *message.Printer
}

func New(opts Options) *Formatter {
	if opts.ShopName == "" {
		opts.ShopName = "Royal Abaya"
	}
	if opts.Tagline == "" {
		opts.Tagline = "Elegance in Every Thread"
	}
	if opts.Currency == "" {
		opts.Currency = "₹"
	}
	if opts.CountryCode == "" {
		opts.CountryCode = DefaultCountryCode
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Formatter{opts: opts, printer: message.NewPrinter(language.MustParse("en-IN"))}
}

// Amount formats a value with Indian digit grouping, without currency.
func (f *Formatter) Amount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return f.printer.Sprintf("%.2f", d.InexactFloat64())
}

// Price formats a value with the shop currency, e.g. ₹4,500.
func (f *Formatter) Price(d decimal.Decimal) string {
	return f.opts.Currency + f.Amount(d)
}

func (f *Formatter) compose(phone, text string) Message {
	normalized := normalizePhone(phone, f.opts.CountryCode)
	return Message{Phone: normalized, Text: text, Link: link(normalized, text)}
}

// imageRef makes an image reference readable outside the site. Inline
// data URIs are too large for a chat message and are left out.
func (f *Formatter) imageRef(image string) string {
	switch {
	case image == "", strings.HasPrefix(image, "data:"):
		return ""
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image
	}
	return f.opts.BaseURL + "/" + strings.TrimLeft(image, "/")
}

// FormatCart builds the order request for the whole cart. It reports
// false for an empty cart.
func (f *Formatter) FormatCart(items []models.CartItem) (Message, bool) {
	if len(items) == 0 {
		return Message{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🕌 *%s - Order Request*\n\n", f.opts.ShopName)
	b.WriteString("I would like to order the following items:\n\n")

	total := decimal.Zero
	for i, it := range items {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, it.Name)
		fmt.Fprintf(&b, "   Product ID: %s\n", it.ProductID)
		fmt.Fprintf(&b, "   Size: %s\n", it.Size)
		fmt.Fprintf(&b, "   Price: %s\n", f.Price(it.Price))
		if ref := f.imageRef(it.Image); ref != "" {
			fmt.Fprintf(&b, "   Image: %s\n", ref)
		}
		b.WriteString("\n")
		total = total.Add(it.Price)
	}

	fmt.Fprintf(&b, "\n💰 *Total: %s*\n", f.Price(total))
	b.WriteString("\nPlease confirm availability and share payment details. Thank you! 🤍")
	return f.compose(f.opts.Contact, b.String()), true
}

// FormatInquiry asks about a single product. It reports false when there
// is no product.
func (f *Formatter) FormatInquiry(p *models.Product, size string) (Message, bool) {
	if p == nil {
		return Message{}, false
	}
	size = strings.TrimSpace(size)
	if size == "" {
		size = "Not selected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🕌 *%s - Product Inquiry*\n\n", f.opts.ShopName)
	b.WriteString("I'm interested in:\n\n")
	fmt.Fprintf(&b, "*%s*\n", p.Name)
	fmt.Fprintf(&b, "Product ID: %s\n", p.ID)
	fmt.Fprintf(&b, "Price: %s\n", f.Price(p.Price))
	fmt.Fprintf(&b, "Size: %s\n", size)
	if ref := f.imageRef(p.Image); ref != "" {
		fmt.Fprintf(&b, "Image: %s\n", ref)
	}
	b.WriteString("\nPlease share more details. Thank you! 🤍")
	return f.compose(f.opts.Contact, b.String()), true
}

const receiptRule = "─────────────────────"

var payIcons = map[models.PaymentMode]string{
	models.PaymentUPI:        "📱",
	models.PaymentCash:       "💵",
	models.PaymentCreditCard: "💳",
}

// FormatReceipt builds the receipt summary sent to the customer. It
// reports false when the receipt has no phone number.
func (f *Formatter) FormatReceipt(r models.Receipt) (Message, bool) {
	if strings.TrimSpace(r.CustomerPhone) == "" {
		return Message{}, false
	}
	name := r.CustomerName
	if name == "" {
		name = models.DefaultCustomerName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌟 *%s* 🌟\n_%s_\n\n", strings.ToUpper(f.opts.ShopName), f.opts.Tagline)
	fmt.Fprintf(&b, "📄 *%s*\n📅 %s\n\n", r.ReceiptNo, DisplayDate(r.Date))
	fmt.Fprintf(&b, "👤 *Customer:* %s\n", name)
	fmt.Fprintf(&b, "📞 %s\n", r.CustomerPhone)
	fmt.Fprintf(&b, "\n%s\n*Items*\n%s\n", receiptRule, receiptRule)
	for _, it := range r.Items {
		fmt.Fprintf(&b, "  • %s × %d = %s\n", it.Name, it.Qty, f.Price(it.Total))
	}
	fmt.Fprintf(&b, "%s\n", receiptRule)
	fmt.Fprintf(&b, "Subtotal:   %s\n", f.Price(r.Subtotal))
	if r.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount:   -%s\n", f.Price(r.Discount))
	}
	fmt.Fprintf(&b, "*Total:     %s*\n", f.Price(r.Total))
	fmt.Fprintf(&b, "%s\n", receiptRule)

	icon, ok := payIcons[r.PaymentMode]
	if !ok {
		icon = "💳"
	}
	fmt.Fprintf(&b, "%s Paid via *%s*\n\n", icon, r.PaymentMode)
	fmt.Fprintf(&b, "_Thank you for shopping with %s! 🛍️_\n", f.opts.ShopName)
	b.WriteString("_For exchange/return, contact us within 7 days._")
	return f.compose(r.CustomerPhone, b.String()), true
}

// DisplayDate renders an ISO date as "14 Mar 2026". Anything else is
// returned unchanged.
func DisplayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006")
}
