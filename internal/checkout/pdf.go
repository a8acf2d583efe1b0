package checkout

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go-boutique-store/internal/models"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// QRPayload is what the receipt QR code encodes: number, date and total.
func QRPayload(r models.Receipt) string {
	return fmt.Sprintf("%s|%s|%s", r.ReceiptNo, r.Date, r.Total.StringFixed(2))
}

// ReceiptPDF writes a printable A5 receipt to w. The core PDF fonts have
// no rupee glyph, so amounts print as "Rs.".
func (f *Formatter) ReceiptPDF(r models.Receipt, w io.Writer) error {
	qrPNG, err := qrcode.Encode(QRPayload(r), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 9, tr(strings.ToUpper(f.opts.ShopName)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 6, tr(f.opts.Tagline), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(62, 6, "Receipt: "+r.ReceiptNo, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+DisplayDate(r.Date), "", 1, "R", false, 0, "")
	name := r.CustomerName
	if name == "" {
		name = models.DefaultCustomerName
	}
	pdf.CellFormat(0, 6, tr("Customer: "+name), "", 1, "L", false, 0, "")
	if r.CustomerPhone != "" {
		pdf.CellFormat(0, 6, "Phone: "+r.CustomerPhone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 234, 222)
	pdf.CellFormat(62, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(14, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(24, 7, "MRP", "1", 0, "R", true, 0, "")
	pdf.CellFormat(24, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range r.Items {
		pdf.CellFormat(62, 7, tr(it.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(14, 7, fmt.Sprint(it.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 7, f.pdfAmount(it.MRP), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 7, f.pdfAmount(it.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	totalsRow := func(label, value string) {
		pdf.CellFormat(100, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, value, "", 1, "R", false, 0, "")
	}
	totalsRow("Subtotal", f.pdfAmount(r.Subtotal))
	if r.Discount.IsPositive() {
		totalsRow("Discount", "-"+f.pdfAmount(r.Discount))
	}
	pdf.SetFont("Arial", "B", 11)
	totalsRow("Total", f.pdfAmount(r.Total))
	pdf.SetFont("Arial", "", 10)
	totalsRow("Paid via", string(r.PaymentMode))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 12, pdf.GetY()+4, 28, 28, false, imageOpts, 0, "")

	pdf.SetY(pdf.GetY() + 36)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Thank you for shopping with %s!\nFor exchange/return, contact us within 7 days.", f.opts.ShopName)), "", "C", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("receipt pdf: %w", err)
	}
	return nil
}

func (f *Formatter) pdfAmount(d decimal.Decimal) string {
	return "Rs. " + f.Amount(d)
}
