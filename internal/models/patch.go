package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductPatch is a partial product update. A nil field keeps the current
// value. ClearStock and ClearCostPrice unset the optional numbers.
type ProductPatch struct {
	Name           *string          `json:"name,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Sizes          []string         `json:"sizes,omitempty"`
	Image          *string          `json:"image,omitempty"`
	Stock          *int             `json:"stock,omitempty"`
	CostPrice      *decimal.Decimal `json:"costPrice,omitempty"`
	ClearStock     bool             `json:"clearStock,omitempty"`
	ClearCostPrice bool             `json:"clearCostPrice,omitempty"`
}

// IsEmpty reports whether applying the patch would change nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Category == nil && p.Description == nil &&
		p.Sizes == nil && (p.Image == nil || *p.Image == "") && p.Stock == nil && p.CostPrice == nil &&
		!p.ClearStock && !p.ClearCostPrice
}

// Apply returns a copy of prod with the patch merged in. The id and
// creation time never change. An empty image keeps the current one.
func (p ProductPatch) Apply(prod Product) Product {
	out := prod
	out.Sizes = append([]string(nil), prod.Sizes...)

	if p.Name != nil {
		out.Name = trim(*p.Name)
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.Category != nil {
		out.Category = trim(*p.Category)
		if out.Category == "" {
			out.Category = DefaultCategory
		}
	}
	if p.Description != nil {
		out.Description = trim(*p.Description)
	}
	if p.Sizes != nil {
		out.Sizes = CleanSizes(p.Sizes)
	}
	if p.Image != nil && *p.Image != "" {
		out.Image = *p.Image
	}

	switch {
	case p.ClearStock:
		out.Stock = nil
	case p.Stock != nil:
		v := *p.Stock
		out.Stock = &v
	}
	switch {
	case p.ClearCostPrice:
		out.CostPrice = nil
	case p.CostPrice != nil:
		v := *p.CostPrice
		out.CostPrice = &v
	}
	return out
}

func trim(s string) string { return strings.TrimSpace(s) }
