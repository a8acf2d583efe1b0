package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - an admin account for the hosted email/password gate
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Document - one entry of a collection held by the local store adapter.
// Seq keeps insertion order inside a collection.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Collection string    `gorm:"uniqueIndex:idx_collection_key;size:120" json:"collection"`
	Key        string    `gorm:"uniqueIndex:idx_collection_key;size:64" json:"key"`
	Seq        int64     `gorm:"index" json:"seq"`
	Value      string    `gorm:"type:text" json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const DefaultCategory = "Classic"

// DefaultSizes is applied when a product is saved without sizes.
var DefaultSizes = []string{"S", "M", "L", "XL"}

// Product - one catalog item
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Sizes       []string         `json:"sizes"`
	Image       string           `json:"image"`
	Stock       *int             `json:"stock,omitempty"`     // nil = unknown
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"` // nil = unknown
	CreatedAt   time.Time        `json:"createdAt"`
}

const DefaultCartSize = "M"

// CartItem - a product in a shopper's cart. Name, price and image are a
// snapshot taken when the item was added.
type CartItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	AddedAt   time.Time       `json:"addedAt"`
}

// CleanSizes trims labels, drops blanks and duplicates, and falls back to
// DefaultSizes when nothing is left.
func CleanSizes(sizes []string) []string {
	seen := make(map[string]bool, len(sizes))
	var out []string
	for _, s := range sizes {
		s = trim(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSizes...)
	}
	return out
}
