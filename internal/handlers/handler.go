// Package handlers is the gin HTTP surface of the storefront and back office.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go-boutique-store/internal/auth"
	"go-boutique-store/internal/checkout"
	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/repository"
	"go-boutique-store/internal/store"
	"go-boutique-store/internal/views"
	"go-boutique-store/internal/viewsync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Assistant answers a free-text admin question.
type Assistant interface {
	Ask(ctx context.Context, message string) (string, error)
}

// Handler carries everything the routes need. Build it with a composite
// literal; optional fields may stay nil.
type Handler struct {
	Products  *repository.Products
	Ledger    *repository.Ledger
	Receipts  *repository.Receipts
	Formatter *checkout.Formatter
	Views     *views.Builder
	Sync      *viewsync.Synchronizer
	Hub       *viewsync.Hub

	Tokens    *auth.Tokens
	Auth      auth.Authenticator
	Accounts  *auth.Accounts // nil unless registration is open
	Assistant Assistant      // nil without GEMINI_API_KEY

	// Store backs the per-shopper carts.
	Store       store.Adapter
	StoreDriver string
	DB          *gorm.DB // nil for the remote and memory stores

	// SharedCart makes every shopper use one cart instead of one per cookie.
	SharedCart bool
	Logger     *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

// respondError maps repository errors onto status codes.
func respondError(c *gin.Context, err error) {
	var invalid *errs.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": invalid.Field})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, errs.ErrConfirmationDeclined):
		c.JSON(http.StatusConflict, gin.H{"error": "Confirmation required. Repeat the request with confirm=true"})
	case errs.IsPersistence(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store is unavailable, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// confirmFrom turns the confirm query flag into a repository prompt.
func confirmFrom(c *gin.Context) repository.Confirm {
	if c.Query("confirm") == "true" {
		return repository.Always
	}
	return nil
}
