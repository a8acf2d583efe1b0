package handlers

import (
	"net/http"
	"strconv"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/repository"
	"go-boutique-store/internal/views"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/dashboard?days=30 ---
// days=0 rolls up all time.
func (h *Handler) GetDashboard(c *gin.Context) {
	days := views.DefaultDashboardDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a whole number"})
			return
		}
		days = n
	}
	c.JSON(http.StatusOK, h.Views.Dashboard(aggregate.Period{Days: days}))
}

// --- GET: /api/reports/valuation ---
func (h *Handler) GetStockValuation(c *gin.Context) {
	c.JSON(http.StatusOK, aggregate.StockValuation(h.Products.List()))
}

// --- GET: /api/ledger ---
func (h *Handler) GetLedger(c *gin.Context) {
	c.JSON(http.StatusOK, h.Views.LedgerBook())
}

func bucketParam(c *gin.Context) (models.Bucket, bool) {
	b := models.Bucket(c.Param("bucket"))
	if !b.Valid() {
		respondError(c, errs.Invalid("bucket", errs.ErrUnknownBucket))
		return "", false
	}
	return b, true
}

// --- GET: /api/ledger/:bucket ---
func (h *Handler) GetLedgerBucket(c *gin.Context) {
	b, ok := bucketParam(c)
	if !ok {
		return
	}
	entries := h.Ledger.List(b)
	c.JSON(http.StatusOK, gin.H{
		"entries":    aggregate.NewestFirst(entries),
		"categories": b.Categories(),
		"total":      aggregate.Sum(entries),
	})
}

// --- POST: /api/ledger/:bucket ---
func (h *Handler) AddLedgerEntry(c *gin.Context) {
	b, ok := bucketParam(c)
	if !ok {
		return
	}
	var input repository.LedgerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// Linked entries are only written by receipts.
	input.AutoFromReceipt = false
	input.ReceiptRef = ""

	key, err := h.Ledger.Create(c.Request.Context(), b, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Entry saved", "key": key})
}

// --- DELETE: /api/ledger/:bucket/:key ---
func (h *Handler) DeleteLedgerEntry(c *gin.Context) {
	b, ok := bucketParam(c)
	if !ok {
		return
	}
	if err := h.Ledger.DeleteByKey(c.Request.Context(), b, c.Param("key"), confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}
