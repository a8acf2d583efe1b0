package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/repository"

	"github.com/gin-gonic/gin"
)

// --- GET: Receipt history with search and filters ---
func (h *Handler) GetReceipts(c *gin.Context) {
	var filter aggregate.ReceiptFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter"})
		return
	}
	c.JSON(http.StatusOK, h.Views.ReceiptHistory(filter))
}

// --- GET: Preview the next receipt number ---
func (h *Handler) NextReceiptNumber(c *gin.Context) {
	next, err := h.Receipts.NextNumber(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiptNo": next})
}

// --- POST: Ring up a sale ---
func (h *Handler) CreateReceipt(c *gin.Context) {
	var draft repository.ReceiptDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	receipt, err := h.Receipts.Create(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"receipt": receipt}
	if msg, ok := h.Formatter.FormatReceipt(receipt); ok {
		body["message"] = msg
	}
	c.JSON(http.StatusCreated, body)
}

// --- DELETE: Remove a receipt by key or receipt number ---
func (h *Handler) DeleteReceipt(c *gin.Context) {
	receipt, err := h.Receipts.Get(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Receipts.DeleteByKey(c.Request.Context(), receipt.Key, confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted"})
}

// --- GET: Message link for sending the receipt to the customer ---
func (h *Handler) ReceiptMessage(c *gin.Context) {
	receipt, err := h.Receipts.Get(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	msg, ok := h.Formatter.FormatReceipt(receipt)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt has no customer phone number"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// --- GET: Printable reprint ---
func (h *Handler) ReceiptPDF(c *gin.Context) {
	receipt, err := h.Receipts.Get(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.Formatter.ReceiptPDF(receipt, &buf); err != nil {
		h.logger().Error("receipt pdf", "receipt", receipt.ReceiptNo, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render receipt"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", receipt.ReceiptNo+".pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
