package handlers

import (
	"net/http"

	"go-boutique-store/internal/database"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus reports which store is in use and how much it holds.
func (h *Handler) GetSystemStatus(c *gin.Context) {
	body := gin.H{
		"store":    h.StoreDriver,
		"views":    h.Sync.Views(),
		"products": len(h.Products.List()),
		"receipts": len(h.Receipts.List()),
		"saving":   h.Products.Saving(),
	}

	// Only the local store keeps documents in SQL.
	if h.DB != nil {
		stats, err := database.CollectionStats(h.DB.WithContext(c.Request.Context()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read collection stats"})
			return
		}
		body["collections"] = stats
	}
	c.JSON(http.StatusOK, body)
}
