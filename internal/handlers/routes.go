package handlers

import (
	"net/http"

	"go-boutique-store/internal/auth"
	"go-boutique-store/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Routes mounts the API on r. loginLimit guards the credential endpoints.
func Routes(r *gin.Engine, h *Handler, loginLimit gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.POST("/login", loginLimit, h.Login)
	if h.Accounts != nil {
		r.POST("/register", loginLimit, h.Register)
	}
	r.GET("/ws", h.StreamViews)

	// --- SHOP: open to every visitor ---
	shop := r.Group("/api")
	{
		shop.GET("/storefront", h.GetStorefront)
		shop.GET("/products", h.GetProducts)
		shop.GET("/products/:id", h.GetProduct)
		shop.POST("/products/:id/inquiry", h.ProductInquiry)

		shop.GET("/cart", h.GetCart)
		shop.POST("/cart/toggle", h.ToggleCart)
		shop.DELETE("/cart/:id", h.RemoveFromCart)
		shop.DELETE("/cart", h.ClearCart)
		shop.POST("/cart/checkout", h.CheckoutCart)
	}

	// --- ADMIN ONLY ---
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(h.Tokens))
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/logout", h.Logout)
		admin.GET("/system/status", h.GetSystemStatus)
		admin.POST("/ask", h.AskAI)

		admin.POST("/upload", h.UploadImage)
		admin.GET("/inventory", h.GetInventory)
		admin.GET("/catalog/stats", h.GetCatalogStats)
		admin.POST("/products", h.AddProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)
		admin.DELETE("/products", h.ClearProducts)
		admin.POST("/products/samples", h.LoadSamples)

		admin.GET("/ledger", h.GetLedger)
		admin.GET("/ledger/:bucket", h.GetLedgerBucket)
		admin.POST("/ledger/:bucket", h.AddLedgerEntry)
		admin.DELETE("/ledger/:bucket/:key", h.DeleteLedgerEntry)

		admin.GET("/receipts", h.GetReceipts)
		admin.GET("/receipts/next", h.NextReceiptNumber)
		admin.POST("/receipts", h.CreateReceipt)
		admin.DELETE("/receipts/:ref", h.DeleteReceipt)
		admin.GET("/receipts/:ref/message", h.ReceiptMessage)
		admin.GET("/receipts/:ref/pdf", h.ReceiptPDF)

		admin.GET("/dashboard", h.GetDashboard)
		admin.GET("/reports/valuation", h.GetStockValuation)
	}
}
