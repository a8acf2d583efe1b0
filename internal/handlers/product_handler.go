package handlers

import (
	"net/http"

	"go-boutique-store/internal/aggregate"
	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/media"
	"go-boutique-store/internal/models"
	"go-boutique-store/internal/repository"

	"github.com/gin-gonic/gin"
)

// --- GET: The shop window ---
func (h *Handler) GetStorefront(c *gin.Context) {
	c.JSON(http.StatusOK, h.Views.Storefront())
}

// --- GET: List all products ---
func (h *Handler) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Products.List())
}

// --- GET: One product ---
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.Products.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- POST: Create a product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var input repository.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	product, _ := h.Products.Get(id)
	c.JSON(http.StatusCreated, product)
}

// --- PUT: Update only the fields that were sent ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Products.Get(id); err != nil {
		respondError(c, err)
		return
	}

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.Products.Update(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	product, _ := h.Products.Get(id)
	c.JSON(http.StatusOK, product)
}

// --- DELETE: Remove a product ---
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.Products.Delete(c.Request.Context(), c.Param("id"), confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- DELETE: Remove every product ---
func (h *Handler) ClearProducts(c *gin.Context) {
	if err := h.Products.Clear(c.Request.Context(), confirmFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All products deleted"})
}

// --- POST: Load the sample catalog ---
func (h *Handler) LoadSamples(c *gin.Context) {
	n, err := h.Products.LoadSamples(c.Request.Context(), confirmFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sample products loaded", "added": n})
}

// --- GET: Inventory table with stock and margin badges ---
func (h *Handler) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.Views.Inventory())
}

// --- GET: Catalog counters ---
func (h *Handler) GetCatalogStats(c *gin.Context) {
	c.JSON(http.StatusOK, aggregate.Catalog(h.Products.List()))
}

// --- UPLOAD: Turn an image into an embeddable thumbnail ---
func (h *Handler) UploadImage(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, errs.Invalid("image", errs.ErrImageRequired))
		return
	}
	if file.Size > media.MaxUploadBytes {
		respondError(c, errs.Invalid("image", errs.ErrImageTooLarge))
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	// 2. Decode, shrink and re-encode
	image, err := media.Normalize(f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"image":   image,
	})
}
