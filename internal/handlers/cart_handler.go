package handlers

import (
	"net/http"

	"go-boutique-store/internal/models"
	"go-boutique-store/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	cartCookie      = "cart_id"
	sharedCartScope = "shared"
	cartCookieAge   = 30 * 24 * 60 * 60
)

type ToggleRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
}

type InquiryRequest struct {
	Size string `json:"size"`
}

// cartScope reads the shopper's cart cookie. With issue set a shopper
// without one gets a fresh cookie; otherwise ok is false.
func (h *Handler) cartScope(c *gin.Context, issue bool) (scope string, ok bool) {
	if h.SharedCart {
		return sharedCartScope, true
	}
	if id, err := c.Cookie(cartCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id, true
		}
	}
	if !issue {
		return "", false
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartCookie, id, cartCookieAge, "/", "", false, true)
	return id, true
}

// cart reads this request's cart from the store. Carts are not cached
// between requests. A shopper without a cookie gets nil unless issue is set.
func (h *Handler) cart(c *gin.Context, issue bool) (*repository.Cart, error) {
	scope, ok := h.cartScope(c, issue)
	if !ok {
		return nil, nil
	}
	cart := repository.NewCart(h.Store, scope, h.Logger)
	if err := cart.Fetch(c.Request.Context()); err != nil {
		return nil, err
	}
	return cart, nil
}

func (h *Handler) cartBody(cart *repository.Cart) gin.H {
	if cart == nil {
		return gin.H{
			"items":     []models.CartItem{},
			"count":     0,
			"total":     decimal.Zero,
			"totalText": h.Formatter.Price(decimal.Zero),
		}
	}
	return gin.H{
		"items":     cart.List(),
		"count":     cart.Count(),
		"total":     cart.Total(),
		"totalText": h.Formatter.Price(cart.Total()),
	}
}

// --- GET: The shopper's cart ---
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cart(c, false)
	h.respondCart(c, cart, err)
}

func (h *Handler) respondCart(c *gin.Context, cart *repository.Cart, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartBody(cart))
}

// --- POST: Add or remove a product ---
func (h *Handler) ToggleCart(c *gin.Context) {
	var input ToggleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}
	product, err := h.Products.Get(input.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	cart, err := h.cart(c, true)
	if err != nil {
		respondError(c, err)
		return
	}

	added, err := cart.Toggle(c.Request.Context(), product, input.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	body := h.cartBody(cart)
	body["inCart"] = added
	c.JSON(http.StatusOK, body)
}

// --- DELETE: Remove one product from the cart ---
func (h *Handler) RemoveFromCart(c *gin.Context) {
	cart, err := h.cart(c, false)
	if err != nil || cart == nil {
		h.respondCart(c, cart, err)
		return
	}
	if err := cart.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartBody(cart))
}

// --- DELETE: Empty the cart ---
func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.cart(c, false)
	if err != nil || cart == nil {
		h.respondCart(c, cart, err)
		return
	}
	if err := cart.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartBody(cart))
}

// --- POST: Build the order message for the whole cart ---
func (h *Handler) CheckoutCart(c *gin.Context) {
	cart, err := h.cart(c, false)
	if err != nil {
		respondError(c, err)
		return
	}
	var items []models.CartItem
	if cart != nil {
		items = cart.List()
	}
	msg, ok := h.Formatter.FormatCart(items)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// --- POST: Ask about a single product ---
func (h *Handler) ProductInquiry(c *gin.Context) {
	var input InquiryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}
	product, err := h.Products.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	msg, _ := h.Formatter.FormatInquiry(&product, input.Size)
	c.JSON(http.StatusOK, msg)
}
