package handlers

import (
	"errors"
	"net/http"

	"go-boutique-store/internal/auth"
	"go-boutique-store/internal/middleware"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"` // ignored with the shared admin password
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Check the credentials
	principal, err := h.Auth.Authenticate(c.Request.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	case errors.Is(err, auth.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin login is not configured"})
		return
	case err != nil:
		h.logger().Error("login", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	// 3. Generate JWT Token
	token, claims, err := h.Tokens.Issue(principal.Subject, principal.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// 4. Success! Return Token and Role
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"role":      principal.Role,
		"subject":   principal.Subject,
		"expiresAt": claims.ExpiresAt.Time,
	})
}

// Logout revokes the token the request was made with.
func (h *Handler) Logout(c *gin.Context) {
	middleware.GateFrom(c).SignOut()
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) Register(c *gin.Context) {
	if h.Accounts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration is disabled"})
		return
	}

	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email and a password of at least 6 characters are required"})
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), input.Email, input.Password, auth.RoleAdmin)
	switch {
	case errors.Is(err, auth.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	case err != nil:
		h.logger().Error("register", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "email": user.Email})
}
