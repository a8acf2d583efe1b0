package handlers

import (
	"net/http"
	"slices"
	"strings"

	"go-boutique-store/internal/auth"
	"go-boutique-store/internal/views"

	"github.com/gin-gonic/gin"
)

// StreamViews upgrades to a websocket that pushes the requested views
// every time they change: /ws?views=storefront,dashboard&token=...
// Browsers cannot set headers on a websocket, so admin views take the
// token as a query parameter.
func (h *Handler) StreamViews(c *gin.Context) {
	rooms := []string{views.Storefront}
	if raw := c.Query("views"); raw != "" {
		rooms = rooms[:0]
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" && !slices.Contains(rooms, name) {
				rooms = append(rooms, name)
			}
		}
	}

	known := h.Sync.Views()
	admin := false
	for _, room := range rooms {
		if !slices.Contains(known, room) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown view: " + room})
			return
		}
		if room != views.Storefront {
			admin = true
		}
	}
	if admin {
		claims, err := h.Tokens.Validate(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if claims.Role != auth.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
	}

	if err := h.Hub.ServeWS(c.Writer, c.Request, rooms, h.Sync.Latest); err != nil {
		h.logger().Warn("websocket upgrade", "err", err)
	}
}
