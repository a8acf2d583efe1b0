package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server missing Gemini API Key"})
		return
	}

	response, err := h.Assistant.Ask(c.Request.Context(), req.Message)
	if err != nil {
		h.logger().Error("assistant", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
