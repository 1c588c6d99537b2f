package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	raw, err := h.chatbot.Ask(c.Request.Context(), req.Message)
	if err != nil {
		c.String(http.StatusInternalServerError, msgChatbotError)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// serveUpload streams a locally stored file or redirects to the object
// store.
func (h *Handler) serveUpload(c *gin.Context) {
	loc, err := h.files.Locate(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.requestLogger(c).Error(c.Request.Context(), "locate upload failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if loc.RedirectURL != "" {
		c.Redirect(http.StatusFound, loc.RedirectURL)
		return
	}
	c.File(loc.LocalPath)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.requestLogger(c).Warn(ctx, "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
