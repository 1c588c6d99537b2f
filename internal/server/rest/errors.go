package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

// Client-facing messages. They match what existing frontends compare against.
const (
	msgSuccess           = "Success"
	msgAlreadyRegistered = "Already have an account"
	msgNoRecord          = "No record existed"
	msgPasswordIncorrect = "Password Incorrect"
	msgTokenMissing      = "Token is missing"
	msgTokenError        = "Error with token"
	msgNotAdmin          = "Not admin"
	msgUserNotFound      = "User not found"
	msgDeleteNotFound    = "User not found or no image to delete"
	msgServerError       = "Server error"
	msgChatbotError      = "Server Error"
	msgBadRequest        = "Invalid request body"
	msgPasswordTooLong   = "Password must be at most 72 bytes"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error": ...} with the status mapped from err.
// Internal errors are logged and reported with a generic message.
func (h *Handler) abortWithError(c *gin.Context, err error, notFoundMsg string) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		c.AbortWithStatusJSON(status, gin.H{"error": notFoundMsg})
	case http.StatusInternalServerError:
		h.requestLogger(c).Error(c.Request.Context(), "request failed", "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": msgServerError})
	default:
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
	}
}
