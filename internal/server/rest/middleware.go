package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
	claimsKey    = "claims"
)

// requestID assigns every request an id, echoes it in X-Request-ID and
// attaches a request-scoped logger to both the gin and the request context.
// A well-formed incoming id is kept.
func (h *Handler) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		l := h.logger.With(requestIDKey, id)
		c.Set(requestIDKey, id)
		c.Set(loggerKey, l)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), l))
		c.Header(common.RequestIDHeaderName, id)

		c.Next()
	}
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.requestLogger(c).Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func (h *Handler) requestLogger(c *gin.Context) logging.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return h.logger
}

// requireAdmin admits only requests whose session cookie carries a valid
// admin token. Every rejection is 403 with a JSON string body.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil {
			token = ""
		}

		claims, err := h.auth.Authorize(token)
		if err != nil {
			var msg string
			switch {
			case errors.Is(err, common.ErrUnauthorized):
				msg = msgTokenMissing
			case errors.Is(err, common.ErrForbidden):
				msg = msgNotAdmin
			default:
				msg = msgTokenError
			}
			c.AbortWithStatusJSON(http.StatusForbidden, msg)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}
