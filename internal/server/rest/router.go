package rest

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes. The chatbot route exists only when
// the chatbot is enabled.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestID(), h.accessLog())

	cfg := cors.DefaultConfig()
	if slices.Contains(allowedOrigins, "*") {
		// credentials forbid a literal wildcard, so echo the caller's origin
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowCredentials = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(cfg))

	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.GET("/dashboard", h.requireAdmin(), h.dashboard)

	r.GET("/", h.listRecords)
	r.GET("/getUser/:id", h.getRecord)
	r.POST("/createUser", h.createRecord)
	r.PUT("/updateUser/:id", h.updateRecord)
	r.DELETE("/deleteUser/:id", h.deleteRecord)

	if h.chatbot != nil && h.chatbot.Enabled() {
		r.POST("/api/chatbot", h.chat)
	}

	r.GET("/uploads/:name", h.serveUpload)
	r.HEAD("/uploads/:name", h.serveUpload)
	r.GET("/health", h.health)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
