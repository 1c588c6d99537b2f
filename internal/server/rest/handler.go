// Package rest exposes the record and auth services over HTTP using gin.
package rest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/auth"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.Credential, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authorize(token string) (*auth.Claims, error)
}

type RecordService interface {
	List(ctx context.Context) ([]*models.UserRecord, error)
	Get(ctx context.Context, id string) (*models.UserRecord, error)
	Create(ctx context.Context, in models.RecordInput, upload *storage.Upload) (*models.UserRecord, error)
	Update(ctx context.Context, id string, in models.RecordUpdate, upload *storage.Upload) (*models.UserRecord, error)
	Delete(ctx context.Context, id string) error
}

type ChatbotService interface {
	Enabled() bool
	Ask(ctx context.Context, message string) (json.RawMessage, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the dependencies of every route.
type Handler struct {
	auth         AuthService
	records      RecordService
	chatbot      ChatbotService
	files        storage.FileStorage
	db           Pinger
	logger       logging.Logger
	cookieSecure bool
	tokenTTL     time.Duration
}

type HandlerOptions struct {
	Auth         AuthService
	Records      RecordService
	Chatbot      ChatbotService
	Files        storage.FileStorage
	DB           Pinger
	Logger       logging.Logger
	CookieSecure bool
	TokenTTL     time.Duration
}

func NewHandler(o HandlerOptions) *Handler {
	return &Handler{
		auth:         o.Auth,
		records:      o.Records,
		chatbot:      o.Chatbot,
		files:        o.Files,
		db:           o.DB,
		logger:       o.Logger,
		cookieSecure: o.CookieSecure,
		tokenTTL:     o.TokenTTL,
	}
}
