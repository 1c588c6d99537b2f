package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/netx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
)

const chatbotTimeout = 60 * time.Second

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// ChatbotService forwards a single user message to an OpenAI-compatible
// chat completions endpoint and returns the upstream JSON untouched.
type ChatbotService struct {
	client *http.Client
	url    string
	apiKey string
	model  string
	logger logging.Logger
}

func NewChatbotService(l logging.Logger, cfg *config.Config) *ChatbotService {
	return &ChatbotService{
		client: &http.Client{Timeout: chatbotTimeout},
		url:    cfg.ChatbotURL,
		apiKey: cfg.ChatbotAPIKey,
		model:  cfg.ChatbotModel,
		logger: l.With("module", "chatbot_service"),
	}
}

// Enabled reports whether an API key is configured.
func (s *ChatbotService) Enabled() bool {
	return s.apiKey != ""
}

func (s *ChatbotService) Ask(ctx context.Context, message string) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, common.ErrChatbotDisabled
	}

	payload := chatRequest{
		Model:    s.model,
		Messages: []chatMessage{{Role: "user", Content: message}},
	}
	headers := map[string]string{"Authorization": "Bearer " + s.apiKey}

	body, err := netx.PostJSON(ctx, s.client, s.url, headers, payload)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error(ctx, "chatbot request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", common.ErrUpstream)
	}

	return json.RawMessage(body), nil
}
