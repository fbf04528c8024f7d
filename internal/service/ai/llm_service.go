package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mvoisin/english-buddy/backend/internal/config"
	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

// Service is the conversation collaborator: it turns the windowed
// transcript plus the tutor profile into one chat-completion call.
type Service struct {
	client *openai.Client
	topics tutor.Store
	cfg    config.AIConfig
}

// NewService creates the chat collaborator from configuration.
func NewService(topics tutor.Store, cfg config.AIConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, ErrCredentialMissing
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		topics: topics,
		cfg:    cfg,
	}, nil
}

// Reply sends the windowed history (the caller has already appended the
// new user turn to it) and returns the assistant reply. Failures come
// back classified; the caller must not append an assistant turn on error.
func (s *Service) Reply(ctx context.Context, level tutor.Level, topic string, window []chatmodel.Turn) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Second)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(window)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: s.buildSystemPrompt(level, topic),
	})
	for _, turn := range window {
		role := openai.ChatMessageRoleUser
		if turn.Role == chatmodel.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", Classify(err))
	}

	if len(resp.Choices) == 0 {
		return "", ErrMalformedResponse
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrMalformedResponse
	}

	log.Printf("[ai] reply generated, model=%s, window=%d, length=%d", s.cfg.Model, len(window), len(reply))
	return reply, nil
}

// HistoryWindow exposes the configured context window size.
func (s *Service) HistoryWindow() int {
	return s.cfg.HistoryWindow
}
