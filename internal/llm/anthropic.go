package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/config"
	"github.com/jryandunlap/brain-dump/internal/logger"
)

var ErrMissingAPIKey = errors.New("anthropic api key not set")

// Completer sends one instruction and returns the model's reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Message, error)
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Message is the model reply: ordered content segments, at least one usually of type "text".
type Message struct {
	ID           string         `json:"id"`
	Model        string         `json:"model"`
	Content      []ContentBlock `json:"content"`
	StopReason   string         `json:"stop_reason"`
	InputTokens  int64          `json:"input_tokens"`
	OutputTokens int64          `json:"output_tokens"`
}

// AnthropicClient calls the Anthropic Messages API through the official SDK.
type AnthropicClient struct {
	apiKey    string
	model     string
	maxTokens int
	client    anthropic.Client
}

func NewAnthropicClient(cfg config.LLMConfig) *AnthropicClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicClient{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    anthropic.NewClient(opts...),
	}
}

// Complete sends prompt as the single user turn. There is no system prompt and no retry.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (*Message, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	start := time.Now()

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			logger.Warn("LLM: unexpected status",
				zap.Int("status", apiErr.StatusCode),
				zap.Duration("ms", time.Since(start)))
		} else {
			logger.Error("LLM: request failed", err, zap.Duration("ms", time.Since(start)))
		}
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	msg := toMessage(resp)
	logger.Info("LLM: completion received",
		zap.String("model", msg.Model),
		zap.Int("segments", len(msg.Content)),
		zap.Int64("input_tokens", msg.InputTokens),
		zap.Int64("output_tokens", msg.OutputTokens),
		zap.Duration("ms", time.Since(start)))
	return msg, nil
}

func toMessage(resp *anthropic.Message) *Message {
	msg := &Message{
		ID:           resp.ID,
		Model:        string(resp.Model),
		StopReason:   string(resp.StopReason),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Content:      make([]ContentBlock, 0, len(resp.Content)),
	}
	for _, block := range resp.Content {
		msg.Content = append(msg.Content, ContentBlock{Type: block.Type, Text: block.Text})
	}
	return msg
}

// FirstText returns the first segment when it is text, otherwise "{}".
func (m *Message) FirstText() string {
	if m == nil || len(m.Content) == 0 || m.Content[0].Type != "text" {
		return "{}"
	}
	return m.Content[0].Text
}
