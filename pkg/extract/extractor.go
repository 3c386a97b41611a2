// Package extract wraps the external classification service that turns free
// text into technology labels.
package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/logging"
	"github.com/talentgraph/ingest-engine/pkg/prompts"
)

// TechExtractor extracts a deduplicated list of technology/application names
// from free text. Use this interface for dependency injection to enable
// mocking in tests.
type TechExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// chatCompleter is the subset of the OpenAI client the extractor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor calls an OpenAI-compatible endpoint to pull tech labels out of
// profile text. No caching and no retries at this layer; the caller decides
// resilience.
type Extractor struct {
	client    chatCompleter
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// Config holds configuration for creating an Extractor.
type Config struct {
	APIKey    string
	BaseURL   string        // Empty for the default OpenAI endpoint
	Model     string        // Model name, e.g., "gpt-4o"
	MaxTokens int           // Output cap; bounds a misbehaving model
	Timeout   time.Duration // Per-call bound; 0 disables
}

// New creates an Extractor backed by an OpenAI-compatible endpoint.
func New(cfg *Config, logger *zap.Logger) *Extractor {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Extractor{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.Named("extract"),
	}
}

// Extract sends text to the classification model and normalizes the response
// into one flat deduplicated list of tech labels. Empty or whitespace-only
// input returns nil without invoking the service.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Debug("extraction request",
		zap.String("model", e.model),
		zap.Int("text_len", len(text)),
		zap.String("text_preview", logging.TruncateText(text)))

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.TechExtractionSystemMessage()},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   e.maxTokens,
		N:           1,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("extraction request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, newError("classification request failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, newError("no choices in response", nil)
	}

	labels, err := e.normalize(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extraction completed",
		zap.Int("labels", len(labels)),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return labels, nil
}

// normalize flattens the model output into a deduplicated list of strings.
// Accepted shapes: a JSON array of strings, or a JSON object whose values
// are arrays of strings (one or many keys). Object values that are not
// entirely lists of strings are skipped, not failed. Anything else is an
// extraction error.
func (e *Extractor) normalize(content string) ([]string, error) {
	jsonStr, err := extractJSON(content)
	if err != nil {
		return nil, newError("unusable model output", err)
	}

	var raw any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, newError("unusable model output", err)
	}

	var flat []any
	switch v := raw.(type) {
	case map[string]any:
		// The model may return several lists within one object; aggregate
		// every value that is entirely a list of strings.
		for key, value := range v {
			list, ok := stringList(value)
			if !ok {
				e.logger.Warn("skipping payload that is not a list of strings",
					zap.String("key", key))
				continue
			}
			flat = append(flat, list...)
		}
	case []any:
		flat = v
	default:
		return nil, newError("expected list of strings was not returned", nil)
	}

	seen := make(map[string]struct{}, len(flat))
	labels := make([]string, 0, len(flat))
	for _, item := range flat {
		s, ok := item.(string)
		if !ok {
			return nil, newError("expected list of strings was not returned", nil)
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		labels = append(labels, s)
	}

	return labels, nil
}

// stringList reports whether value is a JSON array whose elements are all
// strings, returning the elements when it is.
func stringList(value any) ([]any, bool) {
	list, ok := value.([]any)
	if !ok {
		return nil, false
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return nil, false
		}
	}
	return list, true
}

// Ensure Extractor implements TechExtractor at compile time.
var _ TechExtractor = (*Extractor)(nil)
