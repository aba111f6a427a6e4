// Package openai implements the completion.Client contract against an
// OpenAI-compatible chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/completion"
	"github.com/azziedev/promptrelay/pkg/llm"
)

const completionsPath = "/chat/completions"

// placeholderKey is used when no API key is configured. The service still
// starts; completion calls fail with a BackendError until a key is provided.
const placeholderKey = "missing-key"

// Config holds the backend connection settings.
type Config struct {
	// BaseURL is the endpoint base, e.g. "https://api.openai.com/v1".
	BaseURL string

	// APIKey is sent as a bearer token. May be empty, see placeholderKey.
	APIKey string

	// Timeout bounds a single completion call. Completions can legitimately
	// take minutes; defaults to 5 minutes when zero.
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatMessage struct {
	Content string `json:"content"`
}

// NewClient creates a completion client. A missing API key is tolerated so
// the bridge can start without secrets; the condition is logged loudly.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		logger.Error("completion backend API key is missing, completion calls will fail until one is configured")
		key = placeholderKey
	} else {
		logger.Info("completion client initialized",
			zap.String("base_url", cfg.BaseURL),
			zap.String("key_prefix", keyPrefix(key)),
		)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  key,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete performs one blocking chat-completion call and returns the first
// choice's message content.
func (c *Client) Complete(ctx context.Context, req completion.Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", &completion.BackendError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", &completion.BackendError{Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &completion.BackendError{Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &completion.BackendError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(detail))),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &completion.BackendError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	if len(parsed.Choices) == 0 {
		return "", &completion.BackendError{Err: errors.New("response contained no choices")}
	}

	return parsed.Choices[0].Message.Content, nil
}

func keyPrefix(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

var _ completion.Client = (*Client)(nil)
