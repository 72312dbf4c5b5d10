package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chatPath  = "/chat"
	clearPath = "/clear"

	// maxErrorBody caps how much of an error body is kept on a StatusError
	maxErrorBody = 512
)

// Config is the chat backend client configuration.
type Config struct {
	// BaseURL of the backend (e.g., "http://localhost:5000")
	BaseURL string

	// UserAgent is sent on every request when non-empty
	UserAgent string
}

// Client talks to the two backend endpoints.
type Client struct {
	config     Config
	logger     *zap.Logger
	httpClient *http.Client
}

// NewClient creates a new Client.
func NewClient(config Config, logger *zap.Logger) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		logger: logger,
		// Requests are bounded by the caller's context
		httpClient: &http.Client{},
	}
}

// Chat sends one message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("could not marshal chat request: %w", err)
	}

	startTime := time.Now()
	respBody, err := c.post(ctx, chatPath, body)
	if err != nil {
		return "", err
	}

	var resp ChatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("could not decode chat response: %w", err)
	}

	if resp.Response == nil {
		return "", ErrMissingResponse
	}

	c.logger.Debug("received chat reply",
		zap.Int("reply_size", len(*resp.Response)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return *resp.Response, nil
}

// Clear asks the backend to drop its chat history. Any 2xx status is success.
func (c *Client) Clear(ctx context.Context) error {
	respBody, err := c.post(ctx, clearPath, nil)
	if err != nil {
		return err
	}

	var resp ClearResponse
	if err := json.Unmarshal(respBody, &resp); err == nil && resp.Status != "" {
		c.logger.Debug("history cleared",
			zap.String("status", resp.Status),
			zap.String("message", resp.Message),
		)
	}

	return nil
}

// post issues a JSON POST and returns the body of a 2xx response.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	url := c.config.BaseURL + path
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.Debug("sending request",
		zap.String("url", url),
		zap.String("request_id", requestID),
		zap.Int("body_size", len(body)),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("could not reach %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read %s response: %w", path, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{
			Endpoint: path,
			Code:     httpResp.StatusCode,
			Body:     truncate(string(respBody), maxErrorBody),
		}
	}

	return respBody, nil
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
