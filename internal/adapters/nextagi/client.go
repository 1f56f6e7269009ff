// Package nextagi is the outbound client for the Next-AGI chat-messages API.
package nextagi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ClareAI/astra-voice-bridge/internal/domain"
	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"go.uber.org/zap"
)

const chatMessagesPath = "/chat-messages"

// Client handles communication with the Next-AGI API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a chat API client for the given base URL. The HTTP
// client carries no global timeout: responses stream, so deadlines come from
// the request context instead.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// Stream is one open chat-messages event stream.
type Stream struct {
	body    io.ReadCloser
	decoder *Decoder
}

// Next returns the next decoded event, or io.EOF at end of stream.
func (s *Stream) Next() (domain.StreamEvent, error) {
	return s.decoder.Next()
}

// Close releases the underlying response body.
func (s *Stream) Close() error {
	return s.body.Close()
}

// StreamChatMessage submits a streaming chat request and returns the open
// event stream. The caller owns the stream and must Close it.
func (c *Client) StreamChatMessage(ctx context.Context, apiKey string, chatReq domain.ChatMessageRequest) (*Stream, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+chatMessagesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	logger.Base().Info("chat api responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("chat api error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return &Stream{body: resp.Body, decoder: NewDecoder(resp.Body)}, nil
}
