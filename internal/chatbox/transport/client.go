package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/chatbox/internal/chatbox"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultEndpointURL = "http://localhost:8080/answer"
	DefaultTimeout     = 30 * time.Second

	// RequestIDHeader carries the coordinator's request id to the server.
	RequestIDHeader = "X-Request-ID"

	maxResponseSizeBytes = 2 << 20
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

// AnswerRequest is the body POSTed to the answering endpoint
type AnswerRequest struct {
	Prompt string `json:"prompt"`
}

// AnswerResponse is the body returned by the answering endpoint
type AnswerResponse struct {
	Response *string `json:"response"`
}

// Config defines the configuration interface for the transport client
type Config interface {
	GetEndpointURL() string
	GetRequestTimeout() time.Duration
}

// Client implements chatbox.Answerer over HTTP
type Client struct {
	endpointURL string
	httpClient  *http.Client
	logger      zerolog.Logger
}

var _ chatbox.Answerer = (*Client)(nil)

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request logs
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new client for the configured endpoint
func NewClient(config Config, opts ...ClientOption) *Client {
	endpoint := config.GetEndpointURL()
	if endpoint == "" {
		endpoint = DefaultEndpointURL
	}
	timeout := config.GetRequestTimeout()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		endpointURL: endpoint,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EndpointURL returns the URL the client posts to
func (c *Client) EndpointURL() string {
	return c.endpointURL
}

// Answer posts the prompt and returns the reply text. Bad replies wrap
// ErrUnexpectedStatus or ErrMalformedResponse.
func (c *Client) Answer(ctx context.Context, prompt string) (string, error) {
	// Convert request body to JSON
	jsonData, err := json.Marshal(AnswerRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	requestID := chatbox.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("answer endpoint responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(body))
	}

	var result AnswerResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Response == nil {
		return "", fmt.Errorf("%w: missing \"response\" field", ErrMalformedResponse)
	}

	return *result.Response, nil
}
