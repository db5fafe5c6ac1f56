// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the HitCraft chat backend.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitcraft/hitcraft-cli/internal/auth"
	"github.com/hitcraft/hitcraft-cli/internal/model"
)

// Configuration constants for the HitCraft API.
const (
	// DefaultBaseURL is the base URL for the HitCraft backend.
	DefaultBaseURL = "https://api.hitcraft.ai"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	DefaultMaxResponseSize = 4 * 1024 * 1024 // 4MB

	// chatPath is the prefix for all chat endpoints.
	chatPath = "/api/v1/chat/"
)

// sharedHTTPClient is the pooled HTTP client for all API requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the HitCraft chat API.
//
// Errors are never recovered locally; every failure is returned to the
// caller mapped to the taxonomy in errors.go. No retry policy is built
// in — each call is independently retryable.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      auth.TokenSource
	limiter     *rate.Limiter
	maxResponse int64
	userAgent   string
}

// NewClient creates a new API client with the given token source.
//
// The client is usable immediately against the production backend; use the
// With* methods to point it elsewhere or tune limits.
func NewClient(tokens auth.TokenSource) *Client {
	return &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  sharedHTTPClient,
		tokens:      tokens,
		maxResponse: DefaultMaxResponseSize,
		userAgent:   "hitcraft-cli/0.1.0",
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets the request timeout on a dedicated HTTP client.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if c.httpClient == sharedHTTPClient {
		// Don't mutate the shared client's timeout.
		clone := *sharedHTTPClient
		c.httpClient = &clone
	}
	c.httpClient.Timeout = timeout
	return c
}

// WithRateLimit caps outbound request rate. Zero rps disables limiting.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithMaxResponseSize sets the response body size cap.
func (c *Client) WithMaxResponseSize(n int64) *Client {
	if n > 0 {
		c.maxResponse = n
	}
	return c
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type createThreadRequest struct {
	ArtistID string `json:"artistId"`
}

type createThreadResponse struct {
	ThreadID string `json:"threadId"`
}

type sendMessageRequest struct {
	Content []model.ContentPart `json:"content"`
}

type sendMessageResponse struct {
	Message wireMessage `json:"message"`
}

type listMessagesResponse struct {
	Messages []wireMessage `json:"messages"`
}

// wireMessage is the backend's message shape.
type wireMessage struct {
	Content   []model.ContentPart `json:"content"`
	Timestamp time.Time           `json:"timestamp"`
	Role      string              `json:"role"`
}

// toModel converts a wire message into the domain type.
// Message IDs are client-local; the backend does not issue them.
func (w wireMessage) toModel() *model.Message {
	msg := model.NewMessage(model.Role(w.Role), w.Content...)
	if !w.Timestamp.IsZero() {
		msg.Timestamp = w.Timestamp
	}
	return msg
}

// wireThread is the backend's thread summary shape.
type wireThread struct {
	Title         string    `json:"title"`
	ArtistID      string    `json:"artistId"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CreateThread creates a new conversation thread for the given artist and
// returns its backend-issued identifier.
func (c *Client) CreateThread(ctx context.Context, artistID string) (string, error) {
	if strings.TrimSpace(artistID) == "" {
		return "", fmt.Errorf("%w: artist id is required", ErrInvalidRequest)
	}

	var resp createThreadResponse
	if err := c.do(ctx, http.MethodPost, chatPath, createThreadRequest{ArtistID: artistID}, &resp); err != nil {
		return "", err
	}
	if resp.ThreadID == "" {
		return "", fmt.Errorf("%w: missing threadId", ErrDecode)
	}
	return resp.ThreadID, nil
}

// SendMessage sends a text message to a thread and returns the assistant's
// reply.
func (c *Client) SendMessage(ctx context.Context, threadID, text string) (*model.Message, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, fmt.Errorf("%w: thread id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidRequest)
	}

	body := sendMessageRequest{Content: []model.ContentPart{model.TextPart(text)}}
	var resp sendMessageResponse
	if err := c.do(ctx, http.MethodPost, chatPath+threadID+"/messages", body, &resp); err != nil {
		return nil, err
	}
	if resp.Message.Role == "" {
		return nil, fmt.Errorf("%w: missing message", ErrDecode)
	}
	return resp.Message.toModel(), nil
}

// ListMessages fetches the full ordered message history of a thread.
// An empty sequence is valid (new thread). The call is restartable: each
// invocation re-fetches from the backend.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]*model.Message, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, fmt.Errorf("%w: thread id is required", ErrInvalidRequest)
	}

	var resp listMessagesResponse
	if err := c.do(ctx, http.MethodGet, chatPath+threadID+"/messages", nil, &resp); err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, 0, len(resp.Messages))
	for _, wm := range resp.Messages {
		msgs = append(msgs, wm.toModel())
	}
	return msgs, nil
}

// ListThreads fetches up to limit thread summaries.
//
// The backend returns an id-keyed object; its key order is meaningful here
// (recency ties keep server order), so the body is decoded with a token
// stream rather than a Go map. Truncation to limit is backend-side and
// trusted, not re-enforced.
func (c *Client) ListThreads(ctx context.Context, limit int) ([]model.ThreadSummary, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidRequest)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, chatPath+"?amount="+strconv.Itoa(limit), nil, &raw); err != nil {
		return nil, err
	}

	threads, err := decodeThreads(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return threads, nil
}

// decodeThreads walks {"threads": {id: {...}, ...}} preserving key order.
func decodeThreads(data []byte) ([]model.ThreadSummary, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	threads := make([]model.ThreadSummary, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		if key != "threads" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			idTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			id, _ := idTok.(string)

			var wt wireThread
			if err := dec.Decode(&wt); err != nil {
				return nil, err
			}
			threads = append(threads, model.ThreadSummary{
				ThreadID:      id,
				Title:         wt.Title,
				ArtistID:      wt.ArtistID,
				LastMessageAt: wt.LastMessageAt,
			})
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, err
		}
	}

	return threads, nil
}

// expectDelim consumes one token and checks it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs one authenticated JSON request.
//
// A missing token fails with ErrUnauthorized before any network I/O.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header after the request so the
	// credential never reaches request dumps.
	req.Header.Del("Authorization")

	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := readResponse(resp, c.maxResponse)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	return nil
}

// setHeaders sets the required headers for HitCraft API requests.
func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response, maxSize int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if int64(len(body)) == maxSize {
		return nil, fmt.Errorf("%w: response exceeded %d bytes", ErrDecode, maxSize)
	}
	return body, nil
}
