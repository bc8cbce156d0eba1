// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeAuth
	ErrTypeValidation
	ErrTypeNotFound
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeUnreachable, Message: "backend is unreachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeAuth, Message: "not authorized"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the API gateway base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for ordinary requests (default: 30s)
	Timeout time.Duration

	// VoiceTimeout for voice uploads, which include transcription time
	// on the server (default: 120s)
	VoiceTimeout time.Duration

	// SendRate limits chat and voice sends per second (default: 1)
	SendRate float64

	// SendBurst is the burst size for the send limiter (default: 3)
	SendBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:      "http://127.0.0.1:8000",
		Timeout:      30 * time.Second,
		VoiceTimeout: 120 * time.Second,
		SendRate:     1,
		SendBurst:    3,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Haven API gateway.
//
// The Client is thread-safe for concurrent use. Authenticated requests
// carry the access token set via SetAccessToken.
type Client struct {
	config      *ClientConfig
	httpClient  *http.Client
	voiceClient *http.Client
	sendLimiter *rate.Limiter

	mu          sync.RWMutex
	accessToken string
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.VoiceTimeout == 0 {
		config.VoiceTimeout = 120 * time.Second
	}
	if config.SendRate == 0 {
		config.SendRate = 1
	}
	if config.SendBurst == 0 {
		config.SendBurst = 3
	}

	return &Client{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		voiceClient: &http.Client{Timeout: config.VoiceTimeout},
		sendLimiter: rate.NewLimiter(rate.Limit(config.SendRate), config.SendBurst),
	}
}

// SetAccessToken sets the bearer token for authenticated requests.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// =============================================================================
// AUTH
// =============================================================================

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.UserID == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "login response missing token or user ID"}
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the refresh token on the server. A failure here is not
// fatal to the client-side logout.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", LogoutRequest{RefreshToken: refreshToken}, nil)
}

// =============================================================================
// CHAT
// =============================================================================

// InitSession tells the backend to set up conversational state for the
// user. Safe to call more than once; the client still avoids repeat
// calls within one login session.
func (c *Client) InitSession(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodPost, "/chat/init-session/"+url.PathEscape(userID), nil, nil)
}

// History fetches the server-side conversation history, oldest first.
func (c *Client) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := c.doJSON(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(userID), nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage sends a text message and returns the bot's reply.
func (c *Client) SendMessage(ctx context.Context, userID, message, language string) (*ChatResponse, error) {
	if err := c.sendLimiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "send rate limit wait canceled", Cause: err}
	}

	var out ChatResponse
	err := c.doJSON(ctx, http.MethodPost, "/chat/message", ChatRequest{
		UserID:   userID,
		Message:  message,
		Language: language,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.BotMessage == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "chat response missing bot message"}
	}
	return &out, nil
}

// =============================================================================
// VOICE
// =============================================================================

// SendVoice uploads a recorded audio file for transcription and returns
// the transcribed text along with the bot's reply.
func (c *Client) SendVoice(ctx context.Context, userID, filename string, audio io.Reader) (*VoiceResponse, error) {
	if err := c.sendLimiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "send rate limit wait canceled", Cause: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to read audio", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to finish upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/voice/chat/"+url.PathEscape(userID), &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.voiceClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var out VoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode voice response", Cause: err}
	}
	return &out, nil
}

// =============================================================================
// SENTIMENT
// =============================================================================

// Sentiment fetches the aggregated sentiment report for the last N days.
// The service answers 404 when the window holds no classified messages;
// that is returned as an empty report, not an error.
func (c *Client) Sentiment(ctx context.Context, userID string, days int) (*SentimentReport, error) {
	var out SentimentReport
	err := c.doJSON(ctx, http.MethodPost, "/sentiment/report", SentimentRequest{UserID: userID, Days: days}, &out)
	if err != nil {
		var ce *ClientError
		if errors.As(err, &ce) && ce.Type == ErrTypeNotFound {
			return &SentimentReport{UserID: UserID(userID)}, nil
		}
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return &ClientError{Type: ErrTypeUnreachable, Message: "backend is unreachable", Cause: err}
}

// decodeError maps a non-2xx response to a ClientError, flattening the
// gateway's "detail" error body. Validation failures arrive as either a
// plain string or a list of {msg: ...} objects.
func (c *Client) decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	msg := flattenDetail(data)
	if msg == "" {
		msg = "request failed: " + resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &ClientError{Type: ErrTypeAuth, Message: msg}
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		return &ClientError{Type: ErrTypeValidation, Message: msg}
	case resp.StatusCode == http.StatusNotFound:
		return &ClientError{Type: ErrTypeNotFound, Message: msg}
	case resp.StatusCode >= 500:
		return &ClientError{Type: ErrTypeServer, Message: msg}
	default:
		return &ClientError{Type: ErrTypeUnknown, Message: msg}
	}
}

func flattenDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fmt.Sprintf("%s", body.Detail)
}
