// client.go - HTTP client for the AnythingLLM-compatible knowledge base service

package knowledgebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go-discovery-backend/config"
	"go-discovery-backend/logger"
)

// HTTPError is a non-2xx reply from the service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("knowledge base http %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (e *HTTPError) UpstreamMessage() string { return e.Message }

// NetworkError means the request never got a response.
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot connect to knowledge base at %s: %v", e.BaseURL, e.Err)
}

func (e *NetworkError) Unwrap() error     { return e.Err }
func (e *NetworkError) Unreachable() bool { return true }

type Workspace struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type chatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

type chatResponse struct {
	TextResponse string `json:"textResponse"`
	Response     string `json:"response"`
}

type Client struct {
	baseURL    string
	apiKey     string
	mode       string
	httpClient *http.Client
	log        *logger.Logger
}

func New(cfg config.KnowledgeBaseConfig, log *logger.Logger) *Client {
	mode := strings.TrimSpace(cfg.Mode)
	if mode == "" {
		mode = "query"
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		mode:       mode,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "knowledgebase"),
	}
}

// SendMessage sends message to the workspace in the configured mode.
func (c *Client) SendMessage(ctx context.Context, workspace, message string) (string, error) {
	return c.Chat(ctx, workspace, message, c.mode)
}

// Chat posts a message to a workspace and returns the text reply, which may be empty.
func (c *Client) Chat(ctx context.Context, workspace, message, mode string) (string, error) {
	if mode == "" {
		mode = c.mode
	}
	path := "/api/v1/workspace/" + url.PathEscape(workspace) + "/chat"

	var out chatResponse
	if err := c.do(ctx, http.MethodPost, path, chatRequest{Message: message, Mode: mode}, &out); err != nil {
		return "", err
	}
	if out.TextResponse != "" {
		return out.TextResponse, nil
	}
	return out.Response, nil
}

// ListWorkspaces never fails: any error is logged and yields an empty list.
func (c *Client) ListWorkspaces(ctx context.Context) []Workspace {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/workspaces", nil, &raw); err != nil {
		c.log.Warn("list workspaces failed", "error", err)
		return []Workspace{}
	}

	// Accept both {"workspaces": [...]} and a bare array.
	var wrapped struct {
		Workspaces []Workspace `json:"workspaces"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Workspaces != nil {
		return wrapped.Workspaces
	}
	var list []Workspace
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		return list
	}
	c.log.Warn("unrecognised workspaces payload")
	return []Workspace{}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &NetworkError{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{BaseURL: c.baseURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls "message" or "error" from an error body, else "Unknown error".
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return msg
		}
		if s, ok := body.Error.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return "Unknown error"
}
