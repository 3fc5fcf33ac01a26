// Package client is the Go client for the workspace membership API. It owns
// the cross-cutting request concerns the server expects of every caller:
// attaching the bearer credential, reacting to expired credentials, and
// treating the server's member list as authoritative display state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer credential for outgoing requests.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource returns a fixed token.
type StaticTokenSource string

func (s StaticTokenSource) Token() (string, error) {
	return string(s), nil
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client calls the workspace membership API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	// onUnauthorized runs when the server rejects the credential. It is
	// the injected equivalent of clearing local credential state and
	// redirecting to sign-in; the client itself stays navigation-free.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedHandler installs the expired-credential hook.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateWorkspace creates a workspace owned by the caller.
func (c *Client) CreateWorkspace(ctx context.Context, id, name string) (*Workspace, error) {
	body := map[string]string{"id": id, "name": name}
	var workspace Workspace
	if err := c.do(ctx, http.MethodPost, "/api/v1/workspaces", body, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

// GetWorkspace fetches the full workspace aggregate.
func (c *Client) GetWorkspace(ctx context.Context, id string) (*Workspace, error) {
	var workspace Workspace
	if err := c.do(ctx, http.MethodGet, "/api/v1/workspaces/"+url.PathEscape(id), nil, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

// ListMembers returns the authoritative member list. Callers replace their
// local display state with it rather than merging.
func (c *Client) ListMembers(ctx context.Context, workspaceID string) ([]Member, error) {
	var out struct {
		Members []Member `json:"members"`
	}
	path := "/api/v1/workspaces/" + url.PathEscape(workspaceID) + "/members"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// Invite adds a user to the workspace and returns the updated member list.
func (c *Client) Invite(ctx context.Context, workspaceID, username, role string) ([]Member, error) {
	body := map[string]string{"username": username, "role": role}
	var out struct {
		Members []Member `json:"members"`
	}
	path := "/api/v1/workspaces/" + url.PathEscape(workspaceID) + "/invite"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// UpsertSchema writes a shared schema and returns the updated schema list.
func (c *Client) UpsertSchema(ctx context.Context, workspaceID, schemaID, name, scripts string) ([]SharedSchema, error) {
	body := map[string]string{"schemaId": schemaID, "name": name, "scripts": scripts}
	var out struct {
		SharedSchemas []SharedSchema `json:"sharedSchemas"`
	}
	path := "/api/v1/workspaces/" + url.PathEscape(workspaceID) + "/schemas"
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return out.SharedSchemas, nil
}

// RemoveMember removes a member and returns the updated member list.
func (c *Client) RemoveMember(ctx context.Context, workspaceID, username string) ([]Member, error) {
	var out struct {
		Members []Member `json:"members"`
	}
	path := "/api/v1/workspaces/" + url.PathEscape(workspaceID) + "/members/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain credential: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(body io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil || envelope.Error == "" {
		return "request failed"
	}
	return envelope.Error
}
