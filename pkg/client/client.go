// Package client invokes server actions by name. It fetches the action
// catalog once, then builds every request from the catalog's wire models, so
// callers never hard-code URLs or verbs.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/SreeGowri/webutils/pkg/types"
)

// APIError is a non-success response decoded from the server envelope.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// UnknownActionError is returned when the catalog has no action with the
// requested name.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return "unknown action: " + e.Action
}

// Input carries the per-invocation arguments of an action call. Every field is
// optional; the action model decides which ones are actually used.
type Input struct {
	Payload     any
	URLParams   map[string]string
	Attachments map[string]Attachment
}

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client

	mu      sync.RWMutex
	actions map[string]types.ActionModel
}

// New creates a client for the server at baseURL. An empty accessToken makes
// anonymous calls; pass nil to use http.DefaultClient.
func New(baseURL, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// SetAccessToken replaces the bearer token used on subsequent calls.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// FetchActions downloads the action catalog and caches it for name lookups.
func (c *Client) FetchActions(ctx context.Context) ([]types.ActionModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/actions/fetch", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch action catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var catalog types.FetchActionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode action catalog: %w", err)
	}

	c.mu.Lock()
	c.actions = make(map[string]types.ActionModel, len(catalog.Actions))
	for _, a := range catalog.Actions {
		c.actions[a.Name] = a
	}
	c.mu.Unlock()
	return catalog.Actions, nil
}

// Invoke calls the named action and decodes the response into out (skipped
// when out is nil). The catalog is fetched lazily on first use.
func (c *Client) Invoke(ctx context.Context, name string, in *Input, out any) error {
	model, err := c.action(ctx, name)
	if err != nil {
		return err
	}
	if in == nil {
		in = &Input{}
	}

	req, err := BuildRequest(ctx, c.baseURL, model, in.Payload, in.URLParams, in.Attachments)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to invoke action %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of action %s: %w", name, err)
	}
	return nil
}

// Login authenticates with the auth.login action and keeps the returned
// access token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp types.LoginResponse
	err := c.Invoke(ctx, "auth.login", &Input{
		Payload: types.LoginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return err
	}
	c.SetAccessToken(resp.AccessToken)
	return nil
}

func (c *Client) action(ctx context.Context, name string) (types.ActionModel, error) {
	c.mu.RLock()
	model, ok := c.actions[name]
	loaded := c.actions != nil
	c.mu.RUnlock()
	if ok {
		return model, nil
	}
	if !loaded {
		if _, err := c.FetchActions(ctx); err != nil {
			return types.ActionModel{}, err
		}
		c.mu.RLock()
		model, ok = c.actions[name]
		c.mu.RUnlock()
		if ok {
			return model, nil
		}
	}
	return types.ActionModel{}, &UnknownActionError{Action: name}
}

func (c *Client) authorize(req *http.Request) {
	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeError turns a non-200 response into an APIError, preserving the
// server's response code when the envelope parses.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var envelope types.BaseResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Code == 0 {
		return &APIError{StatusCode: resp.StatusCode, Code: types.ResponseCodeUnhandledError, Message: string(body)}
	}
	return &APIError{StatusCode: resp.StatusCode, Code: envelope.Code, Message: envelope.Message}
}
