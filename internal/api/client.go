package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// OAuth client ID for the Yoto device-code flow
const (
	ClientID = "RslORm04nKbhf04qb91r2Pxwjsn3Hnd5"
)

// API endpoints
const (
	DefaultBaseURL  = "https://api.yotoplay.com"
	DefaultLoginURL = "https://login.yotoplay.com"

	DeviceCodePath = "/oauth/device/code"
	TokenPath      = "/oauth/token"

	DeviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"
	RefreshGrant    = "refresh_token"
	AuthScope       = "offline_access"
)

// HTTP behavior
const (
	RequestTimeout     = 30 * time.Second
	DefaultPollSeconds = 5
)

// File permissions for the persisted token file
const (
	TokenDirPermissions  = 0700
	TokenFilePermissions = 0600
)

// Token holds the OAuth tokens returned by the login service
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the access token needs refreshing
func (t *Token) Expired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt)
}

// DeviceCode is the pending device authorization returned by the login service
type DeviceCode struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete"`
	ExpiresIn               int    `json:"expires_in"`
	Interval                int    `json:"interval"`
}

// APIError is returned for non-2xx API responses
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
}

// Client talks to the Yoto cloud API. Tokens are persisted to a JSON file so
// a login survives restarts. All operations take a context and are safe to
// call from background goroutines.
type Client struct {
	httpClient *http.Client
	baseURL    string
	loginURL   string
	tokensPath string

	tokenMutex sync.Mutex
	token      *Token
}

// NewClient creates an API client persisting tokens at tokensPath.
// Previously saved tokens are loaded if present.
func NewClient(tokensPath string) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: RequestTimeout},
		baseURL:    DefaultBaseURL,
		loginURL:   DefaultLoginURL,
		tokensPath: tokensPath,
	}

	if token, err := c.loadToken(); err == nil {
		c.token = token
	}

	return c
}

// SetBaseURL overrides the API base URL (used by tests)
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// SetLoginURL overrides the login base URL (used by tests)
func (c *Client) SetLoginURL(u string) {
	c.loginURL = u
}

// Authenticated reports whether the client holds an access token
func (c *Client) Authenticated() bool {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	return c.token != nil && c.token.AccessToken != ""
}

// StartDeviceAuthorization begins the OAuth device-code flow. The returned
// DeviceCode carries the user code and verification URL to show the user.
func (c *Client) StartDeviceAuthorization(ctx context.Context) (*DeviceCode, error) {
	form := url.Values{
		"client_id": {ClientID},
		"scope":     {AuthScope},
		"audience":  {DefaultBaseURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL+DeviceCodePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build device code request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var code DeviceCode
	if err := c.doJSON(req, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

// PollForToken polls the token endpoint until the user approves the device,
// the code expires, or ctx is cancelled.
func (c *Client) PollForToken(ctx context.Context, code *DeviceCode) (*Token, error) {
	interval := code.Interval
	if interval <= 0 {
		interval = DefaultPollSeconds
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(interval) * time.Second):
		}

		token, retryable, err := c.requestToken(ctx, url.Values{
			"client_id":   {ClientID},
			"grant_type":  {DeviceGrantType},
			"device_code": {code.DeviceCode},
		})
		if err != nil {
			if retryable {
				log.Printf("Device authorization pending, polling again in %ds", interval)
				continue
			}
			return nil, err
		}

		c.storeToken(token)
		return token, nil
	}
}

// Refresh exchanges the refresh token for a new access token
func (c *Client) Refresh(ctx context.Context) error {
	c.tokenMutex.Lock()
	refresh := ""
	if c.token != nil {
		refresh = c.token.RefreshToken
	}
	c.tokenMutex.Unlock()

	if refresh == "" {
		return fmt.Errorf("no refresh token available")
	}

	token, _, err := c.requestToken(ctx, url.Values{
		"client_id":     {ClientID},
		"grant_type":    {RefreshGrant},
		"refresh_token": {refresh},
	})
	if err != nil {
		return err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refresh
	}

	c.storeToken(token)
	return nil
}

// requestToken performs one token-endpoint request. The second return value
// reports whether the failure is retryable (authorization still pending).
func (c *Client) requestToken(ctx context.Context, form url.Values) (*Token, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL+TokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &oauthErr) == nil &&
			(oauthErr.Error == "authorization_pending" || oauthErr.Error == "slow_down") {
			return nil, true, fmt.Errorf("authorization pending")
		}
		return nil, false, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var raw struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false, fmt.Errorf("failed to decode token response: %w", err)
	}

	token := &Token{
		AccessToken:  raw.AccessToken,
		RefreshToken: raw.RefreshToken,
		TokenType:    raw.TokenType,
	}
	if raw.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(raw.ExpiresIn) * time.Second)
	}
	return token, false, nil
}

// storeToken keeps the token in memory and persists it to disk
func (c *Client) storeToken(token *Token) {
	c.tokenMutex.Lock()
	c.token = token
	c.tokenMutex.Unlock()

	if err := c.saveToken(token); err != nil {
		log.Printf("Warning: failed to persist tokens: %v", err)
	}
}

// saveToken writes the token file, creating the parent directory if needed
func (c *Client) saveToken(token *Token) error {
	if c.tokensPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.tokensPath), TokenDirPermissions); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	if err := os.WriteFile(c.tokensPath, data, TokenFilePermissions); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// loadToken reads a previously persisted token file
func (c *Client) loadToken() (*Token, error) {
	if c.tokensPath == "" {
		return nil, fmt.Errorf("no token path configured")
	}
	data, err := os.ReadFile(c.tokensPath)
	if err != nil {
		return nil, err
	}
	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return &token, nil
}

// doJSON executes a request and decodes a JSON response into out.
// Non-2xx responses are returned as *APIError.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// authorizedRequest builds a request with the bearer token attached
func (c *Client) authorizedRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	c.tokenMutex.Lock()
	token := c.token
	c.tokenMutex.Unlock()

	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("not authenticated")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
