// Package client is a Go client for the MecFinder admin API.
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
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	// BaseURL includes the /api prefix, e.g. http://localhost:3000/api.
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Store is optional. When set, Login saves the session and Logout clears it.
	Store SessionStore
}

type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore

	mu      sync.RWMutex
	session *Session
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		store:   cfg.Store,
	}
}

func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) SetSession(session *Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

// Restore loads the stored session, if any, into the client.
func (c *Client) Restore() (*Session, error) {
	if c.store == nil {
		return nil, nil
	}
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	c.SetSession(session)
	return session, nil
}

type loginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Admin        AdminProfile `json:"admin"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, "/admin/login", nil, body, &resp, false); err != nil {
		return nil, err
	}

	session := &Session{Admin: resp.Admin, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.SetSession(session)
	if c.store != nil {
		if err := c.store.Save(session); err != nil {
			return session, err
		}
	}
	return session, nil
}

// Logout revokes the access token on the server, best effort, and always
// destroys the local session.
func (c *Client) Logout(ctx context.Context) error {
	var serverErr error
	if c.Session() != nil {
		serverErr = c.send(ctx, http.MethodPost, "/admin/logout", nil, nil, nil, false)
	}

	c.SetSession(nil)
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			return err
		}
	}
	if serverErr != nil && !IsUnauthorized(serverErr) {
		return serverErr
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*AdminProfile, error) {
	var resp struct {
		Admin AdminProfile `json:"admin"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Admin, nil
}

// refresh trades the refresh token for a new pair. Refresh tokens are single
// use, so the stored session is updated as well.
func (c *Client) refresh(ctx context.Context) error {
	session := c.Session()
	if session == nil || session.RefreshToken == "" {
		return ErrNotLoggedIn
	}

	var resp loginResponse
	body := map[string]string{"refreshToken": session.RefreshToken}
	if err := c.send(ctx, http.MethodPost, "/admin/refresh", nil, body, &resp, false); err != nil {
		return err
	}

	next := &Session{Admin: resp.Admin, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.SetSession(next)
	if c.store != nil {
		return c.store.Save(next)
	}
	return nil
}

// do sends an authenticated request. A 401 triggers one refresh and retry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if c.Session() == nil {
		return ErrNotLoggedIn
	}

	err := c.send(ctx, method, path, query, body, out, false)
	if !IsUnauthorized(err) {
		return err
	}
	if refreshErr := c.refresh(ctx); refreshErr != nil {
		return err
	}
	return c.send(ctx, method, path, query, body, out, false)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out interface{}, raw bool) error {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case *multipartBody:
		reader = bytes.NewReader(b.buf.Bytes())
		contentType = b.contentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if session := c.Session(); session != nil && session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if raw {
		*(out.(*[]byte)) = data
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(status int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		verr := &ValidationError{Message: body.Message, Details: body.Error.Details}
		if len(body.Error.Details) == 1 {
			for field, msg := range body.Error.Details {
				verr.Field, verr.Message = field, msg
			}
		}
		return verr
	case http.StatusNotFound:
		return &NotFoundError{Message: body.Message}
	case http.StatusConflict:
		return &ConflictError{Message: body.Message}
	}
	return &APIError{Status: status, Code: body.Error.Code, Message: body.Message}
}

func idPath(prefix, id string, suffix ...string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", &ValidationError{Field: "id", Message: "id is required"}
	}
	path := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		path += "/" + s
	}
	return path, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
