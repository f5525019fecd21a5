// Package api is the client for the remote MediMind HTTP API: auth/session and
// schedule persistence. Failures here propagate to the caller with the
// backend's human-readable message; reminder reconciliation keeps operating on
// whatever schedule list it was last given.
package api

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

	"github.com/google/uuid"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

// Client talks to the MediMind backend. The session token, once set, rides
// along as a bearer token on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs (or clears, with "") the session bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and stores the returned session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var res AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return res, fmt.Errorf("login: %w", err)
	}
	if res.SessionID != "" {
		c.SetToken(res.SessionID)
	}
	return res, nil
}

// Signup registers a new account and stores the returned session token.
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (AuthResponse, error) {
	var res AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup",
		map[string]string{"email": email, "password": password, "fullName": fullName}, &res)
	if err != nil {
		return res, fmt.Errorf("signup: %w", err)
	}
	if res.SessionID != "" {
		c.SetToken(res.SessionID)
	}
	return res, nil
}

// Logout invalidates the server session. The local token is cleared whether or
// not the server call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.SetToken("")
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var res Account
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return res, fmt.Errorf("me: %w", err)
	}
	return res, nil
}

// RegisterAgentToken reports this agent's delivery token to the backend.
func (c *Client) RegisterAgentToken(ctx context.Context, token string) error {
	err := c.do(ctx, http.MethodPost, "/auth/fcm-token",
		map[string]string{"fcm_token": token}, nil)
	if err != nil {
		return fmt.Errorf("register agent token: %w", err)
	}
	return nil
}

// Schedules fetches the user's medication schedules.
func (c *Client) Schedules(ctx context.Context, userID string) ([]domain.MedicationSchedule, error) {
	var wire []Schedule
	path := "/api/user/" + url.PathEscape(userID) + "/schedules"
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, fmt.Errorf("fetch schedules: %w", err)
	}
	out := make([]domain.MedicationSchedule, len(wire))
	for i, s := range wire {
		out[i] = s.ToDomain()
	}
	return out, nil
}

// ToggleSchedule flips one schedule's enabled flag.
func (c *Client) ToggleSchedule(ctx context.Context, scheduleID string, enabled bool) error {
	err := c.do(ctx, http.MethodPost, "/api/toggle-schedule",
		map[string]any{"schedule_id": scheduleID, "enabled": enabled}, nil)
	if err != nil {
		return fmt.Errorf("toggle schedule: %w", err)
	}
	return nil
}

// UpdateSchedule replaces one schedule's editable fields and returns the
// updated schedule.
func (c *Client) UpdateSchedule(ctx context.Context, scheduleID string, req UpdateScheduleRequest) (domain.MedicationSchedule, error) {
	var res struct {
		Success  bool     `json:"success"`
		Schedule Schedule `json:"schedule"`
	}
	path := "/api/schedule/" + url.PathEscape(scheduleID)
	if err := c.do(ctx, http.MethodPut, path, req, &res); err != nil {
		return domain.MedicationSchedule{}, fmt.Errorf("update schedule: %w", err)
	}
	return res.Schedule.ToDomain(), nil
}

// DeleteSchedule removes one schedule.
func (c *Client) DeleteSchedule(ctx context.Context, scheduleID string) error {
	path := "/api/schedule/" + url.PathEscape(scheduleID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e apiError
		if json.Unmarshal(data, &e) == nil && e.text() != "" {
			return fmt.Errorf("%s (status %d)", e.text(), resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
