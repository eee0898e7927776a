// Package api talks to the shipment backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-dashboard/internal/shipment"
)

// Default error messages shown when the backend gives no message of its own.
const (
	MsgResiNotFound  = "Nomor resi tidak ditemukan"
	MsgCreateFailed  = "Gagal membuat pesanan"
	MsgUpdateFailed  = "Gagal mengupdate status"
	defaultUserAgent = "shipment-dashboard/1.0"
)

// Client handles HTTP requests to the shipment backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// ClientConfig configures the backend client
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// NewClient creates a new backend client
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %s", config.BaseURL)
	}
	if config.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured backend URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetShipments fetches the active shipments and the completed history.
func (c *Client) GetShipments(ctx context.Context) (shipment.Collection, error) {
	var collection shipment.Collection

	resp, body, err := c.do(ctx, http.MethodGet, "/api/shipments", nil, "")
	if err != nil {
		return collection, err
	}
	if !isSuccess(resp.StatusCode) {
		return collection, newAPIError(resp.StatusCode, body, fmt.Sprintf("HTTP error, status %d", resp.StatusCode))
	}
	if err := json.Unmarshal(body, &collection); err != nil {
		return collection, fmt.Errorf("failed to decode shipments: %w", err)
	}
	collection.Normalize()
	return collection, nil
}

// GetStatusByResi looks a shipment up by tracking number.
func (c *Client) GetStatusByResi(ctx context.Context, resi string) (*TrackingResult, error) {
	path := "/status?no_resi=" + url.QueryEscape(resi)

	resp, body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newAPIError(resp.StatusCode, body, MsgResiNotFound)
	}

	var result TrackingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &result, nil
}

// CreateShipment registers a new order. The backend prices it from its route
// table and replies with the assigned tracking number.
func (c *Client) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*TrackingResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, body, err := c.do(ctx, http.MethodPost, "/shipments", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newAPIError(resp.StatusCode, body, MsgCreateFailed)
	}

	var result TrackingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode created shipment: %w", err)
	}
	return &result, nil
}

// UpdateStatus sets the delivery status of an active shipment. The backend
// archives the shipment when the status is the completed one. Only success
// or failure is reported; the backend's error text is not surfaced.
func (c *Client) UpdateStatus(ctx context.Context, docID, status string) error {
	form := url.Values{}
	form.Set("doc_id", docID)
	form.Set("status", status)

	resp, _, err := c.do(ctx, http.MethodPost, "/status/update", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return &APIError{StatusCode: resp.StatusCode, Message: MsgUpdateFailed}
	}
	return nil
}

// Ping verifies the backend is reachable
func (c *Client) Ping(ctx context.Context) error {
	resp, body, err := c.do(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return newAPIError(resp.StatusCode, body, fmt.Sprintf("health check failed with status %d", resp.StatusCode))
	}
	return nil
}

// do executes a single request and reads the whole response body. There is
// no retry; a transport failure is returned wrapped.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "method", method, "path", path, "error", err)
		return nil, nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	return resp, respBody, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
