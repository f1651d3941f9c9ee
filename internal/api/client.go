// Package api is the HTTP JSON client for the kiosk ordering backend.
package api

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
	"sync"
	"time"

	"github.com/chrisdamba/kioskorder/internal/models"
	log "github.com/sirupsen/logrus"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP is used when the caller owns the transport, as in tests.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates the kiosk and returns the session token. The token is
// not installed on the client; the caller decides when to do that.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &resp, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/menu/categories", nil, nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// MenuItems lists menu items, optionally restricted to one category.
func (c *Client) MenuItems(ctx context.Context, category string) ([]models.MenuItem, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	var items []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu/items", query, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Tables(ctx context.Context) ([]models.Table, error) {
	var resp struct {
		Tables []models.Table `json:"tables"`
	}
	if err := c.do(ctx, http.MethodGet, "/tables", nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tables, nil
}

// CreateOrder submits an order. idempotencyKey, when set, lets the backend
// recognise a retried submission.
func (c *Client) CreateOrder(ctx context.Context, order *models.OrderRequest, idempotencyKey string) (*models.OrderResponse, error) {
	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set("Idempotency-Key", idempotencyKey)
	}
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", nil, order, headers, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID() == "" {
		return nil, errors.New("order response carried no order id")
	}
	return &resp, nil
}

func (c *Client) Branding(ctx context.Context) (*models.Branding, error) {
	var branding models.Branding
	if err := c.do(ctx, http.MethodGet, "/config/branding", nil, nil, nil, &branding); err != nil {
		return nil, err
	}
	return &branding, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any, headers http.Header, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		log.WithFields(log.Fields{"method": method, "path": path}).WithError(err).Warn("backend unreachable")
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RejectedError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
