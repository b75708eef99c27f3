package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/infrastructure/config"
)

// Client talks to the store server. Every call carries its own deadline:
// reads give up fast so the storefront can fall back to the local mirror,
// writes get a little longer because they are retried by the sync queue
// anyway.
type Client struct {
	baseURL      string
	readTimeout  time.Duration
	writeTimeout time.Duration
	http         *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a remote client from configuration
func NewClient(cfg config.RemoteConfig) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		http:         &http.Client{},
	}
}

// SetToken attaches a session token to subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// BaseURL returns the configured server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
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
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, shared.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: server returned %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// FetchProducts returns the full catalog from the server
func (c *Client) FetchProducts(ctx context.Context) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", c.readTimeout, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct pushes a new product to the server
func (c *Client) CreateProduct(ctx context.Context, p *catalog.Product) error {
	return c.do(ctx, http.MethodPost, "/api/products", c.writeTimeout, p, nil)
}

// UpdateProduct pushes a full product update. Returns shared.ErrNotFound when
// the server has never seen the id, which the sync queue turns into a create.
func (c *Client) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	return c.do(ctx, http.MethodPut, "/api/products/"+p.ID, c.writeTimeout, p, nil)
}

// DeleteProduct removes a product on the server
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, c.writeTimeout, nil, nil)
}

type loginRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type loginResponse struct {
	User  *identity.User `json:"user"`
	Token string         `json:"token"`
}

// Login registers or fetches the user on the server
func (c *Client) Login(ctx context.Context, name, phone string) (*identity.User, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", c.writeTimeout, loginRequest{Name: name, Phone: phone}, &resp)
	if err != nil {
		return nil, "", err
	}
	if resp.User == nil {
		return nil, "", fmt.Errorf("login: empty user in response")
	}
	return resp.User, resp.Token, nil
}

// HealthStatus mirrors the server health payload
type HealthStatus struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// Health probes the server liveness endpoint
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", c.readTimeout, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
