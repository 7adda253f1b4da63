// Package client is the typed REST client for the tableside API, shared by
// the guest and staff front ends. Reads go through a cache invalidated by
// entity id and collection tag; mutations never retry and leave cached state
// untouched on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tableside/internal/config"
	"tableside/internal/logger"
	"tableside/internal/models"
)

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// envelope mirrors the server's response convention.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Client calls the tableside REST API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
	session *SessionStore
	logger  *logger.Logger
}

// New creates a client for the configured base URL.
func New(cfg config.ClientConfig, session *SessionStore, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   NewCache(),
		session: session,
		logger:  log,
	}
}

// Session returns the staff session store.
func (c *Client) Session() *SessionStore {
	return c.session
}

// Menu catalog

func (c *Client) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return getCached[[]models.MenuItem](ctx, c, "/menuitems", TagMenuItems)
}

func (c *Client) GetMenuItem(ctx context.Context, id int) (models.MenuItem, error) {
	return getCached[models.MenuItem](ctx, c, fmt.Sprintf("/menuitems/%d", id), TagMenuItems)
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	return getCached[[]string](ctx, c, "/menuitems/categories", TagMenuItems)
}

func (c *Client) CreateMenuItem(ctx context.Context, req *models.MenuItemRequest) (models.MenuItem, error) {
	item, err := request[models.MenuItem](ctx, c, http.MethodPost, "/menuitems", req)
	if err == nil {
		c.cache.InvalidateTag(TagMenuItems)
	}
	return item, err
}

func (c *Client) UpdateMenuItem(ctx context.Context, id int, req *models.MenuItemRequest) (models.MenuItem, error) {
	item, err := request[models.MenuItem](ctx, c, http.MethodPut, fmt.Sprintf("/menuitems/%d", id), req)
	if err == nil {
		c.cache.InvalidateKey(fmt.Sprintf("/menuitems/%d", id))
		c.cache.InvalidateTag(TagMenuItems)
	}
	return item, err
}

func (c *Client) DeleteMenuItem(ctx context.Context, id int) error {
	_, err := request[any](ctx, c, http.MethodDelete, fmt.Sprintf("/menuitems/%d", id), nil)
	if err == nil {
		c.cache.InvalidateTag(TagMenuItems)
	}
	return err
}

// Tables

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	return getCached[[]models.Table](ctx, c, "/tables", TagTables)
}

func (c *Client) GetTable(ctx context.Context, id int) (models.Table, error) {
	return getCached[models.Table](ctx, c, fmt.Sprintf("/tables/%d", id), TagTables)
}

func (c *Client) CreateTable(ctx context.Context, req *models.TableRequest) (models.Table, error) {
	table, err := request[models.Table](ctx, c, http.MethodPost, "/tables", req)
	if err == nil {
		c.cache.InvalidateTag(TagTables)
	}
	return table, err
}

func (c *Client) UpdateTable(ctx context.Context, id int, req *models.TableRequest) (models.Table, error) {
	table, err := request[models.Table](ctx, c, http.MethodPut, fmt.Sprintf("/tables/%d", id), req)
	if err == nil {
		c.cache.InvalidateKey(fmt.Sprintf("/tables/%d", id))
		c.cache.InvalidateTag(TagTables)
	}
	return table, err
}

func (c *Client) DeleteTable(ctx context.Context, id int) error {
	_, err := request[any](ctx, c, http.MethodDelete, fmt.Sprintf("/tables/%d", id), nil)
	if err == nil {
		c.cache.InvalidateTag(TagTables)
	}
	return err
}

// VerifyTable resolves a guest-entered table code. Never cached: the guest
// flow wants a live answer.
func (c *Client) VerifyTable(ctx context.Context, code string) (models.TableVerification, error) {
	path := "/tables/verify?code=" + url.QueryEscape(code)
	return request[models.TableVerification](ctx, c, http.MethodGet, path, nil)
}

// CheckoutTable settles all of a table's active orders at once. The order
// and table collections are both invalidated: every settled order left the
// active set and the table's occupancy changed.
func (c *Client) CheckoutTable(ctx context.Context, id int) (models.CheckoutSummary, error) {
	summary, err := request[models.CheckoutSummary](ctx, c, http.MethodPost, fmt.Sprintf("/tables/%d/checkout", id), nil)
	if err == nil {
		c.cache.InvalidateTag(TagOrders)
		c.cache.InvalidateTag(TagTables)
	}
	return summary, err
}

// Orders

func (c *Client) ListOrders(ctx context.Context, filter models.OrderListFilter) (models.Page[models.Order], error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(filter.PageSize))
	}
	if filter.TableCode != "" {
		q.Set("tableCode", filter.TableCode)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}

	path := "/orders"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return getCached[models.Page[models.Order]](ctx, c, path, TagOrders)
}

func (c *Client) GetOrder(ctx context.Context, id int) (models.Order, error) {
	return getCached[models.Order](ctx, c, fmt.Sprintf("/orders/%d", id), TagOrders)
}

// CreateOrder places an order from either channel. A new active order
// changes its table's occupancy, so both collections are invalidated.
func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	order, err := request[models.Order](ctx, c, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, err
	}
	c.cache.InvalidateTag(TagOrders)
	c.cache.InvalidateTag(TagTables)
	return &order, nil
}

// UpdateOrderStatus requests a lifecycle transition. Requesting the order's
// current status again is a no-op resolved locally, not sent to the server.
// A rejected transition returns an error with cached state untouched, so the
// prior status stays displayed.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, next models.OrderStatus) (models.Order, error) {
	current, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if current.OrderStatus == next {
		return current, nil
	}

	order, err := request[models.Order](ctx, c, http.MethodPut, "/orders/update-status", &models.UpdateOrderStatusRequest{
		OrderID: orderID,
		Status:  next,
	})
	if err != nil {
		return models.Order{}, err
	}

	c.cache.InvalidateKey(fmt.Sprintf("/orders/%d", orderID))
	c.cache.InvalidateTag(TagOrders)
	c.cache.InvalidateTag(TagTables)
	return order, nil
}

func (c *Client) GetOrderHistory(ctx context.Context, id int) ([]models.OrderStatusHistory, error) {
	return request[[]models.OrderStatusHistory](ctx, c, http.MethodGet, fmt.Sprintf("/orders/%d/history", id), nil)
}

// getCached serves a GET from the cache, falling back to the network and
// caching the raw body under the request path.
func getCached[T any](ctx context.Context, c *Client, path string, tags ...string) (T, error) {
	if body, ok := c.cache.Get(path); ok {
		var env envelope[T]
		if err := json.Unmarshal(body, &env); err == nil {
			return env.Data, nil
		}
		// Undecodable cache entries are dropped and refetched.
		c.cache.InvalidateKey(path)
	}

	var zero T
	body, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}

	c.cache.Set(path, body, tags...)
	return env.Data, nil
}

// request performs an uncached call and decodes the envelope.
func request[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	var zero T

	body, err := c.roundTrip(ctx, method, path, payload)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	return env.Data, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if session := c.session.Current(); session != nil && session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+session.Token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
		c.session.Clear()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		var env envelope[json.RawMessage]
		if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
			message = env.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	return body, nil
}
