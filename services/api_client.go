package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lvalverde/commerce-admin-api/config"
	"github.com/lvalverde/commerce-admin-api/models"
)

// APIClient defines the operations the dashboard needs from the commerce
// backend's REST contract
type APIClient interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
	CreateCustomer(ctx context.Context, payload models.CustomerPayload) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int, payload models.CustomerPayload) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, payload models.ProductPayload) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int) ([]models.Order, error)
	CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error)
	UpdateOrder(ctx context.Context, id int, payload models.OrderPayload) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int) error
}

// HTTPAPIClient talks JSON to the commerce backend over HTTP
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

var apiClientInstance APIClient

// NewHTTPAPIClient creates a client for the configured backend. The base URL
// and timeout come from the explicit config rather than ambient globals.
func NewHTTPAPIClient(cfg *config.Config) *HTTPAPIClient {
	return &HTTPAPIClient{
		baseURL: strings.TrimRight(cfg.BackendBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.BackendTimeout,
		},
	}
}

// GetAPIClient returns the initialized API client instance
func GetAPIClient() APIClient {
	return apiClientInstance
}

// SetAPIClient sets the API client instance (primarily for testing)
func SetAPIClient(client APIClient) {
	apiClientInstance = client
}

// ListCustomers fetches the full customer collection
func (c *HTTPAPIClient) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches one customer by id
func (c *HTTPAPIClient) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer; the backend assigns the id
func (c *HTTPAPIClient) CreateCustomer(ctx context.Context, payload models.CustomerPayload) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer replaces a customer record wholesale
func (c *HTTPAPIClient) UpdateCustomer(ctx context.Context, id int, payload models.CustomerPayload) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes a customer by id
func (c *HTTPAPIClient) DeleteCustomer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil)
}

// ListProducts fetches the full product collection
func (c *HTTPAPIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product; the backend assigns the id
func (c *HTTPAPIClient) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product record wholesale
func (c *HTTPAPIClient) UpdateProduct(ctx context.Context, id int, payload models.ProductPayload) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product by id
func (c *HTTPAPIClient) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// ListOrders fetches all orders with nested items and computed totals
func (c *HTTPAPIClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order by id, with nested items
func (c *HTTPAPIClient) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListCustomerOrders fetches the orders belonging to one customer
func (c *HTTPAPIClient) ListCustomerOrders(ctx context.Context, customerID int) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/customers/%d", customerID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder creates an order from the write payload
func (c *HTTPAPIClient) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder replaces an order from the write payload
func (c *HTTPAPIClient) UpdateOrder(ctx context.Context, id int, payload models.OrderPayload) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order by id
func (c *HTTPAPIClient) DeleteOrder(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil)
}

// do issues one JSON request against the backend and decodes the response
// into out when out is non-nil. Transport failures come back as NetworkError,
// non-2xx responses as BackendError.
func (c *HTTPAPIClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logrus.WithField("op", op).Warnf("failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &BackendError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", op, err)
	}
	return nil
}
