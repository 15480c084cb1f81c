package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/lvalverde/commerce-admin-api/models"
)

// MockAPIClient is an in-memory implementation of APIClient for testing. It
// behaves like the real backend: it assigns ids, computes order subtotals and
// totals from the stored products, and keeps collections in insertion order.
type MockAPIClient struct {
	mu sync.RWMutex

	customers []models.Customer
	products  []models.Product
	orders    []models.Order

	nextCustomerID  int
	nextProductID   int
	nextOrderID     int
	nextOrderItemID int

	failures map[string]error
	calls    []string
}

// NewMockAPIClient creates an empty mock backend
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		nextCustomerID:  1,
		nextProductID:   1,
		nextOrderID:     1,
		nextOrderItemID: 1,
		failures:        make(map[string]error),
	}
}

// SetAsMockForTesting sets this mock as the global API client instance
func (m *MockAPIClient) SetAsMockForTesting() {
	SetAPIClient(m)
}

// FailWith makes the named operation (e.g. "ListCustomers") return err until
// cleared with ClearFailures
func (m *MockAPIClient) FailWith(op string, err error) {
	m.mu.Lock()
	m.failures[op] = err
	m.mu.Unlock()
}

// ClearFailures removes all injected failures
func (m *MockAPIClient) ClearFailures() {
	m.mu.Lock()
	m.failures = make(map[string]error)
	m.mu.Unlock()
}

// Calls returns the recorded operation log (for testing assertions)
func (m *MockAPIClient) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// ClearCalls resets the recorded operation log
func (m *MockAPIClient) ClearCalls() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

// SeedCustomer stores a customer directly, assigning an id when missing
func (m *MockAPIClient) SeedCustomer(c models.Customer) models.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextCustomerID
	}
	if c.ID >= m.nextCustomerID {
		m.nextCustomerID = c.ID + 1
	}
	m.customers = append(m.customers, c)
	return c
}

// SeedProduct stores a product directly, assigning an id when missing
func (m *MockAPIClient) SeedProduct(p models.Product) models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextProductID
	}
	if p.ID >= m.nextProductID {
		m.nextProductID = p.ID + 1
	}
	m.products = append(m.products, p)
	return p
}

// SeedOrder stores an order directly, assigning an id when missing
func (m *MockAPIClient) SeedOrder(o models.Order) models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.nextOrderID
	}
	if o.ID >= m.nextOrderID {
		m.nextOrderID = o.ID + 1
	}
	m.orders = append(m.orders, o)
	return o
}

// begin records the call and returns any injected failure
func (m *MockAPIClient) begin(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
	return m.failures[op]
}

// ListCustomers returns the stored customers in insertion order
func (m *MockAPIClient) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	if err := m.begin("ListCustomers"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Customer, len(m.customers))
	copy(out, m.customers)
	return out, nil
}

// GetCustomer returns one stored customer
func (m *MockAPIClient) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	if err := m.begin(fmt.Sprintf("GetCustomer:%d", id)); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, &BackendError{Op: "GetCustomer", StatusCode: 404, Body: "customer not found"}
}

// CreateCustomer stores a new customer with an assigned id
func (m *MockAPIClient) CreateCustomer(ctx context.Context, payload models.CustomerPayload) (*models.Customer, error) {
	if err := m.begin("CreateCustomer"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	customer := models.Customer{
		ID:        m.nextCustomerID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
	}
	m.nextCustomerID++
	m.customers = append(m.customers, customer)
	return &customer, nil
}

// UpdateCustomer replaces a stored customer's fields
func (m *MockAPIClient) UpdateCustomer(ctx context.Context, id int, payload models.CustomerPayload) (*models.Customer, error) {
	if err := m.begin(fmt.Sprintf("UpdateCustomer:%d", id)); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.customers {
		if m.customers[i].ID == id {
			m.customers[i] = models.Customer{
				ID:        id,
				FirstName: payload.FirstName,
				LastName:  payload.LastName,
				Email:     payload.Email,
				Phone:     payload.Phone,
			}
			updated := m.customers[i]
			return &updated, nil
		}
	}
	return nil, &BackendError{Op: "UpdateCustomer", StatusCode: 404, Body: "customer not found"}
}

// DeleteCustomer removes a stored customer
func (m *MockAPIClient) DeleteCustomer(ctx context.Context, id int) error {
	if err := m.begin(fmt.Sprintf("DeleteCustomer:%d", id)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.customers {
		if m.customers[i].ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return &BackendError{Op: "DeleteCustomer", StatusCode: 404, Body: "customer not found"}
}

// ListProducts returns the stored products in insertion order
func (m *MockAPIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	if err := m.begin("ListProducts"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

// CreateProduct stores a new product with an assigned id
func (m *MockAPIClient) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error) {
	if err := m.begin("CreateProduct"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	product := models.Product{
		ID:          m.nextProductID,
		Name:        payload.Name,
		Brand:       payload.Brand,
		Price:       payload.Price,
		Description: payload.Description,
		Notes:       payload.Notes,
		Category:    payload.Category,
	}
	m.nextProductID++
	m.products = append(m.products, product)
	return &product, nil
}

// UpdateProduct replaces a stored product's fields
func (m *MockAPIClient) UpdateProduct(ctx context.Context, id int, payload models.ProductPayload) (*models.Product, error) {
	if err := m.begin(fmt.Sprintf("UpdateProduct:%d", id)); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i] = models.Product{
				ID:          id,
				Name:        payload.Name,
				Brand:       payload.Brand,
				Price:       payload.Price,
				Description: payload.Description,
				Notes:       payload.Notes,
				Category:    payload.Category,
			}
			updated := m.products[i]
			return &updated, nil
		}
	}
	return nil, &BackendError{Op: "UpdateProduct", StatusCode: 404, Body: "product not found"}
}

// DeleteProduct removes a stored product
func (m *MockAPIClient) DeleteProduct(ctx context.Context, id int) error {
	if err := m.begin(fmt.Sprintf("DeleteProduct:%d", id)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return &BackendError{Op: "DeleteProduct", StatusCode: 404, Body: "product not found"}
}

// ListOrders returns the stored orders in insertion order
func (m *MockAPIClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	if err := m.begin("ListOrders"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

// GetOrder returns one stored order
func (m *MockAPIClient) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	if err := m.begin(fmt.Sprintf("GetOrder:%d", id)); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.ID == id {
			found := o
			return &found, nil
		}
	}
	return nil, &BackendError{Op: "GetOrder", StatusCode: 404, Body: "order not found"}
}

// ListCustomerOrders returns the stored orders for one customer
func (m *MockAPIClient) ListCustomerOrders(ctx context.Context, customerID int) ([]models.Order, error) {
	if err := m.begin(fmt.Sprintf("ListCustomerOrders:%d", customerID)); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

// CreateOrder stores a new order, computing item subtotals and the order
// total from the stored products the way the real backend does
func (m *MockAPIClient) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	if err := m.begin("CreateOrder"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order := m.buildOrder(m.nextOrderID, payload)
	m.nextOrderID++
	m.orders = append(m.orders, order)
	return &order, nil
}

// UpdateOrder replaces a stored order, recomputing derived fields
func (m *MockAPIClient) UpdateOrder(ctx context.Context, id int, payload models.OrderPayload) (*models.Order, error) {
	if err := m.begin(fmt.Sprintf("UpdateOrder:%d", id)); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i] = m.buildOrder(id, payload)
			updated := m.orders[i]
			return &updated, nil
		}
	}
	return nil, &BackendError{Op: "UpdateOrder", StatusCode: 404, Body: "order not found"}
}

// DeleteOrder removes a stored order
func (m *MockAPIClient) DeleteOrder(ctx context.Context, id int) error {
	if err := m.begin(fmt.Sprintf("DeleteOrder:%d", id)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return &BackendError{Op: "DeleteOrder", StatusCode: 404, Body: "order not found"}
}

// buildOrder assembles the read shape from a write payload. Caller must hold
// the lock.
func (m *MockAPIClient) buildOrder(id int, payload models.OrderPayload) models.Order {
	order := models.Order{
		ID:         id,
		OrderDate:  payload.OrderDate,
		CustomerID: payload.CustomerID,
	}
	for _, c := range m.customers {
		if c.ID == payload.CustomerID {
			order.CustomerFirstName = c.FirstName
			order.CustomerLastName = c.LastName
			break
		}
	}
	for _, item := range payload.Items {
		line := models.OrderItem{
			ID:        m.nextOrderItemID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		m.nextOrderItemID++
		for _, p := range m.products {
			if p.ID == item.ProductID {
				line.ProductName = p.Name
				line.Subtotal = p.Price * float64(item.Quantity)
				break
			}
		}
		order.TotalAmount += line.Subtotal
		order.Items = append(order.Items, line)
	}
	return order
}
