package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/services"
	"github.com/lvalverde/commerce-admin-api/utils"
)

// DraftRow is one not-yet-validated order line. Rows carry a locally
// generated stable key, so removing a row never re-targets a later edit the
// way positional indexes would.
type DraftRow struct {
	Key       string `json:"key"`
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderSeed is the existing order state an edit-mode draft starts from
type OrderSeed struct {
	OrderID    int
	CustomerID int
	Items      []models.OrderItemPayload
}

// Submission is what a submitted draft hands to the order workflow's save.
// OrderID is 0 for a create.
type Submission struct {
	OrderID int
	Payload models.OrderPayload
}

// OrderDraft is the order composition editor: one parent customer plus a
// dynamic list of line item rows. Reference lists are re-fetched on every
// open; staleness between opens is accepted instead of maintaining a cache.
type OrderDraft struct {
	mu     sync.Mutex
	client services.APIClient

	open       bool
	orderID    int // 0 while composing a new order
	customerID int
	rows       []DraftRow

	customers []models.Customer
	products  []models.Product
}

// NewOrderDraft creates a draft editor backed by the given client
func NewOrderDraft(client services.APIClient) *OrderDraft {
	return &OrderDraft{client: client}
}

// Open starts composing an order. A nil seed means create mode: customer
// unselected and a single blank row. A seed means edit mode: customer and
// rows come from the existing order, with one blank row when it had no items.
// Both reference lists are fetched fresh, concurrently; the draft does not
// open unless both arrive.
func (d *OrderDraft) Open(ctx context.Context, seed *OrderSeed) error {
	var (
		wg        sync.WaitGroup
		customers []models.Customer
		products  []models.Product
		custErr   error
		prodErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		customers, custErr = d.client.ListCustomers(ctx)
	}()
	go func() {
		defer wg.Done()
		products, prodErr = d.client.ListProducts(ctx)
	}()
	wg.Wait()

	if custErr != nil {
		logrus.WithError(custErr).Warn("order draft could not load customers")
		return custErr
	}
	if prodErr != nil {
		logrus.WithError(prodErr).Warn("order draft could not load products")
		return prodErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers = customers
	d.products = products
	d.open = true

	if seed != nil {
		d.orderID = seed.OrderID
		d.customerID = seed.CustomerID
		d.rows = nil
		for _, item := range seed.Items {
			d.rows = append(d.rows, DraftRow{
				Key:       uuid.NewString(),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if len(d.rows) == 0 {
			d.rows = []DraftRow{blankRow()}
		}
		return nil
	}

	d.orderID = 0
	d.customerID = 0
	d.rows = []DraftRow{blankRow()}
	return nil
}

// Close discards the draft without submitting
func (d *OrderDraft) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.orderID = 0
	d.customerID = 0
	d.rows = nil
}

// IsOpen reports whether a draft is in progress
func (d *OrderDraft) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// EditingOrderID returns the id of the order being edited (0 for a create)
func (d *OrderDraft) EditingOrderID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orderID
}

// SetCustomer selects the order's customer (0 = unselected)
func (d *OrderDraft) SetCustomer(customerID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return fmt.Errorf("no order draft in progress")
	}
	d.customerID = customerID
	return nil
}

// CustomerID returns the currently selected customer
func (d *OrderDraft) CustomerID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.customerID
}

// AddRow appends a blank row and returns its key
func (d *OrderDraft) AddRow() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return "", fmt.Errorf("no order draft in progress")
	}
	row := blankRow()
	d.rows = append(d.rows, row)
	return row.Key, nil
}

// RemoveRow deletes the row with the given key
func (d *OrderDraft) RemoveRow(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return fmt.Errorf("no order draft in progress")
	}
	for i := range d.rows {
		if d.rows[i].Key == key {
			d.rows = append(d.rows[:i], d.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("draft row %s not found", key)
}

// SetRowProduct replaces one row's product selection
func (d *OrderDraft) SetRowProduct(key string, productID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setRowLocked(key, func(row *DraftRow) {
		row.ProductID = productID
	})
}

// SetRowQuantity replaces one row's quantity
func (d *OrderDraft) SetRowQuantity(key string, quantity int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setRowLocked(key, func(row *DraftRow) {
		row.Quantity = quantity
	})
}

// Rows returns a copy of the current draft rows in order
func (d *OrderDraft) Rows() []DraftRow {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DraftRow, len(d.rows))
	copy(out, d.rows)
	return out
}

// Customers returns the reference list fetched at open time
func (d *OrderDraft) Customers() []models.Customer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Customer, len(d.customers))
	copy(out, d.customers)
	return out
}

// Products returns the reference list fetched at open time
func (d *OrderDraft) Products() []models.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Product, len(d.products))
	copy(out, d.products)
	return out
}

// Submit cleans the draft and produces the save payload: rows with an
// unselected product or a non-positive quantity are dropped, and orderDate is
// stamped with today's date on every submit, edits included. An empty cleaned
// list is still submitted; orders with no items are an accepted outcome.
// Submit does not call the backend and does not close the draft; the owning
// controller routes the submission through the order workflow's save.
func (d *OrderDraft) Submit() (Submission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return Submission{}, fmt.Errorf("no order draft in progress")
	}

	items := make([]models.OrderItemPayload, 0, len(d.rows))
	for _, row := range d.rows {
		if row.ProductID == 0 || row.Quantity <= 0 {
			continue
		}
		items = append(items, models.OrderItemPayload{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		})
	}

	return Submission{
		OrderID: d.orderID,
		Payload: models.OrderPayload{
			OrderDate:  utils.Today(),
			CustomerID: d.customerID,
			Items:      items,
		},
	}, nil
}

// setRowLocked mutates one row by key. Caller must hold the lock.
func (d *OrderDraft) setRowLocked(key string, apply func(*DraftRow)) error {
	if !d.open {
		return fmt.Errorf("no order draft in progress")
	}
	for i := range d.rows {
		if d.rows[i].Key == key {
			apply(&d.rows[i])
			return nil
		}
	}
	return fmt.Errorf("draft row %s not found", key)
}

func blankRow() DraftRow {
	return DraftRow{Key: uuid.NewString(), ProductID: 0, Quantity: 1}
}
