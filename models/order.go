package models

import (
	"strconv"
	"strings"
)

// OrderItem represents one line of an order as returned by the backend.
// Subtotal is computed server-side and never written by this service.
type OrderItem struct {
	ID          int     `json:"id"`
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// Order represents an order record as returned by the backend, including the
// customer name fields the backend joins in and the server-computed total.
type Order struct {
	ID                int         `json:"id"`
	OrderDate         string      `json:"orderDate"`
	TotalAmount       float64     `json:"totalAmount"`
	CustomerID        int         `json:"customerId"`
	CustomerFirstName string      `json:"customerFirstName"`
	CustomerLastName  string      `json:"customerLastName"`
	Items             []OrderItem `json:"items"`
}

// OrderItemPayload is the write shape for one order line
type OrderItemPayload struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// OrderPayload is the write shape for creating or replacing an order
type OrderPayload struct {
	OrderDate  string             `json:"orderDate"`
	CustomerID int                `json:"customerId"`
	Items      []OrderItemPayload `json:"items"`
}

// EntityID returns the backend-assigned id
func (o Order) EntityID() int {
	return o.ID
}

// SearchText returns the concatenated text the list filter matches against
func (o Order) SearchText() string {
	return strings.Join([]string{
		strconv.Itoa(o.ID),
		o.OrderDate,
		o.CustomerFirstName,
		o.CustomerLastName,
	}, " ")
}

// DisplayName returns a short label for messages ("Order #12")
func (o Order) DisplayName() string {
	return "Order #" + strconv.Itoa(o.ID)
}

// Payload returns the write shape for this order's current state. Server
// computed fields (totalAmount, subtotals, item ids) are left behind.
func (o Order) Payload() OrderPayload {
	items := make([]OrderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemPayload{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return OrderPayload{
		OrderDate:  o.OrderDate,
		CustomerID: o.CustomerID,
		Items:      items,
	}
}
