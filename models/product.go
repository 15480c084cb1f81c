package models

import "strings"

// Product represents a product record as returned by the commerce backend
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
	Category    string  `json:"category"`
}

// ProductPayload is the write shape for creating or replacing a product
type ProductPayload struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
	Category    string  `json:"category"`
}

// EntityID returns the backend-assigned id
func (p Product) EntityID() int {
	return p.ID
}

// SearchText returns the concatenated text the list filter matches against
func (p Product) SearchText() string {
	return strings.Join([]string{p.Name, p.Brand, p.Category, p.Description, p.Notes}, " ")
}

// DisplayName returns the product name for messages and labels
func (p Product) DisplayName() string {
	return p.Name
}

// Payload returns the write shape for this product's current field values
func (p Product) Payload() ProductPayload {
	return ProductPayload{
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Description: p.Description,
		Notes:       p.Notes,
		Category:    p.Category,
	}
}
