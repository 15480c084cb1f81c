package models

import "strings"

// Customer represents a customer record as returned by the commerce backend
type Customer struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CustomerPayload is the write shape for creating or replacing a customer.
// The backend assigns ids, so the payload never carries one.
type CustomerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// EntityID returns the backend-assigned id
func (c Customer) EntityID() int {
	return c.ID
}

// SearchText returns the concatenated text the list filter matches against
func (c Customer) SearchText() string {
	return strings.Join([]string{c.FirstName, c.LastName, c.Email, c.Phone}, " ")
}

// DisplayName returns the customer's full name for messages and labels
func (c Customer) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Payload returns the write shape for this customer's current field values
func (c Customer) Payload() CustomerPayload {
	return CustomerPayload{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}
